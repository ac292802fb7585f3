package render

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eugenenazirov/booklet-imposer/internal/messages"
)

// PageData feeds the index template. Error and View are never both set: a
// failed parse withholds the imposition.
type PageData struct {
	Lang           string
	Title          string
	PageCountLabel string
	Submit         string
	Input          string
	Error          string
	View           *View
}

// NewPageData fills the static labels for tag.
func NewPageData(tag language.Tag, p *message.Printer) PageData {
	return PageData{
		Lang:           tag.String(),
		Title:          p.Sprintf(messages.Title),
		PageCountLabel: p.Sprintf(messages.PageCountLabel),
		Submit:         p.Sprintf(messages.Submit),
	}
}

// ParseTemplate loads the index template from path.
func ParseTemplate(path string) (*template.Template, error) {
	tmpl, err := template.New(filepath.Base(path)).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	return tmpl, nil
}

// HTML executes tmpl with data.
func HTML(w io.Writer, tmpl *template.Template, data PageData) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
