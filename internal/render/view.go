// Package render turns an imposition result into something people read: a
// view model with localized labels and blank placeholders, an HTML page and
// a plain-text table.
package render

import (
	"strconv"

	"golang.org/x/text/message"

	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/messages"
	"github.com/eugenenazirov/booklet-imposer/internal/pagecount"
)

// SlotView is one print position. Label is the page number, or the blank
// placeholder when the slot is filler.
type SlotView struct {
	Page  int    `json:"page"`
	Blank bool   `json:"blank"`
	Label string `json:"label"`
}

// SheetView is one physical sheet with its four positions.
type SheetView struct {
	Number     int      `json:"sheet"`
	Title      string   `json:"-"`
	FrontLeft  SlotView `json:"frontLeft"`
	FrontRight SlotView `json:"frontRight"`
	BackLeft   SlotView `json:"backLeft"`
	BackRight  SlotView `json:"backRight"`
}

// SummaryItem is a labelled figure shown above the sheets.
type SummaryItem struct {
	Label string
	Value string
}

// SideLabels names the sides and halves of a sheet.
type SideLabels struct {
	Front string
	Back  string
	Left  string
	Right string
}

// View is the presentation form of an imposition result.
type View struct {
	Result  imposition.Result
	Query   string
	Summary []SummaryItem
	Sides   SideLabels
	Sheets  []SheetView
}

// NewView localizes r with p.
func NewView(r imposition.Result, p *message.Printer) View {
	blank := p.Sprintf(messages.Blank)
	slot := func(page int) SlotView {
		if imposition.IsBlank(page, r.Pages) {
			return SlotView{Page: page, Blank: true, Label: blank}
		}
		return SlotView{Page: page, Label: strconv.Itoa(page)}
	}

	sheets := make([]SheetView, 0, len(r.Sheets))
	for _, s := range r.Sheets {
		sheets = append(sheets, SheetView{
			Number:     s.Number,
			Title:      p.Sprintf(messages.SheetTitle, s.Number),
			FrontLeft:  slot(s.FrontLeft),
			FrontRight: slot(s.FrontRight),
			BackLeft:   slot(s.BackLeft),
			BackRight:  slot(s.BackRight),
		})
	}

	return View{
		Result: r,
		Query:  pagecount.Encode(r.Pages),
		Summary: []SummaryItem{
			{Label: p.Sprintf(messages.SheetsLabel), Value: p.Sprintf(messages.SheetsValue, r.SheetCount)},
			{Label: p.Sprintf(messages.TotalPagesLabel), Value: p.Sprintf(messages.PagesValue, r.TotalPages)},
			{Label: p.Sprintf(messages.BlankPagesLabel), Value: p.Sprintf(messages.PagesValue, r.BlankCount)},
		},
		Sides: SideLabels{
			Front: p.Sprintf(messages.Front),
			Back:  p.Sprintf(messages.Back),
			Left:  p.Sprintf(messages.Left),
			Right: p.Sprintf(messages.Right),
		},
		Sheets: sheets,
	}
}
