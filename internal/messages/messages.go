// Package messages holds the static user-facing strings in Japanese and
// English and picks the language for a request.
package messages

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/eugenenazirov/booklet-imposer/internal/imposition"
	"github.com/eugenenazirov/booklet-imposer/internal/pagecount"
)

// Message keys. Each key doubles as the English text.
const (
	Title           = "Booklet imposition"
	PageCountLabel  = "Page count"
	Submit          = "Calculate"
	SheetsLabel     = "Sheets"
	SheetsValue     = "%d sheets"
	TotalPagesLabel = "Total pages"
	BlankPagesLabel = "Blank pages"
	PagesValue      = "%d pages"
	SheetTitle      = "Sheet %d"
	Front           = "Front"
	Back            = "Back"
	Left            = "Left"
	Right           = "Right"
	Blank           = "blank"
	EmptyInput      = "Please enter a page count."
	NotPositive     = "Please enter a positive integer."
	TooLarge        = "Please enter a page count of %d or less."
	InvalidRequest  = "Invalid request."
	InternalError   = "An unexpected error occurred."
	TooManyRequests = "Too many requests. Please retry shortly."
)

// ErrUnsupportedLanguage is returned when a default language has no catalog.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var supported = []language.Tag{language.Japanese, language.English}

var japanese = map[string]string{
	Title:           "冊子面付け計算",
	PageCountLabel:  "ページ数",
	Submit:          "計算",
	SheetsLabel:     "用紙枚数",
	SheetsValue:     "%d枚",
	TotalPagesLabel: "総ページ数",
	BlankPagesLabel: "空白ページ",
	PagesValue:      "%dページ",
	SheetTitle:      "%d枚目",
	Front:           "表",
	Back:            "裏",
	Left:            "左",
	Right:           "右",
	Blank:           "空白",
	EmptyInput:      "ページ数を入力してください。",
	NotPositive:     "正の整数を入力してください。",
	TooLarge:        "%dページ以下で入力してください。",
	InvalidRequest:  "不正なリクエストです。",
	InternalError:   "予期しないエラーが発生しました。",
	TooManyRequests: "リクエストが多すぎます。しばらくしてから再試行してください。",
}

// Localizer builds message printers for the supported languages.
type Localizer struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	fallback language.Tag
}

// New builds the catalogs and resolves defaultLang, which is used when a
// request does not ask for a supported language.
func New(defaultLang string) (*Localizer, error) {
	if strings.TrimSpace(defaultLang) == "" {
		return nil, fmt.Errorf("%w: empty language", ErrUnsupportedLanguage)
	}
	l := &Localizer{matcher: language.NewMatcher(supported)}

	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, defaultLang)
	}
	fallback, ok := l.match(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, defaultLang)
	}
	l.fallback = fallback

	cat, err := buildCatalog(fallback)
	if err != nil {
		return nil, fmt.Errorf("build message catalog: %w", err)
	}
	l.catalog = cat
	return l, nil
}

// IsSupported reports whether lang resolves to one of the catalogs.
func IsSupported(lang string) bool {
	if strings.TrimSpace(lang) == "" {
		return false
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, _, confidence := language.NewMatcher(supported).Match(tag)
	return confidence != language.No
}

// Tag picks the language for a request. An explicit choice (the lang query
// parameter or flag) wins over the Accept-Language header.
func (l *Localizer) Tag(explicit, acceptLanguage string) language.Tag {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			if matched, ok := l.match(tag); ok {
				return matched
			}
		}
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if matched, ok := l.match(tags...); ok {
				return matched
			}
		}
	}
	return l.fallback
}

// Printer returns a printer for the language chosen by Tag.
func (l *Localizer) Printer(explicit, acceptLanguage string) *message.Printer {
	return l.PrinterFor(l.Tag(explicit, acceptLanguage))
}

// PrinterFor returns a printer bound to tag.
func (l *Localizer) PrinterFor(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(l.catalog))
}

func (l *Localizer) match(tags ...language.Tag) (language.Tag, bool) {
	_, idx, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supported[idx], true
}

// ErrorText returns the localized message for a page count error. maxPages
// fills in the limit for pagecount.ErrTooLarge.
func ErrorText(p *message.Printer, err error, maxPages int) string {
	switch {
	case errors.Is(err, pagecount.ErrEmpty):
		return p.Sprintf(EmptyInput)
	case errors.Is(err, pagecount.ErrTooLarge):
		return p.Sprintf(TooLarge, maxPages)
	case errors.Is(err, pagecount.ErrNotPositiveInteger), errors.Is(err, imposition.ErrInvalidPages):
		return p.Sprintf(NotPositive)
	default:
		return p.Sprintf(InternalError)
	}
}

func buildCatalog(fallback language.Tag) (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(fallback))

	for key, text := range japanese {
		if err := b.SetString(language.Japanese, key, text); err != nil {
			return nil, err
		}
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, err
		}
	}

	if err := b.Set(language.English, SheetsValue,
		plural.Selectf(1, "%d", "one", "%d sheet", "other", "%d sheets")); err != nil {
		return nil, err
	}
	if err := b.Set(language.English, PagesValue,
		plural.Selectf(1, "%d", "one", "%d page", "other", "%d pages")); err != nil {
		return nil, err
	}
	return b, nil
}
