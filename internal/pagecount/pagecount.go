package pagecount

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Param is the query parameter carrying the page count.
const Param = "pages"

var (
	// ErrInvalid is the category shared by every parse failure.
	ErrInvalid = errors.New("invalid page count")
	// ErrEmpty is returned when the input is empty or whitespace only.
	ErrEmpty = fmt.Errorf("%w: page count is required", ErrInvalid)
	// ErrNotPositiveInteger is returned when the input is not a positive integer.
	ErrNotPositiveInteger = fmt.Errorf("%w: page count must be a positive integer", ErrInvalid)
	// ErrTooLarge is returned when the input exceeds the configured maximum.
	ErrTooLarge = fmt.Errorf("%w: page count exceeds the maximum", ErrInvalid)
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Parse validates raw and returns the page count. maxPages <= 0 disables the
// upper bound.
func Parse(raw string, maxPages int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, ErrEmpty
	}
	if !digitsOnly.MatchString(trimmed) {
		return 0, fmt.Errorf("%w: %q", ErrNotPositiveInteger, trimmed)
	}

	pages, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotPositiveInteger, trimmed)
	}
	if err := Check(pages, maxPages); err != nil {
		return 0, err
	}
	return pages, nil
}

// Check validates an already numeric page count, for inputs such as JSON
// bodies that never pass through Parse.
func Check(pages, maxPages int) error {
	if pages <= 0 {
		return fmt.Errorf("%w: got %d", ErrNotPositiveInteger, pages)
	}
	if maxPages > 0 && pages > maxPages {
		return fmt.Errorf("%w: %d > %d", ErrTooLarge, pages, maxPages)
	}
	return nil
}

// FromQuery reads the page count from values. ok is false when the parameter
// is absent, in which case err is nil.
func FromQuery(values url.Values, maxPages int) (pages int, ok bool, err error) {
	if !values.Has(Param) {
		return 0, false, nil
	}
	pages, err = Parse(values.Get(Param), maxPages)
	return pages, true, err
}

// Encode returns the canonical query string for pages.
func Encode(pages int) string {
	return url.Values{Param: []string{strconv.Itoa(pages)}}.Encode()
}

// IsCanonical reports whether raw is already the canonical spelling of pages.
func IsCanonical(raw string, pages int) bool {
	return raw == strconv.Itoa(pages)
}
