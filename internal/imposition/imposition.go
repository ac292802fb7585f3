package imposition

import "fmt"

type saddleStitch struct{}

// New creates a Calculator for single-signature saddle-stitch booklets.
func New() Calculator {
	return saddleStitch{}
}

func (saddleStitch) Compute(pages int) (Result, error) {
	return Compute(pages)
}

// Compute lays out pages onto folded sheets. The outermost sheet carries the
// first and last pages on its front and the pair after the first page on its
// back; every inner sheet advances two pages from each end.
func Compute(pages int) (Result, error) {
	if pages <= 0 {
		return Result{}, fmt.Errorf("%w, got %d", ErrInvalidPages, pages)
	}
	if pages > MaxPages {
		return Result{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidPages, pages, MaxPages)
	}

	sheetCount := pages / PagesPerSheet
	if pages%PagesPerSheet != 0 {
		sheetCount++
	}
	totalPages := sheetCount * PagesPerSheet

	sheets := make([]Sheet, sheetCount)
	for i := 0; i < sheetCount; i++ {
		sheets[i] = Sheet{
			Number:     i + 1,
			FrontLeft:  totalPages - 2*i,
			FrontRight: 1 + 2*i,
			BackLeft:   2 + 2*i,
			BackRight:  totalPages - 1 - 2*i,
		}
	}

	return Result{
		Pages:         pages,
		PagesPerSheet: PagesPerSheet,
		SheetCount:    sheetCount,
		TotalPages:    totalPages,
		BlankCount:    totalPages - pages,
		Sheets:        sheets,
	}, nil
}

// IsBlank reports whether slot is filler padding for a booklet of pages.
func IsBlank(slot, pages int) bool {
	return slot > pages
}
