package imposition

// PagesPerSheet is the number of logical pages carried by one folded sheet.
const PagesPerSheet = 4

// MaxPages is the largest page count Compute lays out. Adapters apply their
// own, usually lower, limit before calling in.
const MaxPages = 1 << 20

// Sheet holds the four page slots of one physical sheet.
type Sheet struct {
	Number     int `json:"sheet" yaml:"sheet"`
	FrontLeft  int `json:"frontLeft" yaml:"frontLeft"`
	FrontRight int `json:"frontRight" yaml:"frontRight"`
	BackLeft   int `json:"backLeft" yaml:"backLeft"`
	BackRight  int `json:"backRight" yaml:"backRight"`
}

// Slots returns the slot values in print order: front-left, front-right,
// back-left, back-right.
func (s Sheet) Slots() [4]int {
	return [4]int{s.FrontLeft, s.FrontRight, s.BackLeft, s.BackRight}
}

// Result is the imposition of a booklet. Sheets are ordered by physical
// stacking order, outermost first.
type Result struct {
	Pages         int     `json:"pages" yaml:"pages"`
	PagesPerSheet int     `json:"pagesPerSheet" yaml:"pagesPerSheet"`
	SheetCount    int     `json:"sheetCount" yaml:"sheetCount"`
	TotalPages    int     `json:"totalPages" yaml:"totalPages"`
	BlankCount    int     `json:"blankCount" yaml:"blankCount"`
	Sheets        []Sheet `json:"sheets" yaml:"sheets"`
}

// IsBlank reports whether slot is a filler slot for this result.
func (r Result) IsBlank(slot int) bool {
	return IsBlank(slot, r.Pages)
}

// Calculator describes the behaviour required from an imposition calculator.
type Calculator interface {
	Compute(pages int) (Result, error)
}
