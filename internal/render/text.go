package render

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Text writes v as an aligned table: the summary first, then one line per
// sheet.
func Text(w io.Writer, v View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, item := range v.Summary {
		fmt.Fprintf(tw, "%s\t%s\n", item.Label, item.Value)
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "\t%s %s\t%s %s\t%s %s\t%s %s\n",
		v.Sides.Front, v.Sides.Left, v.Sides.Front, v.Sides.Right,
		v.Sides.Back, v.Sides.Left, v.Sides.Back, v.Sides.Right)
	for _, s := range v.Sheets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Title, s.FrontLeft.Label, s.FrontRight.Label, s.BackLeft.Label, s.BackRight.Label)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
