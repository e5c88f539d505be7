package branches

import (
	"fmt"
	"io"
	"strings"
)

const (
	minNameWidth = 10
	ageWidth     = 10
)

// NameWidth computes the branch name column width: the longest name across
// all records, with a floor of 10 characters.
func NameWidth(records []Record) int {
	width := minNameWidth
	for _, r := range records {
		if len(r.Name()) > width {
			width = len(r.Name())
		}
	}
	return width
}

// WriteTable renders the branch/age table: header, dash separator, then one
// row per record with the name left-aligned and the age right-aligned.
// Callers sort the records first.
func WriteTable(w io.Writer, records []Record) {
	width := NameWidth(records)

	fmt.Fprintf(w, "%-*s  %s\n", width, "Branch", "Age (days)")
	fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", width), strings.Repeat("-", ageWidth))

	for _, r := range records {
		fmt.Fprintf(w, "%-*s  %*d\n", width, r.Name(), ageWidth, r.AgeDays)
	}
}
