package goquery

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/liveatc"
)

// ParseFrequencies yields one Frequency per table row after the header row.
// Rows with fewer than two cells are skipped. The first cell is the
// facility; the second is cleaned with liveatc.CleanFrequency.
func ParseFrequencies(rows *goquery.Selection) iter.Seq[liveatc.Frequency] {
	return func(yield func(liveatc.Frequency) bool) {
		for i := 1; i < rows.Length(); i++ {
			cells := rows.Eq(i).Find("td")
			if cells.Length() < 2 {
				continue
			}
			f := liveatc.Frequency{
				Facility:  strings.TrimSpace(cells.Eq(0).Text()),
				Frequency: liveatc.CleanFrequency(cells.Eq(1).Text()),
			}
			if !yield(f) {
				return
			}
		}
	}
}
