package goquery_test

import (
	"slices"
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/liveatc"
	"github.com/fwojciec/liveatc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rows parses an HTML fragment and returns its table rows.
func rows(t *testing.T, html string) *gq.Selection {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find("tr")
}

func TestParseFrequencies(t *testing.T) {
	t.Parallel()

	t.Run("skips the header row and cleans frequencies", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><th>Facility</th><th>Frequency</th></tr>
<tr><td>Boston Approach (Final One)</td><td>126.500*</td></tr>
<tr><td> Boston Tower </td><td>128.800b</td></tr>
</table>`

		got := slices.Collect(goquery.ParseFrequencies(rows(t, html)))

		assert.Equal(t, []liveatc.Frequency{
			{Facility: "Boston Approach (Final One)", Frequency: "126.500"},
			{Facility: "Boston Tower", Frequency: "128.800"},
		}, got)
	})

	t.Run("skips rows with fewer than two cells", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><td>Facility</td><td>Frequency</td></tr>
<tr><td colspan="2">Frequencies subject to change</td></tr>
<tr><td>Boston Ground</td><td>121.900</td></tr>
</table>`

		got := slices.Collect(goquery.ParseFrequencies(rows(t, html)))

		assert.Equal(t, []liveatc.Frequency{
			{Facility: "Boston Ground", Frequency: "121.900"},
		}, got)
	})

	t.Run("yields nothing for a header-only table", func(t *testing.T) {
		t.Parallel()

		got := slices.Collect(goquery.ParseFrequencies(rows(t, `<table><tr><th>Facility</th><th>Frequency</th></tr></table>`)))

		assert.Empty(t, got)
	})

	t.Run("stops when the consumer stops", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><th>Facility</th><th>Frequency</th></tr>
<tr><td>A</td><td>118.1</td></tr>
<tr><td>B</td><td>118.2</td></tr>
</table>`

		var seen []string
		for f := range goquery.ParseFrequencies(rows(t, html)) {
			seen = append(seen, f.Facility)
			break
		}

		assert.Equal(t, []string{"A"}, seen)
	})
}
