package liveatc

// PageParser turns fetched LiveATC pages into domain values.
// Implementations hold no per-call state and are safe for concurrent use.
type PageParser interface {
	// ParseAirportPage extracts the airport and its audio channels from a
	// search results page. The icao is the code that was searched for and
	// is used when the page header does not carry one.
	// Returns ENOTFOUND if the page has no usable airport header.
	ParseAirportPage(html string, icao string) (*Airport, error)

	// ParseStreamSource returns the player source embedded in a channel page.
	ParseStreamSource(html string) (src string, ok bool)
}
