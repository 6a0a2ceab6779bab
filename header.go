package liveatc

import (
	"regexp"
	"strings"
)

// Anchors of the airport header block. Every label the page template uses
// lives here so template drift shows up in header tests.
var (
	headerPattern   = regexp.MustCompile(`(?s)ICAO:\s*(\w+)\s*IATA:\s*(\w*)\s*Airport:\s*(.*?)\s*(?:City:|$)`)
	locationPattern = regexp.MustCompile(`(?s)City:\s*(.*?)\s*State/Province:\s*(.*?)\s*Country:`)
	regionPattern   = regexp.MustCompile(`(?s)Country:\s*(.*?)\s*Continent:\s*(.*?)\s*(?:METAR|$)`)
	metarPattern    = regexp.MustCompile(`(?s)METAR Weather:\s*(.*?)\s*(?:\$|Click|$)`)
)

// AirportHeader holds the fields recovered from an airport header block.
// Fields the page did not provide are empty.
type AirportHeader struct {
	ICAO          string
	IATA          string
	Name          string
	City          string
	StateProvince string
	Country       string
	Continent     string
	METAR         string
}

// IsEmpty reports whether no header field was recovered.
func (h AirportHeader) IsEmpty() bool {
	return h == AirportHeader{}
}

// ParseHeader extracts airport fields from the flattened text of a header
// block. Each group of fields is searched for independently, so a garbled
// location still leaves the identity and weather fields intact.
func ParseHeader(text string) AirportHeader {
	var h AirportHeader

	if m := headerPattern.FindStringSubmatch(text); m != nil {
		h.ICAO = strings.TrimSpace(m[1])
		h.IATA = strings.TrimSpace(m[2])
		h.Name = strings.TrimSpace(m[3])
	}

	if m := locationPattern.FindStringSubmatch(text); m != nil {
		h.City = strings.TrimSpace(m[1])
		h.StateProvince = strings.TrimSpace(m[2])
	}

	if m := regionPattern.FindStringSubmatch(text); m != nil {
		h.Country = strings.TrimSpace(m[1])
		h.Continent = strings.TrimSpace(m[2])
	}

	if m := metarPattern.FindStringSubmatch(text); m != nil {
		h.METAR = stripLeadingICAO(m[1], h.ICAO)
	}

	return h
}

// stripLeadingICAO drops the station identifier the page repeats in front
// of the METAR body. Whitespace inside the report is collapsed.
func stripLeadingICAO(metar, icao string) string {
	fields := strings.Fields(metar)
	if icao != "" {
		for len(fields) > 0 && strings.EqualFold(fields[0], icao) {
			fields = fields[1:]
		}
	}
	return strings.Join(fields, " ")
}
