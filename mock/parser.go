package mock

import "github.com/fwojciec/liveatc"

var _ liveatc.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of liveatc.PageParser.
type PageParser struct {
	ParseAirportPageFn  func(html string, icao string) (*liveatc.Airport, error)
	ParseStreamSourceFn func(html string) (string, bool)
}

func (p *PageParser) ParseAirportPage(html string, icao string) (*liveatc.Airport, error) {
	return p.ParseAirportPageFn(html, icao)
}

func (p *PageParser) ParseStreamSource(html string) (string, bool) {
	return p.ParseStreamSourceFn(html)
}
