// Package goquery implements liveatc.PageParser on top of goquery
// selections of the LiveATC search results page.
package goquery

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/liveatc"
)

// Structural markers of the airport search page.
const (
	headerSelector    = "table.body"
	stationSelector   = `table.body[border="0"]`
	frequencySelector = `table.freqTable[colspan="2"]`
	audioSelector     = "audio#audio"
	playerSelector    = `iframe[src*="player"]`
)

var _ liveatc.PageParser = (*Parser)(nil)

// Parser extracts airports from LiveATC pages. It keeps no per-call state
// and is safe for concurrent use.
type Parser struct {
	baseURL string
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithBaseURL sets the URL stream links are resolved against.
// Defaults to liveatc.DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(p *Parser) {
		p.baseURL = u
	}
}

// WithLogger sets the logger that receives skipped stations and pairing
// anomalies. Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		baseURL: liveatc.DefaultBaseURL,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseAirportPage extracts the airport header and every acceptable
// station from a search results page.
func (p *Parser) ParseAirportPage(html string, icao string) (*liveatc.Airport, error) {
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, liveatc.Errorf(liveatc.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, liveatc.Errorf(liveatc.EINVALID, "failed to parse HTML: %v", err)
	}

	header := doc.Find(headerSelector).First()
	if header.Length() == 0 {
		return nil, liveatc.Errorf(liveatc.ENOTFOUND, "airport %s not found", icao)
	}

	h := liveatc.ParseHeader(flattenText(header))
	if h.IsEmpty() {
		return nil, liveatc.Errorf(liveatc.ENOTFOUND, "airport %s not found", icao)
	}

	code := icao
	if h.ICAO != "" {
		code = strings.ToUpper(h.ICAO)
	}

	channels := p.parseStations(doc, code, base)
	return liveatc.NewAirport(icao, h, channels), nil
}

// parseStations pairs station blocks with frequency blocks by position.
// Pairing stops at the shorter list; surplus blocks are dropped.
func (p *Parser) parseStations(doc *goquery.Document, icao string, base *url.URL) []liveatc.AudioChannel {
	stations := doc.Find(stationSelector)
	freqTables := doc.Find(frequencySelector)

	n := min(stations.Length(), freqTables.Length())
	if stations.Length() != freqTables.Length() {
		p.logger.Warn("station and frequency block counts differ",
			"icao", icao,
			"stations", stations.Length(),
			"frequencies", freqTables.Length(),
			"paired", n,
		)
	}

	channels := make([]liveatc.AudioChannel, 0, n)
	for i := range n {
		ch, err := ParseStation(stations.Eq(i), freqTables.Eq(i), icao, base)
		if err != nil {
			p.logger.Info("skip station",
				"icao", icao,
				"index", i,
				"reason", liveatc.ErrorMessage(err),
			)
			continue
		}
		channels = append(channels, *ch)
	}

	p.logger.Debug("parsed stations",
		"icao", icao,
		"channels", len(channels),
	)
	return channels
}

// ParseStreamSource returns the src of the page's audio player, or of an
// embedded player iframe when there is no audio element.
func (p *Parser) ParseStreamSource(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	if src, ok := doc.Find(audioSelector).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src), true
	}

	if src, ok := doc.Find(playerSelector).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src), true
	}

	return "", false
}
