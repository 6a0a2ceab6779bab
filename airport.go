package liveatc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Frequency is a single facility/frequency row from a feed's frequency table.
// The frequency is kept as text; it is never parsed to a number.
type Frequency struct {
	Facility  string `json:"facility"`
	Frequency string `json:"frequency"`
}

// AudioChannel is one audio feed published for an airport.
type AudioChannel struct {
	Name        string      `json:"name"`
	AirportICAO string      `json:"airport_icao"`
	FeedStatus  bool        `json:"feed_status"`
	Frequencies []Frequency `json:"frequencies"`
	MP3URL      string      `json:"mp3_url,omitempty"`
}

// Airport is the profile of one airport together with its audio feeds.
// Optional fields are empty when the source page did not provide them.
type Airport struct {
	ICAO          string         `json:"icao"`
	Name          string         `json:"name"`
	IATA          string         `json:"iata,omitempty"`
	City          string         `json:"city"`
	StateProvince string         `json:"state_province,omitempty"`
	Country       string         `json:"country"`
	Continent     string         `json:"continent,omitempty"`
	METAR         string         `json:"metar,omitempty"`
	AudioChannels []AudioChannel `json:"audio_channels"`

	// UpdatedAt is set by stores; extraction leaves it zero.
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Validate returns an error if the airport contains invalid fields.
func (a *Airport) Validate() error {
	if a.ICAO == "" {
		return Errorf(EINVALID, "airport ICAO required")
	}
	for _, ch := range a.AudioChannels {
		if ch.Name == "" {
			return Errorf(EINVALID, "audio channel name required")
		}
		if ch.AirportICAO != a.ICAO {
			return Errorf(EINVALID, "audio channel %q belongs to %q, not %q", ch.Name, ch.AirportICAO, a.ICAO)
		}
	}
	return nil
}

// ChannelsHash returns the xxHash of the channel set's JSON encoding as hex.
// Stores compare it to skip rewriting channels that did not change.
func (a *Airport) ChannelsHash() (string, error) {
	b, err := json.Marshal(a.AudioChannels)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b)), nil
}

// NewAirport assembles an airport from a parsed header and its channels.
// The header's ICAO wins over the requested code when the page provides one.
func NewAirport(icao string, h AirportHeader, channels []AudioChannel) *Airport {
	if h.ICAO != "" {
		icao = strings.ToUpper(h.ICAO)
	}
	if channels == nil {
		channels = []AudioChannel{}
	}
	return &Airport{
		ICAO:          icao,
		Name:          h.Name,
		IATA:          h.IATA,
		City:          h.City,
		StateProvince: h.StateProvince,
		Country:       h.Country,
		Continent:     h.Continent,
		METAR:         h.METAR,
		AudioChannels: channels,
	}
}

// NormalizeICAO trims and upper-cases an airport code and checks that it
// is 3 or 4 ASCII letters or digits.
func NormalizeICAO(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 3 || len(code) > 4 {
		return "", Errorf(EINVALID, "airport code %q must be 3 or 4 characters", code)
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", Errorf(EINVALID, "airport code %q must be alphanumeric", code)
		}
	}
	return code, nil
}

// AirportFinder looks airports up on the source site.
type AirportFinder interface {
	// FindAirport fetches and extracts the airport page for a code.
	// Returns ENOTFOUND if the page has no recognizable airport header,
	// EUNAVAILABLE if the page could not be fetched.
	FindAirport(ctx context.Context, icao string) (*Airport, error)

	// ResolveStreamURL inspects a channel page for an embedded player source.
	// Returns false on any failure; it never reports an error.
	ResolveStreamURL(ctx context.Context, pageURL string) (string, bool)
}

// AirportService represents a service for storing airports.
type AirportService interface {
	// UpsertAirport creates or replaces an airport and its audio channels.
	UpsertAirport(ctx context.Context, airport *Airport) error

	// FindAirportByICAO retrieves an airport with its channels.
	// Returns ENOTFOUND if the airport does not exist.
	FindAirportByICAO(ctx context.Context, icao string) (*Airport, error)

	// FindAirports retrieves airports matching the filter, without channels.
	FindAirports(ctx context.Context, filter AirportFilter) ([]*Airport, error)

	// DeleteAirport permanently removes an airport and its channels.
	// Returns ENOTFOUND if the airport does not exist.
	DeleteAirport(ctx context.Context, icao string) error
}

// AirportFilter represents a filter for FindAirports.
type AirportFilter struct {
	Country *string `json:"country"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AirportSyncer refreshes stored airports from the source site.
type AirportSyncer interface {
	// SyncAirport finds the airport on the site and upserts it into the store.
	SyncAirport(ctx context.Context, icao string) (*Airport, error)
}
