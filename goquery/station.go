package goquery

import (
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/liveatc"
)

// feedUp is the literal status marker of a live feed.
const feedUp = "UP"

// ParseStation builds one audio channel from a station block and the
// frequency block paired with it. freqTable may be nil.
//
// Returns an EINCOMPLETE error when the block has no title, or when it has
// neither frequencies nor a stream link. Callers skip such stations.
func ParseStation(station, freqTable *goquery.Selection, icao string, base *url.URL) (*liveatc.AudioChannel, error) {
	title := station.Find("strong").First()
	if title.Length() == 0 {
		return nil, liveatc.Errorf(liveatc.EINCOMPLETE, "station block has no title")
	}
	name := strings.TrimSpace(title.Text())

	status := station.Find("font").First()
	up := status.Length() > 0 && strings.TrimSpace(status.Text()) == feedUp

	var mp3URL string
	if href, ok := station.Find(`a[href$=".pls"]`).First().Attr("href"); ok {
		mp3URL = resolveURL(base, href)
	}

	frequencies := []liveatc.Frequency{}
	if freqTable != nil && freqTable.Length() > 0 {
		if fs := slices.Collect(ParseFrequencies(freqTable.Find("tr"))); fs != nil {
			frequencies = fs
		}
	}

	if name == "" || (len(frequencies) == 0 && mp3URL == "") {
		return nil, liveatc.Errorf(liveatc.EINCOMPLETE, "station %q has no frequencies or stream", name)
	}

	return &liveatc.AudioChannel{
		Name:        name,
		AirportICAO: icao,
		FeedStatus:  up,
		Frequencies: frequencies,
		MP3URL:      mp3URL,
	}, nil
}

// resolveURL resolves href against base. A nil base leaves href untouched.
// Returns empty string if href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
