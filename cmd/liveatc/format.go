package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/liveatc"
)

// writeAirport prints an airport with its channels in a readable layout.
func writeAirport(w io.Writer, a *liveatc.Airport) {
	title := a.ICAO
	if a.IATA != "" {
		title += "/" + a.IATA
	}
	fmt.Fprintf(w, "%s  %s\n", title, a.Name)

	if loc := joinNonEmpty(a.City, a.StateProvince, a.Country, a.Continent); loc != "" {
		fmt.Fprintf(w, "  %s\n", loc)
	}
	if a.METAR != "" {
		fmt.Fprintf(w, "  METAR %s\n", a.METAR)
	}

	if len(a.AudioChannels) == 0 {
		fmt.Fprintln(w, "  No audio channels.")
		return
	}

	for _, ch := range a.AudioChannels {
		status := "DOWN"
		if ch.FeedStatus {
			status = "UP"
		}
		fmt.Fprintf(w, "\n  [%s] %s\n", status, ch.Name)
		if ch.MP3URL != "" {
			fmt.Fprintf(w, "       %s\n", ch.MP3URL)
		}
		for _, f := range ch.Frequencies {
			fmt.Fprintf(w, "       %-32s %s\n", f.Facility, f.Frequency)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
