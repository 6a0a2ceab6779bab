package goquery_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/liveatc"
	"github.com/fwojciec/liveatc/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(b)
}

const pageHeader = `<table class="body"><tr><td>
<b>ICAO:</b> KBOS <b>IATA:</b> BOS <b>Airport:</b> Logan
<b>City:</b> Boston <b>State/Province:</b> MA <b>Country:</b> USA <b>Continent:</b> North America
</td></tr></table>`

// station renders a station block with a stream link.
func station(name string) string {
	return `<table class="body" border="0"><tr><td><strong>` + name + `</strong></td>` +
		`<td><font>UP</font></td><td><a href="/play/x.pls">Listen</a></td></tr></table>`
}

// freqTable renders a frequency block with one row.
func freqTable(facility, freq string) string {
	return `<table class="freqTable" colspan="2"><tr><th>Facility</th><th>Frequency</th></tr>` +
		`<tr><td>` + facility + `</td><td>` + freq + `</td></tr></table>`
}

func TestParser_ParseAirportPage(t *testing.T) {
	t.Parallel()

	t.Run("extracts airport and channels from the KBOS page", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewParser()

		airport, err := p.ParseAirportPage(readFixture(t, "kbos.html"), "KBOS")

		require.NoError(t, err)
		assert.Equal(t, "KBOS", airport.ICAO)
		assert.Equal(t, "BOS", airport.IATA)
		assert.Equal(t, "General Edward Lawrence Logan International Airport", airport.Name)
		assert.Equal(t, "Boston", airport.City)
		assert.Equal(t, "Massachusetts", airport.StateProvince)
		assert.Equal(t, "United States of America", airport.Country)
		assert.Equal(t, "North America", airport.Continent)
		assert.Equal(t, "191254Z 28012KT 10SM FEW250 12/M01 A3012 RMK AO2 SLP199", airport.METAR)

		require.Len(t, airport.AudioChannels, 2)

		twr := airport.AudioChannels[0]
		assert.Equal(t, "KBOS Del/Gnd/Twr", twr.Name)
		assert.Equal(t, "KBOS", twr.AirportICAO)
		assert.True(t, twr.FeedStatus)
		assert.Equal(t, "https://www.liveatc.net/play/kbos_twr.pls", twr.MP3URL)
		assert.Equal(t, []liveatc.Frequency{
			{Facility: "Boston Clearance Delivery", Frequency: "121.650"},
			{Facility: "Boston Ground", Frequency: "121.900"},
			{Facility: "Boston Tower", Frequency: "128.800"},
		}, twr.Frequencies)

		final := airport.AudioChannels[1]
		assert.Equal(t, "KBOS App (Final Vector)", final.Name)
		assert.False(t, final.FeedStatus)
		assert.Equal(t, []liveatc.Frequency{
			{Facility: "Boston Approach (Final One)", Frequency: "126.500"},
		}, final.Frequencies)

		assert.NoError(t, airport.Validate())
	})

	t.Run("resolves stream links against the configured base URL", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewParser(goquery.WithBaseURL("http://127.0.0.1:8080"))

		airport, err := p.ParseAirportPage(readFixture(t, "kbos.html"), "KBOS")

		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:8080/play/kbos_twr.pls", airport.AudioChannels[0].MP3URL)
	})

	t.Run("pairs up to the shorter list and logs the mismatch", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		p := goquery.NewParser(goquery.WithLogger(logger))

		html := pageHeader +
			station("KBOS Twr") + freqTable("Boston Tower", "128.800") +
			station("KBOS Gnd") + freqTable("Boston Ground", "121.900") +
			station("KBOS App")

		airport, err := p.ParseAirportPage(html, "KBOS")

		require.NoError(t, err)
		require.Len(t, airport.AudioChannels, 2)
		assert.Equal(t, "KBOS Twr", airport.AudioChannels[0].Name)
		assert.Equal(t, "KBOS Gnd", airport.AudioChannels[1].Name)
		assert.Equal(t, "121.900", airport.AudioChannels[1].Frequencies[0].Frequency)

		output := buf.String()
		assert.Contains(t, output, "station and frequency block counts differ")
		assert.Contains(t, output, "stations=3")
		assert.Contains(t, output, "frequencies=2")
	})

	t.Run("skips invalid stations without dropping the rest", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		p := goquery.NewParser(goquery.WithLogger(logger))

		html := pageHeader +
			`<table class="body" border="0"><tr><td>Sponsored</td></tr></table>` + freqTable("Ad", "0") +
			station("KBOS Twr") + freqTable("Boston Tower", "128.800")

		airport, err := p.ParseAirportPage(html, "KBOS")

		require.NoError(t, err)
		require.Len(t, airport.AudioChannels, 1)
		assert.Equal(t, "KBOS Twr", airport.AudioChannels[0].Name)
		assert.Contains(t, buf.String(), "skip station")
	})

	t.Run("returns airport without channels when the page lists none", func(t *testing.T) {
		t.Parallel()

		airport, err := goquery.NewParser().ParseAirportPage(pageHeader, "KBOS")

		require.NoError(t, err)
		assert.Equal(t, "Logan", airport.Name)
		assert.NotNil(t, airport.AudioChannels)
		assert.Empty(t, airport.AudioChannels)
	})

	t.Run("uses the header ICAO for channel back-references", func(t *testing.T) {
		t.Parallel()

		html := pageHeader + station("KBOS Twr") + freqTable("Boston Tower", "128.800")

		airport, err := goquery.NewParser().ParseAirportPage(html, "BOS")

		require.NoError(t, err)
		assert.Equal(t, "KBOS", airport.ICAO)
		assert.Equal(t, "KBOS", airport.AudioChannels[0].AirportICAO)
	})

	t.Run("returns ENOTFOUND when the page has no header block", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>No airports matched your search.</p></body></html>`

		airport, err := goquery.NewParser().ParseAirportPage(html, "ZZZZ")

		assert.Nil(t, airport)
		assert.Equal(t, liveatc.ENOTFOUND, liveatc.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND when the header has no fields", func(t *testing.T) {
		t.Parallel()

		html := `<table class="body"><tr><td>Search returned no results</td></tr></table>`

		_, err := goquery.NewParser().ParseAirportPage(html, "ZZZZ")

		assert.Equal(t, liveatc.ENOTFOUND, liveatc.ErrorCode(err))
	})

	t.Run("returns EINVALID for an unparseable base URL", func(t *testing.T) {
		t.Parallel()

		p := goquery.NewParser(goquery.WithBaseURL("://bad"))

		_, err := p.ParseAirportPage(pageHeader, "KBOS")

		assert.Equal(t, liveatc.EINVALID, liveatc.ErrorCode(err))
	})
}

// airportPage renders a one-channel page for icao with a distinct name
// and frequency.
func airportPage(icao, freq string) string {
	header := strings.ReplaceAll(pageHeader, "KBOS", icao)
	header = strings.ReplaceAll(header, "Logan", "Field "+icao)
	return header + station(icao+" Twr") + freqTable(icao+" Tower", freq)
}

func TestParser_ParseAirportPage_Concurrent(t *testing.T) {
	t.Parallel()

	codes := []string{"KJFK", "EGLL", "RJTT", "LFPG", "EDDF", "YSSY", "CYYZ", "OMDB"}
	p := goquery.NewParser(goquery.WithLogger(slog.New(slog.DiscardHandler)))

	type outcome struct {
		airport *liveatc.Airport
		err     error
	}
	const rounds = 4
	results := make([]outcome, len(codes)*rounds)

	var wg sync.WaitGroup
	for i := range results {
		code := codes[i%len(codes)]
		freq := fmt.Sprintf("1%02d.%03d", 18+i%len(codes), 100+i%len(codes))
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := p.ParseAirportPage(airportPage(code, freq), code)
			results[i] = outcome{airport: a, err: err}
		}()
	}
	wg.Wait()

	for i, r := range results {
		code := codes[i%len(codes)]
		require.NoError(t, r.err, code)
		assert.Equal(t, code, r.airport.ICAO)
		assert.Equal(t, "Field "+code, r.airport.Name)
		require.Len(t, r.airport.AudioChannels, 1, code)
		ch := r.airport.AudioChannels[0]
		assert.Equal(t, code+" Twr", ch.Name)
		assert.Equal(t, code, ch.AirportICAO)
		assert.Equal(t, []liveatc.Frequency{{
			Facility:  code + " Tower",
			Frequency: fmt.Sprintf("1%02d.%03d", 18+i%len(codes), 100+i%len(codes)),
		}}, ch.Frequencies)
	}
}

func TestParser_ParseStreamSource(t *testing.T) {
	t.Parallel()

	t.Run("returns the audio element source", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><audio id="audio" src="https://d.liveatc.net/kbos_twr"></audio>
<iframe src="/player/embed?kbos"></iframe></body></html>`

		src, ok := goquery.NewParser().ParseStreamSource(html)

		assert.True(t, ok)
		assert.Equal(t, "https://d.liveatc.net/kbos_twr", src)
	})

	t.Run("falls back to an embedded player iframe", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><iframe src="/ads/banner"></iframe><iframe src="/player/embed?kbos"></iframe></body></html>`

		src, ok := goquery.NewParser().ParseStreamSource(html)

		assert.True(t, ok)
		assert.Equal(t, "/player/embed?kbos", src)
	})

	t.Run("ignores an audio element without a source", func(t *testing.T) {
		t.Parallel()

		src, ok := goquery.NewParser().ParseStreamSource(`<audio id="audio"></audio>`)

		assert.False(t, ok)
		assert.Empty(t, src)
	})

	t.Run("returns false when the page has no player", func(t *testing.T) {
		t.Parallel()

		_, ok := goquery.NewParser().ParseStreamSource(`<p>Feed offline</p>`)

		assert.False(t, ok)
	})
}
