package liveatc

import (
	"regexp"
	"strconv"
	"strings"
)

// Report groups, in the order they appear after the observation time.
var (
	metarStation   = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	metarTime      = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
	metarWind      = regexp.MustCompile(`^(\d{3}|VRB)(\d{2,3})(?:G(\d{2,3}))?(KT|MPS|KMH)$`)
	metarWindRange = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
	metarVisMeters = regexp.MustCompile(`^(\d{4})(?:NDV)?$`)
	metarVisMiles  = regexp.MustCompile(`^([MP])?(?:(\d+)/(\d+)|(\d+))SM$`)
	metarVisWhole  = regexp.MustCompile(`^\d$`)
	metarRVR       = regexp.MustCompile(`^R\d{2}[LCR]?/`)
	metarSky       = regexp.MustCompile(`^(FEW|SCT|BKN|OVC|VV)(\d{3}|///)(CB|TCU)?$`)
	metarClear     = regexp.MustCompile(`^(SKC|CLR|NSC|NCD)$`)
	metarTemp      = regexp.MustCompile(`^(M?\d{2})/(M?\d{2})?$`)
	metarPressure  = regexp.MustCompile(`^([AQ])(\d{4})$`)
	metarWeather   = regexp.MustCompile(`^(?:[-+]|VC)?(?:MI|PR|BC|DR|BL|SH|TS|FZ)?(?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)*$`)
)

// Visibility bounds.
const (
	BoundLessThan    = "less_than"
	BoundGreaterThan = "greater_than"
)

// Metar is a decoded METAR weather observation.
type Metar struct {
	Raw       string `json:"raw"`
	Type      string `json:"type"`
	Station   string `json:"station,omitempty"`
	Day       int    `json:"day"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Auto      bool   `json:"auto,omitempty"`
	Corrected bool   `json:"corrected,omitempty"`

	Wind              *Wind          `json:"wind,omitempty"`
	Visibility        *Visibility    `json:"visibility,omitempty"`
	CAVOK             bool           `json:"cavok,omitempty"`
	RunwayVisualRange []string       `json:"runway_visual_range,omitempty"`
	Weather           []string       `json:"weather,omitempty"`
	Sky               []SkyCondition `json:"sky,omitempty"`
	Temperature       *int           `json:"temperature_c,omitempty"`
	Dewpoint          *int           `json:"dewpoint_c,omitempty"`
	Pressure          *Pressure      `json:"pressure,omitempty"`

	Trend    string   `json:"trend,omitempty"`
	Remarks  string   `json:"remarks,omitempty"`
	Unparsed []string `json:"unparsed,omitempty"`
}

// Wind is the surface wind group. Direction is in degrees true and is zero
// when Variable is set.
type Wind struct {
	Direction int    `json:"direction"`
	Variable  bool   `json:"variable,omitempty"`
	Speed     int    `json:"speed"`
	Gust      int    `json:"gust,omitempty"`
	Unit      string `json:"unit"`
	From      int    `json:"from,omitempty"`
	To        int    `json:"to,omitempty"`
}

// Visibility is the prevailing visibility. Unit is "SM" or "m".
type Visibility struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
	Bound    string  `json:"bound,omitempty"`
}

// SkyCondition is one cloud layer. Height is in feet above ground and is
// zero for clear-sky reports.
type SkyCondition struct {
	Cover  string `json:"cover"`
	Height int    `json:"height,omitempty"`
	Cloud  string `json:"cloud,omitempty"`
}

// Pressure is the altimeter setting. Unit is "inHg" or "hPa".
type Pressure struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ParseMetar decodes a METAR or SPECI report. The station group is
// optional so reports stored without it still decode; the observation time
// is required. Groups that are not recognized are kept in Unparsed.
func ParseMetar(report string) (*Metar, error) {
	raw := strings.TrimSuffix(strings.Join(strings.Fields(report), " "), "=")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALID, "empty METAR report")
	}

	tokens := strings.Fields(strings.ToUpper(raw))
	m := &Metar{Raw: raw, Type: "METAR"}

	i := 0
	if tokens[i] == "METAR" || tokens[i] == "SPECI" {
		m.Type = tokens[i]
		i++
	}
	if i < len(tokens) && metarStation.MatchString(tokens[i]) {
		m.Station = tokens[i]
		i++
	}
	if i >= len(tokens) || !m.parseTime(tokens[i]) {
		return nil, Errorf(EINVALID, "METAR %q has no valid observation time", raw)
	}
	i++

	for ; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "RMK":
			m.Remarks = strings.Join(tokens[i+1:], " ")
			return m, nil
		case tok == "NOSIG" || tok == "BECMG" || tok == "TEMPO":
			end := i
			for end < len(tokens) && tokens[end] != "RMK" {
				end++
			}
			m.Trend = strings.Join(tokens[i:end], " ")
			i = end - 1
		case tok == "AUTO":
			m.Auto = true
		case tok == "COR":
			m.Corrected = true
		case tok == "CAVOK":
			m.CAVOK = true
		case m.Wind == nil && metarWind.MatchString(tok):
			m.Wind = parseWind(metarWind.FindStringSubmatch(tok))
		case m.Wind != nil && metarWindRange.MatchString(tok):
			g := metarWindRange.FindStringSubmatch(tok)
			m.Wind.From, m.Wind.To = atoi(g[1]), atoi(g[2])
		case m.Visibility == nil && metarVisMeters.MatchString(tok):
			m.Visibility = parseMeters(metarVisMeters.FindStringSubmatch(tok))
		case m.Visibility == nil && metarVisWhole.MatchString(tok) &&
			i+1 < len(tokens) && metarVisMiles.MatchString(tokens[i+1]):
			m.Visibility = parseMiles(metarVisMiles.FindStringSubmatch(tokens[i+1]))
			m.Visibility.Distance += float64(atoi(tok))
			i++
		case m.Visibility == nil && metarVisMiles.MatchString(tok):
			m.Visibility = parseMiles(metarVisMiles.FindStringSubmatch(tok))
		case metarRVR.MatchString(tok):
			m.RunwayVisualRange = append(m.RunwayVisualRange, tok)
		case metarSky.MatchString(tok):
			m.Sky = append(m.Sky, parseSky(metarSky.FindStringSubmatch(tok)))
		case metarClear.MatchString(tok):
			m.Sky = append(m.Sky, SkyCondition{Cover: tok})
		case m.Temperature == nil && metarTemp.MatchString(tok):
			g := metarTemp.FindStringSubmatch(tok)
			temp := signedInt(g[1])
			m.Temperature = &temp
			if g[2] != "" {
				dew := signedInt(g[2])
				m.Dewpoint = &dew
			}
		case m.Pressure == nil && metarPressure.MatchString(tok):
			m.Pressure = parsePressure(metarPressure.FindStringSubmatch(tok))
		case isWeather(tok):
			m.Weather = append(m.Weather, tok)
		default:
			m.Unparsed = append(m.Unparsed, tok)
		}
	}

	return m, nil
}

func (m *Metar) parseTime(tok string) bool {
	g := metarTime.FindStringSubmatch(tok)
	if g == nil {
		return false
	}
	m.Day, m.Hour, m.Minute = atoi(g[1]), atoi(g[2]), atoi(g[3])
	return m.Day >= 1 && m.Day <= 31 && m.Hour <= 23 && m.Minute <= 59
}

func parseWind(g []string) *Wind {
	w := &Wind{Speed: atoi(g[2]), Unit: g[4]}
	if g[1] == "VRB" {
		w.Variable = true
	} else {
		w.Direction = atoi(g[1])
	}
	if g[3] != "" {
		w.Gust = atoi(g[3])
	}
	return w
}

// parseMeters decodes a four-digit visibility; 9999 means 10 km or more.
func parseMeters(g []string) *Visibility {
	v := &Visibility{Distance: float64(atoi(g[1])), Unit: "m"}
	if g[1] == "9999" {
		v.Distance = 10000
		v.Bound = BoundGreaterThan
	}
	return v
}

func parseMiles(g []string) *Visibility {
	v := &Visibility{Unit: "SM"}
	switch g[1] {
	case "M":
		v.Bound = BoundLessThan
	case "P":
		v.Bound = BoundGreaterThan
	}
	if g[4] != "" {
		v.Distance = float64(atoi(g[4]))
	} else if den := atoi(g[3]); den != 0 {
		v.Distance = float64(atoi(g[2])) / float64(den)
	}
	return v
}

func parseSky(g []string) SkyCondition {
	s := SkyCondition{Cover: g[1], Cloud: g[3]}
	if g[2] != "///" {
		s.Height = atoi(g[2]) * 100
	}
	return s
}

func parsePressure(g []string) *Pressure {
	if g[1] == "A" {
		return &Pressure{Value: float64(atoi(g[2])) / 100, Unit: "inHg"}
	}
	return &Pressure{Value: float64(atoi(g[2])), Unit: "hPa"}
}

// isWeather reports whether tok is a present-weather group such as -RA,
// +TSRA, VCSH or BR.
func isWeather(tok string) bool {
	body := strings.TrimLeft(tok, "+-")
	body = strings.TrimPrefix(body, "VC")
	return len(body) >= 2 && metarWeather.MatchString(tok)
}

func signedInt(s string) int {
	if rest, ok := strings.CutPrefix(s, "M"); ok {
		return -atoi(rest)
	}
	return atoi(s)
}

// atoi parses digits already matched by a pattern.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
