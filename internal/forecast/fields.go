package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Ordered alias tables for every canonical field. Each list is consulted in
// order and the first property present on a day object wins, which pins the
// precedence between naming-convention variants.
var (
	kpAliases   = []string{"kp", "Kp", "KP", "kp_index", "kpIndex", "KpIndex", "kp_noaa", "largest_kp", "predicted_kp"}
	apAliases   = []string{"ap", "Ap", "AP", "ap_index", "apIndex", "ApIndex", "a_index"}
	f107Aliases = []string{"f107", "F107", "f10_7", "f10.7", "f107_obs", "solar_flux", "radio_flux", "flux"}
	dateAliases = []string{"date", "Date", "date_utc", "dateUTC", "day", "utc_date", "time_tag", "timestamp"}
	noteAliases = []string{"note", "notes", "comment", "remarks"}
	idAliases   = []string{"id", "Id", "ID", "_id", "uid"}
)

// dateLayouts is the fixed ordered list of accepted date formats. Parsed
// dates are re-emitted as "2006-01-02" in UTC.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006 Jan 02",
	"Jan 2, 2006",
	"01/02/2006",
}

// pluck returns the first alias present on the object, even if its value
// is null.
func pluck(obj map[string]any, aliases []string) (any, bool) {
	for _, key := range aliases {
		if v, ok := obj[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// parseNumber coerces a JSON value into a finite float64. String input may
// carry thousands separators. Anything else becomes nil.
func parseNumber(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseDate normalizes a date-like value to a UTC calendar day.
// Invalid input yields ok=false.
func parseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// parseString renders a scalar value for free-text fields like note and id.
func parseString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
