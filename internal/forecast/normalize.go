package forecast

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// rawDay is one pre-pipeline day tuple produced by a shape decoder.
type rawDay struct {
	id      string
	date    time.Time
	hasDate bool
	kp      *float64
	ap      *float64
	f107    *float64
	note    string
}

// Key names probed, in order, when a payload wraps its day array in an
// object with a single conventional field.
var wrappedArrayKeys = []string{"days", "data", "items", "records", "results", "forecast", "list", "rows"}

// Column key variants for the columnar payload shape.
var (
	columnDateKeys = []string{"dates", "dates_utc", "date", "days"}
	columnKpKeys   = []string{"kp", "kps", "kp_index", "kp_values"}
	columnApKeys   = []string{"ap", "aps", "ap_index", "ap_values"}
	columnF107Keys = []string{"f107", "f10_7", "f107_values", "flux"}
)

// Start-date fallback order for the horizon shape, top-level fields first,
// then nested metadata.
var (
	horizonDateArrayKeys = []string{"dates_utc", "dates"}
	horizonStartKeys     = []string{"start_date_utc", "start_date", "issued_utc"}
	horizonMetaKeys      = []string{"meta", "metadata"}
	horizonMetaStartKeys = []string{"start_date_utc", "generated_utc"}
)

var keyedDayRe = regexp.MustCompile(`^D(\d+)$`)

// Normalize converts a decoded JSON payload of any supported shape into the
// canonical ordered day sequence. It never fails: malformed or unrecognized
// input degrades to nil fields or an empty result so callers always have
// something to render.
func Normalize(payload any) Forecast {
	return pipeline(decode(payload))
}

// NormalizeJSON unmarshals raw JSON and normalizes it. Unparseable bytes
// yield an empty forecast.
func NormalizeJSON(data []byte) Forecast {
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return Forecast{}
	}
	return Normalize(payload)
}

// decode tries each shape decoder in priority order; the first that
// recognizes the payload wins.
func decode(payload any) []rawDay {
	switch v := payload.(type) {
	case []any:
		return decodeDayList(v)
	case map[string]any:
		if days, ok := decodeHorizon(v); ok {
			return days
		}
		if days, ok := decodeWrapped(v); ok {
			return days
		}
		if days, ok := decodeColumnar(v); ok {
			return days
		}
		if days, ok := decodeKeyedDays(v); ok {
			return days
		}
		if days, ok := decodeSingleDay(v); ok {
			return days
		}
	}
	return nil
}

// decodeDayList handles the flat array shape: a list of day-like objects.
func decodeDayList(list []any) []rawDay {
	days := make([]rawDay, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		days = append(days, dayFromObject(obj))
	}
	return days
}

// decodeHorizon handles the horizon shape: a "horizon" array of Kp values
// with dates taken from an explicit date array, or synthesized as
// consecutive days from a start-date field, or absent altogether.
func decodeHorizon(obj map[string]any) ([]rawDay, bool) {
	horizon, ok := obj["horizon"].([]any)
	if !ok {
		return nil, false
	}

	var dates []any
	for _, key := range horizonDateArrayKeys {
		if arr, ok := obj[key].([]any); ok {
			dates = arr
			break
		}
	}

	var start time.Time
	var hasStart bool
	if dates == nil {
		if v, ok := pluck(obj, horizonStartKeys); ok {
			start, hasStart = parseDate(v)
		}
		if !hasStart {
			for _, mk := range horizonMetaKeys {
				meta, ok := obj[mk].(map[string]any)
				if !ok {
					continue
				}
				if v, ok := pluck(meta, horizonMetaStartKeys); ok {
					if start, hasStart = parseDate(v); hasStart {
						break
					}
				}
			}
		}
	}

	apAt := seriesAt(obj, "ap_horizon", apAliases, len(horizon))
	f107At := seriesAt(obj, "f107_horizon", f107Aliases, len(horizon))

	days := make([]rawDay, 0, len(horizon))
	for i, kpVal := range horizon {
		day := rawDay{
			kp:   parseNumber(kpVal),
			ap:   apAt(i),
			f107: f107At(i),
		}
		switch {
		case dates != nil:
			if i < len(dates) {
				day.date, day.hasDate = parseDate(dates[i])
			}
		case hasStart:
			day.date = start.AddDate(0, 0, i)
			day.hasDate = true
		}
		days = append(days, day)
	}
	return days, true
}

// seriesAt resolves a companion series for the horizon shape: a same-length
// array under arrayKey, else a single scalar under the field's usual aliases
// broadcast to every position, else always nil.
func seriesAt(obj map[string]any, arrayKey string, aliases []string, n int) func(int) *float64 {
	if arr, ok := obj[arrayKey].([]any); ok {
		return func(i int) *float64 {
			if i < len(arr) {
				return parseNumber(arr[i])
			}
			return nil
		}
	}
	if v, ok := pluck(obj, aliases); ok {
		if _, isArr := v.([]any); !isArr {
			scalar := parseNumber(v)
			return func(int) *float64 { return scalar }
		}
	}
	return func(int) *float64 { return nil }
}

// decodeWrapped handles an object wrapping its day array under one
// conventional key. An array of scalars is not a day list (it may be a
// column for the columnar shape) and falls through.
func decodeWrapped(obj map[string]any) ([]rawDay, bool) {
	for _, key := range wrappedArrayKeys {
		arr, ok := obj[key].([]any)
		if !ok {
			continue
		}
		if len(arr) == 0 {
			return nil, true
		}
		for _, item := range arr {
			if _, isObj := item.(map[string]any); isObj {
				return decodeDayList(arr), true
			}
		}
	}
	return nil, false
}

// decodeColumnar handles parallel column arrays zipped positionally up to
// the shorter of the dates and Kp columns.
func decodeColumnar(obj map[string]any) ([]rawDay, bool) {
	var dates, kps []any
	for _, key := range columnDateKeys {
		if arr, ok := obj[key].([]any); ok {
			dates = arr
			break
		}
	}
	for _, key := range columnKpKeys {
		if arr, ok := obj[key].([]any); ok {
			kps = arr
			break
		}
	}
	if dates == nil || kps == nil {
		return nil, false
	}

	var aps, f107s []any
	for _, key := range columnApKeys {
		if arr, ok := obj[key].([]any); ok {
			aps = arr
			break
		}
	}
	for _, key := range columnF107Keys {
		if arr, ok := obj[key].([]any); ok {
			f107s = arr
			break
		}
	}

	n := len(dates)
	if len(kps) < n {
		n = len(kps)
	}
	days := make([]rawDay, 0, n)
	for i := 0; i < n; i++ {
		day := rawDay{kp: parseNumber(kps[i])}
		day.date, day.hasDate = parseDate(dates[i])
		if i < len(aps) {
			day.ap = parseNumber(aps[i])
		}
		if i < len(f107s) {
			day.f107 = parseNumber(f107s[i])
		}
		days = append(days, day)
	}
	return days, true
}

// decodeKeyedDays handles objects keyed D1..D27, ordered by the numeric
// suffix.
func decodeKeyedDays(obj map[string]any) ([]rawDay, bool) {
	type keyed struct {
		n   int
		obj map[string]any
	}
	var found []keyed
	for key, v := range obj {
		m := keyedDayRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		day, ok := v.(map[string]any)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, keyed{n: n, obj: day})
	}
	if len(found) == 0 {
		return nil, false
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })
	days := make([]rawDay, 0, len(found))
	for _, k := range found {
		days = append(days, dayFromObject(k.obj))
	}
	return days, true
}

// decodeSingleDay handles a payload that is itself one day record,
// recognized by the presence of a Kp-like property.
func decodeSingleDay(obj map[string]any) ([]rawDay, bool) {
	if _, ok := pluck(obj, kpAliases); !ok {
		return nil, false
	}
	return []rawDay{dayFromObject(obj)}, true
}

// dayFromObject extracts the canonical fields from one day-like object via
// the ordered alias tables.
func dayFromObject(obj map[string]any) rawDay {
	var day rawDay
	if v, ok := pluck(obj, kpAliases); ok {
		day.kp = parseNumber(v)
	}
	if v, ok := pluck(obj, apAliases); ok {
		day.ap = parseNumber(v)
	}
	if v, ok := pluck(obj, f107Aliases); ok {
		day.f107 = parseNumber(v)
	}
	if v, ok := pluck(obj, dateAliases); ok {
		day.date, day.hasDate = parseDate(v)
	}
	if v, ok := pluck(obj, noteAliases); ok {
		day.note = parseString(v)
	}
	if v, ok := pluck(obj, idAliases); ok {
		day.id = parseString(v)
	}
	return day
}

// pipeline applies the uniform post-processing every shape goes through:
// clamp Kp, derive missing Ap, sort by date with undated records last,
// deduplicate by date keeping the first occurrence, then assign labels
// and unique ids.
func pipeline(days []rawDay) Forecast {
	for i := range days {
		if days[i].kp != nil {
			clamped := clampKp(*days[i].kp)
			days[i].kp = &clamped
		}
		if days[i].ap == nil && days[i].kp != nil {
			days[i].ap = deriveAp(*days[i].kp)
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		if days[i].hasDate != days[j].hasDate {
			return days[i].hasDate
		}
		if !days[i].hasDate {
			return false
		}
		return days[i].date.Before(days[j].date)
	})

	out := make(Forecast, 0, len(days))
	seenDates := make(map[string]bool, len(days))
	seenIDs := make(map[string]bool, len(days))
	for _, day := range days {
		rec := DayRecord{
			Kp:   day.kp,
			Ap:   day.ap,
			F107: day.f107,
			Note: day.note,
		}
		if day.hasDate {
			rec.Date = day.date.Format("2006-01-02")
			if seenDates[rec.Date] {
				continue
			}
			seenDates[rec.Date] = true
			rec.Label = dateLabel(day.date)
		} else {
			rec.Label = "D" + strconv.Itoa(len(out)+1)
		}

		rec.ID = day.id
		if rec.ID == "" {
			rec.ID = rec.Date
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(len(out))
		}
		for seenIDs[rec.ID] {
			rec.ID += "-" + strconv.Itoa(len(out))
		}
		seenIDs[rec.ID] = true

		out = append(out, rec)
	}
	return out
}
