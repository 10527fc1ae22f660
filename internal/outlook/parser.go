// Package outlook parses the NOAA SWPC 27-day outlook text product into a
// JSON-shaped payload the forecast normalizer understands.
package outlook

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoRows is returned when the product text contains no parseable data rows.
var ErrNoRows = errors.New("no data rows in 27-day outlook")

var (
	// ":Issued: 2025 Oct 06 0205 UTC"
	issuedColonRe = regexp.MustCompile(`:Issued:\s*(\d{4})\s+([A-Za-z]{3})\s+(\d{2})\s+(\d{2})(\d{2})\s*UTC`)
	// "Issued 2025-10-06" / "Issued 2025/10/06"
	issuedPlainRe = regexp.MustCompile(`Issued\s+(\d{4})[-/](\d{2})[-/](\d{2})`)
	// "2025 Oct 06     150          15          4"
	lineRe = regexp.MustCompile(`^\s*(\d{4})\s+([A-Za-z]{3})\s+(\d{2})\s+(\d+)\s+(\d+)\s+(\d+)\s*$`)
)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Day is one row of the outlook: a UTC date with the predicted 10.7 cm radio
// flux, planetary A index, and largest expected Kp.
type Day struct {
	Date time.Time
	F107 int
	Ap   int
	Kp   int
}

// Outlook is a parsed 27-day outlook product.
type Outlook struct {
	Issued time.Time // zero when the header carried no issue time
	Days   []Day
}

// Parse reads the plain-text product. It requires at least one data row and
// tolerates a missing or unrecognized :Issued: header. Rows whose numeric
// fields do not fit an int (the upstream is untrusted text) are skipped like
// any other non-matching line.
func Parse(text string) (*Outlook, error) {
	out := &Outlook{}
	out.Issued = parseIssued(text)

	for _, raw := range strings.Split(text, "\n") {
		m := lineRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		mon, ok := months[m[2]]
		if !ok {
			continue
		}
		year, ok1 := atoi(m[1])
		day, ok2 := atoi(m[3])
		f107, ok3 := atoi(m[4])
		ap, ok4 := atoi(m[5])
		kp, ok5 := atoi(m[6])
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			continue
		}
		out.Days = append(out.Days, Day{
			Date: time.Date(year, mon, day, 0, 0, 0, 0, time.UTC),
			F107: f107,
			Ap:   ap,
			Kp:   kp,
		})
	}
	if len(out.Days) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// Payload renders the outlook in the wrapped-array JSON shape consumed by
// the normalizer.
func (o *Outlook) Payload() map[string]any {
	days := make([]any, 0, len(o.Days))
	for _, d := range o.Days {
		days = append(days, map[string]any{
			"date_utc": d.Date.Format(time.RFC3339),
			"f107":     float64(d.F107),
			"ap":       float64(d.Ap),
			"kp_noaa":  float64(d.Kp),
		})
	}
	payload := map[string]any{
		"source": "NOAA SWPC 27-Day Outlook",
		"days":   days,
	}
	if !o.Issued.IsZero() {
		payload["issued_utc"] = o.Issued.Format(time.RFC3339)
	}
	return payload
}

func parseIssued(text string) time.Time {
	if m := issuedColonRe.FindStringSubmatch(text); m != nil {
		mon, ok := months[m[2]]
		if !ok {
			mon = time.January
		}
		year, ok1 := atoi(m[1])
		day, ok2 := atoi(m[3])
		hour, ok3 := atoi(m[4])
		min, ok4 := atoi(m[5])
		if ok1 && ok2 && ok3 && ok4 {
			return time.Date(year, mon, day, hour, min, 0, 0, time.UTC)
		}
	}
	if m := issuedPlainRe.FindStringSubmatch(text); m != nil {
		year, ok1 := atoi(m[1])
		mon, ok2 := atoi(m[2])
		day, ok3 := atoi(m[3])
		if ok1 && ok2 && ok3 {
			return time.Date(year, time.Month(mon), day, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
