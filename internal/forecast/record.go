package forecast

import (
	"math"
	"time"
)

// DayRecord is the canonical per-day forecast unit. All sources, whatever
// payload shape they arrive in, normalize into an ordered slice of these.
type DayRecord struct {
	// ID is the source payload's own id when present, else the date,
	// else the position index. Unique within one normalization result.
	ID string `json:"id"`

	// Date is the UTC calendar date as "2006-01-02", empty when the
	// source supplied none.
	Date string `json:"date,omitempty"`

	Kp   *float64 `json:"kp"`
	Ap   *float64 `json:"ap"`
	F107 *float64 `json:"f107"`

	Note string `json:"note,omitempty"`

	// Label is a short display string for the date ("Jan 2"), synthesized
	// as "D<n>" when no date is available. Always present.
	Label string `json:"label"`
}

// Forecast is an ordered sequence of normalized day records,
// dates ascending, undated records last.
type Forecast []DayRecord

// apFromKp is the standard NOAA integer mapping from Kp to the daily Ap index.
var apFromKp = [10]float64{0, 3, 7, 15, 27, 48, 80, 140, 240, 400}

// deriveAp maps a Kp value to Ap via the fixed table, rounding Kp to the
// nearest integer first. Values outside the table yield nil.
func deriveAp(kp float64) *float64 {
	k := int(math.Round(kp))
	if k < 0 || k >= len(apFromKp) {
		return nil
	}
	ap := apFromKp[k]
	return &ap
}

// clampKp clips a Kp value into the physical [0, 9] range.
func clampKp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 9 {
		return 9
	}
	return v
}

// dateLabel renders a date in the short month+day form used for display.
func dateLabel(t time.Time) string {
	return t.Format("Jan 2")
}
