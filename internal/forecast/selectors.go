package forecast

// ChartPoint is the chart-ready projection of one day record.
type ChartPoint struct {
	Label string   `json:"label"`
	Kp    *float64 `json:"kp"`
	Ap    *float64 `json:"ap"`
	F107  *float64 `json:"f107"`
}

// Window is the dated span covered by a forecast, taken from the first and
// last dated records.
type Window struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Summary holds the headline statistics for one forecast window.
type Summary struct {
	Window Window   `json:"window"`
	KpMax  *float64 `json:"kpMax"`
	KpAvg  *float64 `json:"kpAvg"`
	ApMax  *float64 `json:"apMax"`
	Days   int      `json:"days"`
}

// ChartPoints projects a forecast into chart-ready tuples.
func ChartPoints(f Forecast) []ChartPoint {
	points := make([]ChartPoint, 0, len(f))
	for _, rec := range f {
		points = append(points, ChartPoint{
			Label: rec.Label,
			Kp:    rec.Kp,
			Ap:    rec.Ap,
			F107:  rec.F107,
		})
	}
	return points
}

// Summarize computes min/max/average statistics over the non-nil Kp and Ap
// values in a single linear scan. Records are already date-ordered, so the
// window comes from the first and last dated entries.
func Summarize(f Forecast) Summary {
	var s Summary
	s.Days = len(f)

	var kpSum float64
	var kpCount int
	for _, rec := range f {
		if rec.Date != "" {
			if s.Window.Start == "" {
				s.Window.Start = rec.Date
			}
			s.Window.End = rec.Date
		}
		if rec.Kp != nil {
			kpSum += *rec.Kp
			kpCount++
			if s.KpMax == nil || *rec.Kp > *s.KpMax {
				v := *rec.Kp
				s.KpMax = &v
			}
		}
		if rec.Ap != nil {
			if s.ApMax == nil || *rec.Ap > *s.ApMax {
				v := *rec.Ap
				s.ApMax = &v
			}
		}
	}
	if kpCount > 0 {
		avg := kpSum / float64(kpCount)
		s.KpAvg = &avg
	}
	return s
}
