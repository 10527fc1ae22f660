package forecast

import "testing"

func TestChartPoints(t *testing.T) {
	days := NormalizeJSON([]byte(`[
		{"date": "2024-01-01", "kp": 3, "f107": 150},
		{"date": "2024-01-02", "kp": 5}
	]`))

	points := ChartPoints(days)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Label != "Jan 1" || points[1].Label != "Jan 2" {
		t.Fatalf("labels = %q, %q", points[0].Label, points[1].Label)
	}
	if points[0].Kp == nil || *points[0].Kp != 3 {
		t.Fatalf("point 0 kp = %v", points[0].Kp)
	}
	if points[1].F107 != nil {
		t.Fatalf("point 1 f107 = %v, want nil", *points[1].F107)
	}
}

func TestSummarize(t *testing.T) {
	days := NormalizeJSON([]byte(`[
		{"date": "2024-01-01", "kp": 2},
		{"date": "2024-01-02", "kp": 6},
		{"date": "2024-01-03", "kp": 4},
		{"kp": null}
	]`))

	s := Summarize(days)
	if s.Days != 4 {
		t.Fatalf("days = %d, want 4", s.Days)
	}
	if s.Window.Start != "2024-01-01" || s.Window.End != "2024-01-03" {
		t.Fatalf("window = %+v", s.Window)
	}
	if s.KpMax == nil || *s.KpMax != 6 {
		t.Fatalf("kpMax = %v", s.KpMax)
	}
	if s.KpAvg == nil || *s.KpAvg != 4 {
		t.Fatalf("kpAvg = %v", s.KpAvg)
	}
	// Ap derived from kp 6 is 80.
	if s.ApMax == nil || *s.ApMax != 80 {
		t.Fatalf("apMax = %v", s.ApMax)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Days != 0 || s.KpMax != nil || s.KpAvg != nil || s.ApMax != nil {
		t.Fatalf("summary of empty forecast not empty: %+v", s)
	}
	if s.Window.Start != "" || s.Window.End != "" {
		t.Fatalf("window of empty forecast: %+v", s.Window)
	}
}
