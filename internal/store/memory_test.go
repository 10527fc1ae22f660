package store

import (
	"errors"
	"testing"
	"time"

	"github.com/antonkh/space-weather-forecast/internal/forecast"
)

func kp(v float64) *float64 { return &v }

func issueAt(source string, fetched time.Time, dates ...string) forecast.Issue {
	days := make(forecast.Forecast, 0, len(dates))
	for i, d := range dates {
		days = append(days, forecast.DayRecord{
			ID:    d,
			Date:  d,
			Kp:    kp(float64(i + 1)),
			Label: d,
		})
	}
	return forecast.Issue{
		ID:        source + "-" + fetched.Format(time.RFC3339),
		Source:    source,
		FetchedAt: fetched,
		Days:      days,
	}
}

func TestLatestIssue(t *testing.T) {
	s := NewMemoryStore(10, 0)
	now := time.Now().UTC()

	s.SaveIssue(issueAt("swpc-27day", now.Add(-time.Hour), "2024-01-01"))
	s.SaveIssue(issueAt("swpc-27day", now, "2024-01-02"))

	issue, err := s.LatestIssue("swpc-27day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !issue.FetchedAt.Equal(now) {
		t.Fatalf("latest issue fetched at %v, want %v", issue.FetchedAt, now)
	}

	if _, err := s.LatestIssue("unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		s.SaveIssue(issueAt("swpc-27day", now.Add(time.Duration(i)*time.Minute), "2024-01-01"))
	}

	issue, err := s.LatestIssue("swpc-27day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !issue.FetchedAt.Equal(now.Add(4 * time.Minute)) {
		t.Fatalf("latest after retention = %v", issue.FetchedAt)
	}
}

func TestHistoryRangeMergesAndFilters(t *testing.T) {
	s := NewMemoryStore(10, 0)
	now := time.Now().UTC()

	s.SaveIssue(issueAt("swpc-27day", now.Add(-time.Hour), "2024-01-01", "2024-01-02"))
	// Later issue overwrites the overlapping date and extends the series.
	s.SaveIssue(issueAt("swpc-27day", now, "2024-01-02", "2024-01-03"))

	records, err := s.HistoryRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 merged records, got %d", len(records))
	}
	for i, want := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if records[i].Date != want {
			t.Fatalf("record %d date = %q, want %q", i, records[i].Date, want)
		}
	}
	// The overlapping date came from the later issue, where it was first
	// in the day list (kp 1).
	if *records[1].Kp != 1 {
		t.Fatalf("overlapping date kp = %v, want 1", *records[1].Kp)
	}

	filtered, err := s.HistoryRange("2024-01-02", "2024-01-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Date != "2024-01-02" {
		t.Fatalf("filtered = %+v", filtered)
	}

	if _, err := s.HistoryRange("2030-01-01", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncRunLog(t *testing.T) {
	s := NewMemoryStore(10, 0)

	if _, err := s.LatestRun(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	s.SaveRun(forecast.SyncRun{ID: "run-1", StartedAt: time.Now().UTC()})
	s.SaveRun(forecast.SyncRun{ID: "run-2", StartedAt: time.Now().UTC()})

	run, err := s.LatestRun()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID != "run-2" {
		t.Fatalf("latest run id = %q, want run-2", run.ID)
	}
}
