package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/antonkh/space-weather-forecast/internal/forecast"
)

var (
	// ErrNotFound is returned when no data is available for a request.
	ErrNotFound = errors.New("no forecast data available")
)

// issueHistory holds a time-ordered list of issues for one source.
type issueHistory struct {
	issues []forecast.Issue
}

// MemoryStore is a concurrency-safe in-memory implementation of the
// forecast store. Besides per-source issue history it accumulates a merged
// per-day series across every issue it has seen, which backs the historical
// range lookup: the latest record for a date wins.
type MemoryStore struct {
	mu sync.RWMutex

	// key: source name, value: issue history
	bySource map[string]*issueHistory

	// key: "2006-01-02" date, value: most recent record for that date
	daily map[string]forecast.DayRecord

	runs []forecast.SyncRun

	// retention configuration
	maxHistory int           // max number of issues per source
	maxAge     time.Duration // optional max age for issues
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		bySource:   make(map[string]*issueHistory),
		daily:      make(map[string]forecast.DayRecord),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveIssue appends a new issue for its source, merges its dated records
// into the daily series, and enforces retention.
func (s *MemoryStore) SaveIssue(issue forecast.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.bySource[issue.Source]
	if !ok {
		history = &issueHistory{}
		s.bySource[issue.Source] = history
	}

	history.issues = append(history.issues, issue)

	for _, rec := range issue.Days {
		if rec.Date != "" {
			s.daily[rec.Date] = rec
		}
	}

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.issues) > s.maxHistory {
		over := len(history.issues) - s.maxHistory
		history.issues = history.issues[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.issues); i++ {
			if !history.issues[i].FetchedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.issues) {
			history.issues = history.issues[i:]
		}
	}
}

// LatestIssue returns the most recent issue for a source.
func (s *MemoryStore) LatestIssue(source string) (forecast.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.bySource[source]
	if !ok || len(history.issues) == 0 {
		return forecast.Issue{}, ErrNotFound
	}
	return history.issues[len(history.issues)-1], nil
}

// HistoryRange returns the merged daily series between from and to
// (inclusive, "2006-01-02" dates; an empty bound is open). Normalized dates
// compare lexicographically, so no time parsing is needed here.
func (s *MemoryStore) HistoryRange(from, to string) ([]forecast.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.daily) == 0 {
		return nil, ErrNotFound
	}

	var result []forecast.DayRecord
	for date, rec := range s.daily {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		result = append(result, rec)
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

// SaveRun appends a sync run record, keeping the same count-based retention
// as issue history.
func (s *MemoryStore) SaveRun(run forecast.SyncRun) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)
	if s.maxHistory > 0 && len(s.runs) > s.maxHistory {
		over := len(s.runs) - s.maxHistory
		s.runs = s.runs[over:]
	}
}

// LatestRun returns the most recent sync run record.
func (s *MemoryStore) LatestRun() (forecast.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return forecast.SyncRun{}, ErrNotFound
	}
	return s.runs[len(s.runs)-1], nil
}
