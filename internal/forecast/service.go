package forecast

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Issue is one stored normalization result: the outcome of fetching a
// source once.
type Issue struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
	Days      Forecast  `json:"days"`
}

// SyncResult records one source's outcome within a sync run.
type SyncResult struct {
	Source string `json:"source"`
	Days   int    `json:"days"`
	Error  string `json:"error,omitempty"`
}

// SyncRun is the log entry for one full sync across all sources.
type SyncRun struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Results    []SyncResult `json:"results"`
}

// Fetcher abstracts a remote forecast source (the sources package satisfies
// this without the service importing it).
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (any, error)
}

// Store is the contract the in-memory store (and any future persistent
// store) must satisfy.
type Store interface {
	SaveIssue(issue Issue)
	LatestIssue(source string) (Issue, error)
	HistoryRange(from, to string) ([]DayRecord, error)
	SaveRun(run SyncRun)
	LatestRun() (SyncRun, error)
}

// Service orchestrates fetching from sources, normalizing payloads, and
// persisting issues.
type Service struct {
	store   Store
	sources []Fetcher
}

// NewService creates a new Service.
func NewService(store Store, sources []Fetcher) *Service {
	return &Service{
		store:   store,
		sources: sources,
	}
}

// SyncAll fetches every source concurrently, normalizes each payload, and
// stores the resulting issues. Partial success is fine: a failing source is
// logged into the run record and the rest proceed.
func (s *Service) SyncAll(ctx context.Context) (SyncRun, error) {
	run := SyncRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	if len(s.sources) == 0 {
		return run, fmt.Errorf("no forecast sources configured")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []SyncResult
	)

	for _, src := range s.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			result := SyncResult{Source: src.Name()}
			payload, err := src.Fetch(ctx)
			if err != nil {
				// Log and continue; we keep the last good issue for this source.
				log.Printf("source %s fetch failed: %v", src.Name(), err)
				result.Error = err.Error()
			} else {
				days := Normalize(payload)
				result.Days = len(days)
				if len(days) == 0 {
					log.Printf("source %s payload normalized to zero days", src.Name())
				}
				s.store.SaveIssue(Issue{
					ID:        uuid.New().String(),
					Source:    src.Name(),
					FetchedAt: time.Now().UTC(),
					Days:      days,
				})
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}()
	}

	wg.Wait()

	run.FinishedAt = time.Now().UTC()
	run.Results = results
	s.store.SaveRun(run)
	return run, nil
}

// Latest returns the most recent stored issue for a source.
func (s *Service) Latest(source string) (Issue, error) {
	return s.store.LatestIssue(source)
}

// Live fetches and normalizes a source right now, falling back to the last
// stored issue when the upstream is unreachable.
func (s *Service) Live(ctx context.Context, source string) (Issue, error) {
	src := s.findSource(source)
	if src == nil {
		return Issue{}, fmt.Errorf("unknown source %q", source)
	}

	payload, err := src.Fetch(ctx)
	if err != nil {
		log.Printf("live fetch from %s failed, serving stored issue: %v", source, err)
		return s.store.LatestIssue(source)
	}

	issue := Issue{
		ID:        uuid.New().String(),
		Source:    src.Name(),
		FetchedAt: time.Now().UTC(),
		Days:      Normalize(payload),
	}
	s.store.SaveIssue(issue)
	return issue, nil
}

// Summary computes the headline statistics for a source's latest issue.
func (s *Service) Summary(source string) (Summary, error) {
	issue, err := s.store.LatestIssue(source)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(issue.Days), nil
}

// History returns the merged per-day series between two dates (inclusive,
// "2006-01-02", empty bound = open).
func (s *Service) History(from, to string) ([]DayRecord, error) {
	return s.store.HistoryRange(from, to)
}

// LastRun returns the most recent sync run record.
func (s *Service) LastRun() (SyncRun, error) {
	return s.store.LatestRun()
}

// SourceNames lists the configured source names in registration order.
func (s *Service) SourceNames() []string {
	names := make([]string, 0, len(s.sources))
	for _, src := range s.sources {
		names = append(names, src.Name())
	}
	return names
}

func (s *Service) findSource(name string) Fetcher {
	for _, src := range s.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}
