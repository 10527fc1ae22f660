package forecast

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	issues []Issue
	runs   []SyncRun
}

func (f *fakeStore) SaveIssue(issue Issue) { f.issues = append(f.issues, issue) }

func (f *fakeStore) LatestIssue(source string) (Issue, error) {
	for i := len(f.issues) - 1; i >= 0; i-- {
		if f.issues[i].Source == source {
			return f.issues[i], nil
		}
	}
	return Issue{}, errors.New("not found")
}

func (f *fakeStore) HistoryRange(from, to string) ([]DayRecord, error) {
	return nil, errors.New("not found")
}

func (f *fakeStore) SaveRun(run SyncRun) { f.runs = append(f.runs, run) }

func (f *fakeStore) LatestRun() (SyncRun, error) {
	if len(f.runs) == 0 {
		return SyncRun{}, errors.New("not found")
	}
	return f.runs[len(f.runs)-1], nil
}

type fakeFetcher struct {
	name    string
	payload any
	err     error
	calls   int
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Fetch(ctx context.Context) (any, error) {
	f.calls++
	return f.payload, f.err
}

func TestSyncAllPartialSuccess(t *testing.T) {
	good := &fakeFetcher{
		name:    "good",
		payload: map[string]any{"D1": map[string]any{"kp": float64(4)}},
	}
	bad := &fakeFetcher{name: "bad", err: errors.New("boom")}

	st := &fakeStore{}
	svc := NewService(st, []Fetcher{good, bad})

	run, err := svc.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID == "" {
		t.Fatal("run has no id")
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	if len(st.issues) != 1 || st.issues[0].Source != "good" {
		t.Fatalf("issues = %+v", st.issues)
	}
	if len(st.issues[0].Days) != 1 || *st.issues[0].Days[0].Kp != 4 {
		t.Fatalf("days = %+v", st.issues[0].Days)
	}
	if len(st.runs) != 1 {
		t.Fatalf("expected run to be recorded, got %d", len(st.runs))
	}
}

func TestSyncAllNoSources(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	if _, err := svc.SyncAll(context.Background()); err == nil {
		t.Fatal("expected error with no sources")
	}
}

func TestLiveFallsBackToStored(t *testing.T) {
	src := &fakeFetcher{name: "swpc-27day", err: errors.New("upstream down")}
	st := &fakeStore{}
	st.SaveIssue(Issue{ID: "stored", Source: "swpc-27day"})

	svc := NewService(st, []Fetcher{src})
	issue, err := svc.Live(context.Background(), "swpc-27day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issue.ID != "stored" {
		t.Fatalf("issue = %+v, want stored fallback", issue)
	}

	if _, err := svc.Live(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
