package queue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trailmap-ai/trailmap/pkg/common"
	"github.com/trailmap-ai/trailmap/pkg/store"
)

// fakeRunStore records status transitions in place of the database.
type fakeRunStore struct {
	saveErr  error
	saved    *common.Roadmap
	statuses []store.RunStatus
	errMsgs  []string
}

func (f *fakeRunStore) CreateRun(_ context.Context, _ *store.AnalysisRun) error { return nil }

func (f *fakeRunStore) GetRun(_ context.Context, _ string) (*store.AnalysisRun, error) {
	return nil, nil
}

func (f *fakeRunStore) ListRuns(_ context.Context) ([]store.AnalysisRun, error) { return nil, nil }

func (f *fakeRunStore) SetRunStatus(_ context.Context, _ string, status store.RunStatus, errMsg string) error {
	f.statuses = append(f.statuses, status)
	f.errMsgs = append(f.errMsgs, errMsg)
	return nil
}

func (f *fakeRunStore) SaveResult(_ context.Context, _ string, roadmap *common.Roadmap) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = roadmap
	return nil
}

func (f *fakeRunStore) DeleteRun(_ context.Context, _ string) error { return nil }

func TestCompleteRunMarksRunFailedWhenSaveFails(t *testing.T) {
	db := &fakeRunStore{saveErr: errors.New("connection reset")}

	err := completeRun(context.Background(), db, "run1", &common.Roadmap{})
	if err == nil {
		t.Fatal("expected an error when the save fails")
	}

	// The run must not stay in processing while the message retries.
	if len(db.statuses) != 1 || db.statuses[0] != store.RunFailed {
		t.Fatalf("statuses = %v, want [failed]", db.statuses)
	}
	if !strings.Contains(db.errMsgs[0], "connection reset") {
		t.Errorf("stored error %q does not carry the cause", db.errMsgs[0])
	}
}

func TestCompleteRunSavesDocument(t *testing.T) {
	db := &fakeRunStore{}
	doc := &common.Roadmap{}

	if err := completeRun(context.Background(), db, "run1", doc); err != nil {
		t.Fatalf("completeRun() error = %v", err)
	}
	if db.saved != doc {
		t.Error("document was not passed to SaveResult")
	}
	if len(db.statuses) != 0 {
		t.Errorf("unexpected status transitions: %v", db.statuses)
	}
}
