package registry

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/reelmint/api/internal/model"
	"github.com/reelmint/api/internal/state"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(state.NewStore(filepath.Join(t.TempDir(), "workflow_state.json")))
}

func queuedJob(id string) *model.JobRecord {
	return &model.JobRecord{
		ID:     id,
		Status: model.JobStatusQueued,
		Logs:   []string{"job accepted: launch teaser"},
	}
}

func TestCreateAndGet(t *testing.T) {
	r := newTestRegistry(t)

	created, err := r.Create(queuedJob("video-1-abc"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected createdAt to be stamped")
	}

	got, err := r.Get("video-1-abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.JobStatusQueued {
		t.Errorf("status = %q, want queued", got.Status)
	}
	if len(got.Logs) != 1 || got.Logs[0] != "job accepted: launch teaser" {
		t.Errorf("unexpected logs: %v", got.Logs)
	}
}

func TestCreateDuplicate(t *testing.T) {
	r := newTestRegistry(t)

	if _, err := r.Create(queuedJob("video-1-abc")); err != nil {
		t.Fatal(err)
	}
	_, err := r.Create(queuedJob("video-1-abc"))
	if !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Get("video-9-zzz")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestUpdateNotFound(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Update("video-9-zzz", map[string]any{"status": "running"})
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestUpdateMergesAndAppendsLogs(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Create(queuedJob("video-1-abc")); err != nil {
		t.Fatal(err)
	}

	err := r.Update("video-1-abc", map[string]any{
		"status": "running",
		"logs":   []string{"worker started"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := r.Get("video-1-abc")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.JobStatusRunning {
		t.Errorf("status = %q, want running", got.Status)
	}
	want := []string{"job accepted: launch teaser", "worker started"}
	if len(got.Logs) != len(want) {
		t.Fatalf("logs = %v, want %v", got.Logs, want)
	}
	for i := range want {
		if got.Logs[i] != want[i] {
			t.Errorf("logs[%d] = %q, want %q", i, got.Logs[i], want[i])
		}
	}
	if got.UpdatedAt == nil {
		t.Error("expected updatedAt to be stamped")
	}
}

func TestAppendLogGrowsMonotonically(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Create(queuedJob("video-1-abc")); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := r.AppendLog("video-1-abc", "tick"); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.Get("video-1-abc")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Logs) != 4 {
		t.Errorf("expected 4 log lines, got %d: %v", len(got.Logs), got.Logs)
	}
}

func TestCompleteAndFail(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Create(queuedJob("video-1-abc")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Create(queuedJob("video-2-def")); err != nil {
		t.Fatal(err)
	}

	if err := r.Complete("video-1-abc", map[string]any{"videoUrl": "https://cdn.example/v.mp4"}); err != nil {
		t.Fatal(err)
	}
	done, err := r.Get("video-1-abc")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != model.JobStatusCompleted {
		t.Errorf("status = %q, want completed", done.Status)
	}
	if done.Result["videoUrl"] != "https://cdn.example/v.mp4" {
		t.Errorf("unexpected result: %v", done.Result)
	}

	if err := r.Fail("video-2-def", "render provider timeout"); err != nil {
		t.Fatal(err)
	}
	failed, err := r.Get("video-2-def")
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != model.JobStatusFailed {
		t.Errorf("status = %q, want failed", failed.Status)
	}
	if failed.Error == nil || *failed.Error != "render provider timeout" {
		t.Errorf("unexpected error field: %v", failed.Error)
	}
}
