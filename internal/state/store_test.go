package state

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "workflow_state.json"))
}

func TestReadMissingFile(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Read()
	if err != nil {
		t.Fatalf("Read on missing file: %v", err)
	}

	for _, name := range []string{"campaigns", "videos", "published"} {
		part, ok := doc[name]
		if !ok {
			t.Errorf("expected partition %q in default document", name)
		}
		if len(part) != 0 {
			t.Errorf("expected partition %q to be empty, got %d entries", name, len(part))
		}
	}
}

func TestReadCorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.Read()
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.Upsert("videos", "v1", map[string]any{"status": "queued", "topic": "launch"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert("videos", "v1", map[string]any{"status": "running"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	doc, err := s.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	entry := doc["videos"]["v1"]
	if entry == nil {
		t.Fatal("expected entry videos/v1")
	}
	if entry["status"] != "running" {
		t.Errorf("patch field not overwritten: status = %v", entry["status"])
	}
	if entry["topic"] != "launch" {
		t.Errorf("prior field not preserved: topic = %v", entry["topic"])
	}
}

func TestUpsertIdempotent(t *testing.T) {
	s := newTestStore(t)
	patch := map[string]any{"status": "queued", "topic": "launch"}

	if err := s.Upsert("videos", "v1", patch); err != nil {
		t.Fatal(err)
	}
	once, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Upsert("videos", "v1", patch); err != nil {
		t.Fatal(err)
	}
	twice, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("applying the same patch twice changed the document:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestUpsertCreatesUnknownPartition(t *testing.T) {
	s := newTestStore(t)

	if err := s.Upsert("experiments", "e1", map[string]any{"name": "pilot"}); err != nil {
		t.Fatalf("upsert into unknown partition: %v", err)
	}

	entry, ok, err := s.Get("experiments", "e1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected experiments/e1 to exist")
	}
	if entry["name"] != "pilot" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestGetPartitionUnknown(t *testing.T) {
	s := newTestStore(t)

	part, err := s.GetPartition("nonexistent")
	if err != nil {
		t.Fatalf("GetPartition: %v", err)
	}
	if len(part) != 0 {
		t.Errorf("expected empty partition, got %v", part)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	if err := s.Upsert("videos", "v1", map[string]any{"status": "queued"}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(s.Path()) && e.Name() != filepath.Base(s.Path())+".lock" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}
