// Package state persists the workflow document: a single JSON file on disk,
// partitioned by pipeline stage (campaigns, videos, published) and keyed by
// entity id within each partition.
//
// Writes go through a read-merge-write cycle guarded by a flock sibling file,
// so the server and detached worker processes on the same host cannot
// interleave their read-modify-write cycles. The lock protects whole-file
// consistency only; the intended discipline is still a single writer per
// entity id (the dispatcher creates a job record, its worker mutates it).
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/reelmint/api/internal/model"
)

// ErrCorruptState is returned when the backing file exists but does not parse.
// No repair is attempted; the operator has to inspect the file.
var ErrCorruptState = errors.New("corrupt state document")

// Partition maps entity id to entity payload. Ids are unique within a
// partition, not across partitions.
type Partition map[string]map[string]any

// Document is the full workflow state keyed by partition name.
type Document map[string]Partition

var knownPartitions = []string{
	model.PartitionCampaigns,
	model.PartitionVideos,
	model.PartitionPublished,
}

// Store reads and writes the workflow document.
type Store struct {
	path string

	mu   sync.Mutex   // serializes writers within this process
	lock *flock.Flock // serializes writers across processes
}

// NewStore returns a store backed by the file at path. The file and its
// directory are created lazily on first write.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current document. A missing file is not an error: the
// document springs into existence empty, with every known partition present.
func (s *Store) Read() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}
	for _, name := range knownPartitions {
		if doc[name] == nil {
			doc[name] = Partition{}
		}
	}
	return doc, nil
}

// Get returns the entry at partition[id], reporting whether it exists.
func (s *Store) Get(partition, id string) (map[string]any, bool, error) {
	doc, err := s.Read()
	if err != nil {
		return nil, false, err
	}
	entry, ok := doc[partition][id]
	return entry, ok, nil
}

// GetPartition returns one partition of the document. Unknown partition names
// yield an empty map.
func (s *Store) GetPartition(partition string) (Partition, error) {
	doc, err := s.Read()
	if err != nil {
		return nil, err
	}
	part := doc[partition]
	if part == nil {
		part = Partition{}
	}
	return part, nil
}

// Upsert merges patch into the entry at partition[id] as one logical
// operation: read, shallow merge (patch fields overwrite, others are
// preserved), write. Missing partitions and entries are created on demand.
func (s *Store) Upsert(partition, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	defer s.lock.Unlock()

	doc, err := s.Read()
	if err != nil {
		return err
	}

	part := doc[partition]
	if part == nil {
		part = Partition{}
		doc[partition] = part
	}
	entry := part[id]
	if entry == nil {
		entry = map[string]any{}
		part[id] = entry
	}
	for k, v := range patch {
		entry[k] = v
	}

	return s.write(doc)
}

// write replaces the backing file atomically: marshal to a temp file in the
// same directory, then rename over the target. An interrupted write never
// leaves a truncated document behind.
func (s *Store) write(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".workflow-state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func emptyDocument() Document {
	doc := Document{}
	for _, name := range knownPartitions {
		doc[name] = Partition{}
	}
	return doc
}
