// Package registry is the job-record API over the videos partition of the
// state store: create on submission, merge-update while the worker runs, get
// for polling.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/reelmint/api/internal/model"
	"github.com/reelmint/api/internal/state"
)

var (
	// ErrDuplicateJob means a record with the same id already exists.
	ErrDuplicateJob = errors.New("duplicate job")
	// ErrJobNotFound means no record exists for the id. During early polling
	// windows callers should treat this as "not yet visible", not as fatal.
	ErrJobNotFound = errors.New("job not found")
)

// Registry stores job records in the videos partition.
type Registry struct {
	store *state.Store
}

func New(store *state.Store) *Registry {
	return &Registry{store: store}
}

// Create inserts a new record. The id must not already exist; createdAt is
// stamped if the caller left it zero.
func (r *Registry) Create(job *model.JobRecord) (*model.JobRecord, error) {
	_, exists, err := r.store.Get(model.PartitionVideos, job.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateJob, job.ID)
	}

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	entry, err := encodeRecord(job)
	if err != nil {
		return nil, err
	}
	if err := r.store.Upsert(model.PartitionVideos, job.ID, entry); err != nil {
		return nil, err
	}
	return job, nil
}

// Update merges patch into the stored record. Fields in patch overwrite the
// stored ones, except "logs": a logs value in the patch is appended to the
// existing log sequence, never replacing it. updatedAt is stamped on every
// call.
func (r *Registry) Update(id string, patch map[string]any) error {
	entry, exists, err := r.store.Get(model.PartitionVideos, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	merged := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		merged[k] = v
	}
	if lines, ok := patch["logs"]; ok {
		merged["logs"] = appendLogs(entry["logs"], lines)
	}
	merged["updatedAt"] = time.Now().UTC()

	return r.store.Upsert(model.PartitionVideos, id, merged)
}

// Get returns the current record for id.
func (r *Registry) Get(id string) (*model.JobRecord, error) {
	entry, exists, err := r.store.Get(model.PartitionVideos, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return decodeRecord(entry)
}

// SetStatus transitions the record's status, optionally appending a log line.
func (r *Registry) SetStatus(id string, status model.JobStatus, logLine string) error {
	patch := map[string]any{"status": status}
	if logLine != "" {
		patch["logs"] = []string{logLine}
	}
	return r.Update(id, patch)
}

// AppendLog appends one line to the record's log sequence.
func (r *Registry) AppendLog(id, line string) error {
	return r.Update(id, map[string]any{"logs": []string{line}})
}

// Complete marks the job completed with its result payload.
func (r *Registry) Complete(id string, result map[string]any) error {
	return r.Update(id, map[string]any{
		"status": model.JobStatusCompleted,
		"result": result,
		"logs":   []string{"job completed"},
	})
}

// Fail marks the job failed with an error message.
func (r *Registry) Fail(id, message string) error {
	return r.Update(id, map[string]any{
		"status": model.JobStatusFailed,
		"error":  message,
		"logs":   []string{"job failed: " + message},
	})
}

// encodeRecord round-trips the record through JSON into the map form the
// state store holds.
func encodeRecord(job *model.JobRecord) (map[string]any, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job record: %w", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("encode job record: %w", err)
	}
	return entry, nil
}

func decodeRecord(entry map[string]any) (*model.JobRecord, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("decode job record: %w", err)
	}
	var job model.JobRecord
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job record: %w", err)
	}
	return &job, nil
}

// appendLogs concatenates the patch's log lines onto the stored ones. Values
// come back from JSON as []any; strings are accepted in either form.
func appendLogs(existing, added any) []any {
	out := toLines(existing)
	return append(out, toLines(added)...)
}

func toLines(v any) []any {
	switch lines := v.(type) {
	case nil:
		return nil
	case []any:
		return append([]any(nil), lines...)
	case []string:
		out := make([]any, 0, len(lines))
		for _, l := range lines {
			out = append(out, l)
		}
		return out
	default:
		return []any{v}
	}
}
