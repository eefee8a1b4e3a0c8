package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/reelmint/api/internal/model"
	"github.com/reelmint/api/internal/registry"
)

// ValidationError is a client-caused submission error. No record is created
// and no process is spawned when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// VideoService accepts video generation jobs: it validates the submission,
// records a queued job, and hands the long-running work to a detached worker
// process so the request never blocks on rendering.
type VideoService struct {
	registry      *registry.Registry
	workerCommand string
	workerArgs    []string
}

func NewVideoService(reg *registry.Registry, workerCommand string, workerArgs []string) *VideoService {
	return &VideoService{
		registry:      reg,
		workerCommand: workerCommand,
		workerArgs:    workerArgs,
	}
}

// Submit validates the request, creates the queued job record, and launches
// the worker. It returns as soon as the record is written; the worker reports
// its progress out of band through the job registry.
//
// A worker that fails to launch is logged and noted on the record, but the
// submission still succeeds: the job stays discoverable in "queued" until
// operational tooling picks it up. There is no cancellation path once the
// worker is running.
func (s *VideoService) Submit(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, &ValidationError{Message: "topic must be a non-empty string"}
	}
	if req.StageID != int(model.StageVideoGeneration) {
		return nil, &ValidationError{Message: fmt.Sprintf(
			"stage %d does not accept job submissions: only video generation (stage %d) is supported",
			req.StageID, model.StageVideoGeneration)}
	}

	jobID := newJobID()
	job := &model.JobRecord{
		ID:        jobID,
		Status:    model.JobStatusQueued,
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Logs:      []string{"job accepted: " + topic},
	}
	if _, err := s.registry.Create(job); err != nil {
		return nil, fmt.Errorf("create job record: %w", err)
	}

	if err := s.spawnWorker(jobID); err != nil {
		log.Printf("Warning: worker for job %s could not be started: %v", jobID, err)
		if logErr := s.registry.AppendLog(jobID, "worker process could not be started: "+err.Error()); logErr != nil {
			log.Printf("Warning: failed to record spawn failure on job %s: %v", jobID, logErr)
		}
	}

	return &model.GenerateResponse{OK: true, JobID: jobID}, nil
}

// Status returns the current record for polling.
func (s *VideoService) Status(jobID string) (*model.JobRecord, error) {
	return s.registry.Get(jobID)
}

// spawnWorker starts the worker in its own session with stdio disconnected,
// then releases the process handle. The job id travels through the
// environment so concurrent submissions cannot trample each other's ids.
func (s *VideoService) spawnWorker(jobID string) error {
	cmd := exec.Command(s.workerCommand, s.workerArgs...)
	cmd.Env = append(os.Environ(), "VIDEO_JOB_ID="+jobID)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// newJobID builds a job id from the submission time plus a random suffix,
// e.g. "video-1718901234567-3f9a01bc".
func newJobID() string {
	return fmt.Sprintf("video-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
