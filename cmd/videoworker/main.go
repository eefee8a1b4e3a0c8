// videoworker is the reference worker for the video pipeline. The dispatcher
// starts it detached with the job id in VIDEO_JOB_ID; it locates the shared
// state file through the same configuration the server uses and reports all
// progress through the job registry. Its stdout and stderr are not observed
// by anyone.
//
// The rendering steps below are placeholders for the real provider calls
// (text-to-video, avatar lip-sync, asset upload); the orchestrator only cares
// about the status transitions and log lines this process writes.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/reelmint/api/internal/config"
	"github.com/reelmint/api/internal/registry"
	"github.com/reelmint/api/internal/state"
)

func main() {
	_ = godotenv.Load()

	jobID := os.Getenv("VIDEO_JOB_ID")
	if jobID == "" {
		log.Fatal("VIDEO_JOB_ID is not set")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store := state.NewStore(cfg.State.Path)
	reg := registry.New(store)

	job, err := reg.Get(jobID)
	if err != nil {
		log.Fatalf("Job %s not readable: %v", jobID, err)
	}

	topic := ""
	if job.Request != nil {
		topic = job.Request.Topic
	}
	log.Printf("Starting video job %s (topic: %q)", jobID, topic)

	if err := reg.SetStatus(jobID, "running", "worker started"); err != nil {
		log.Fatalf("Failed to mark job running: %v", err)
	}

	steps := []struct {
		name     string
		duration time.Duration
	}{
		{"writing video script", 2 * time.Second},
		{"composing scene plan", 1 * time.Second},
		{"rendering video", 5 * time.Second},
		{"uploading video asset", 2 * time.Second},
	}

	for i, step := range steps {
		line := fmt.Sprintf("step %d/%d: %s", i+1, len(steps), step.name)
		if err := reg.AppendLog(jobID, line); err != nil {
			failJob(reg, jobID, "progress update failed: "+err.Error())
		}
		time.Sleep(step.duration)
	}

	result := map[string]any{
		"videoUrl":        fmt.Sprintf("https://cdn.reelmint.io/videos/%s.mp4", jobID),
		"durationSeconds": 30,
	}
	if err := reg.Complete(jobID, result); err != nil {
		failJob(reg, jobID, "failed to save result: "+err.Error())
	}

	log.Printf("Video job %s completed", jobID)
}

func failJob(reg *registry.Registry, jobID, message string) {
	if err := reg.Fail(jobID, message); err != nil {
		log.Printf("Failed to mark job %s as failed: %v", jobID, err)
	}
	log.Fatalf("Video job %s failed: %s", jobID, message)
}
