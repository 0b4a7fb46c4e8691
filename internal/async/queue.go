// Package async hands optimization jobs off to background workers so the
// submission path never blocks on pipeline work.
package async

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is the unit scheduled for background processing.
type Job struct {
	JobID       uuid.UUID
	SubmittedAt time.Time
}

// Queue schedules jobs for processing. Enqueue must return quickly; Shutdown
// drains in-flight work.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// ProcessFunc runs the pipeline for one job id. It is expected to record
// failures on the job itself; the returned error is for logging only.
type ProcessFunc func(ctx context.Context, jobID uuid.UUID) error
