// Package core drives the optimization pipeline: it owns the job state
// machine and runs the stages in order, persisting at each boundary.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/matchiq/matchiq/internal/async"
	"github.com/matchiq/matchiq/internal/entity"
	"github.com/matchiq/matchiq/internal/keywords"
	"github.com/matchiq/matchiq/internal/llm"
	"github.com/matchiq/matchiq/internal/repository"
)

// Orchestrator submits jobs, schedules their background processing, and
// answers point lookups. One background task processes a given job id;
// failures are recorded on the job, never rethrown to a caller.
type Orchestrator struct {
	repo      repository.JobRepository
	generator llm.Generator
	queue     async.Queue
	logger    *slog.Logger
}

func NewOrchestrator(repo repository.JobRepository, generator llm.Generator, queue async.Queue, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		repo:      repo,
		generator: generator,
		queue:     queue,
		logger:    logger,
	}
}

// SetQueue wires the scheduling queue after construction. The worker pool
// needs the orchestrator's Process, so wiring happens in two steps.
func (o *Orchestrator) SetQueue(q async.Queue) { o.queue = q }

// Submit persists a new PENDING job, schedules its background processing,
// and returns immediately. Input validation is the caller's concern.
func (o *Orchestrator) Submit(ctx context.Context, resumeText, jobDescription string) (*entity.OptimizationJob, error) {
	now := time.Now().UTC()
	job := &entity.OptimizationJob{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		Status:         entity.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	saved, err := o.repo.Save(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}
	o.logger.Info("orchestrator.submit", "job_id", saved.ID,
		"resume_len", len(resumeText), "description_len", len(jobDescription))

	if o.queue != nil {
		if err := o.queue.Enqueue(ctx, async.Job{JobID: saved.ID, SubmittedAt: now}); err != nil {
			o.logger.Error("orchestrator.schedule_failed", "job_id", saved.ID, "error", err)
		}
	}
	return saved, nil
}

// GetByID is a pure read; it never mutates status.
func (o *Orchestrator) GetByID(ctx context.Context, id uuid.UUID) (*entity.OptimizationJob, error) {
	return o.repo.FindByID(ctx, id)
}

// Process is the background task body. It loads the job, marks it
// PROCESSING, runs extraction, scoring, and the two generation stages in
// strict order, and persists a terminal COMPLETED or FAILED record. The
// returned error exists for worker logging only; every pipeline failure is
// already recorded on the job before Process returns.
func (o *Orchestrator) Process(ctx context.Context, id uuid.UUID) error {
	o.logger.Info("orchestrator.process.start", "job_id", id)

	job, err := o.repo.FindByID(ctx, id)
	if err != nil {
		// The id was persisted by Submit, so this is a programming error or
		// a lost store; there is no job record to mark failed.
		return fmt.Errorf("load job %s: %w", id, err)
	}

	job.Status = entity.StatusProcessing
	if _, err := o.repo.Save(ctx, job); err != nil {
		return fmt.Errorf("mark job %s processing: %w", id, err)
	}

	if err := o.runStages(ctx, job); err != nil {
		return o.fail(ctx, job, err)
	}

	job.Status = entity.StatusCompleted
	job.UpdatedAt = time.Now().UTC()
	if _, err := o.repo.Save(ctx, job); err != nil {
		return fmt.Errorf("persist completed job %s: %w", id, err)
	}
	o.logger.Info("orchestrator.process.completed", "job_id", id,
		"keywords", len(job.ExtractedKeywords), "ats_score", *job.ATSScore)
	return nil
}

// runStages mutates the in-memory job step by step. Each stage reports an
// explicit error; the first failure stops the pipeline.
func (o *Orchestrator) runStages(ctx context.Context, job *entity.OptimizationJob) error {
	kws := keywords.Extract(job.JobDescription)
	job.ExtractedKeywords = kws
	o.logger.Info("orchestrator.stage.keywords", "job_id", job.ID, "count", len(kws))

	score := keywords.Score(job.ResumeText, kws)
	job.ATSScore = &score
	o.logger.Info("orchestrator.stage.score", "job_id", job.ID, "ats_score", score)

	bullets, err := o.generator.GenerateBullets(ctx, job.ResumeText, job.JobDescription, kws)
	if err != nil {
		return fmt.Errorf("generate bullet points: %w", err)
	}
	job.OptimizedBulletPoints = &bullets
	o.logger.Info("orchestrator.stage.bullets", "job_id", job.ID, "length", len(bullets))

	cover, err := o.generator.GenerateCoverLetter(ctx, job.ResumeText, job.JobDescription, kws)
	if err != nil {
		return fmt.Errorf("generate cover letter: %w", err)
	}
	job.TailoredCoverLetter = &cover
	o.logger.Info("orchestrator.stage.cover_letter", "job_id", job.ID, "length", len(cover))
	return nil
}

// fail records the terminal FAILED state. Fields set by stages that ran
// before the failure stay on the record, but the job is marked failed and
// callers must check status before trusting results.
func (o *Orchestrator) fail(ctx context.Context, job *entity.OptimizationJob, cause error) error {
	o.logger.Error("orchestrator.process.failed", "job_id", job.ID, "error", cause)

	msg := cause.Error()
	job.Status = entity.StatusFailed
	job.ErrorMessage = &msg
	job.UpdatedAt = time.Now().UTC()
	if _, err := o.repo.Save(ctx, job); err != nil {
		o.logger.Error("orchestrator.process.fail_persist_error", "job_id", job.ID, "error", err)
	}
	return cause
}
