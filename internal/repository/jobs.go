// Package repository persists optimization jobs. The pipeline consumes it
// through the two-method get/save contract; List exists for the export and
// listing surfaces.
package repository

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/entity"
)

// JobRepository is durable keyed storage for optimization jobs. Save assigns
// an id on first save and upserts afterwards; a saved record must be visible
// to an immediately following FindByID.
type JobRepository interface {
	Save(ctx context.Context, job *entity.OptimizationJob) (*entity.OptimizationJob, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.OptimizationJob, error)
	List(ctx context.Context) ([]*entity.OptimizationJob, error)
	Close() error
}

// MemoryRepository keeps jobs in process memory. Used by tests and dev mode.
type MemoryRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]entity.OptimizationJob
	log  *slog.Logger
}

func NewMemoryRepository(logger *slog.Logger) *MemoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryRepository{
		jobs: make(map[uuid.UUID]entity.OptimizationJob),
		log:  logger,
	}
}

func (r *MemoryRepository) Save(_ context.Context, job *entity.OptimizationJob) (*entity.OptimizationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
		if job.CreatedAt.IsZero() {
			job.CreatedAt = now
		}
	}
	job.UpdatedAt = now

	stored := cloneJob(job)
	r.jobs[job.ID] = *stored
	return cloneJob(stored), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.OptimizationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, common.NotFoundErrorf("optimization job %s", id)
	}
	return cloneJob(&job), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*entity.OptimizationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.OptimizationJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, cloneJob(&job))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) Close() error { return nil }

// cloneJob copies a job so callers never share slices or pointers with the
// stored record.
func cloneJob(job *entity.OptimizationJob) *entity.OptimizationJob {
	cp := *job
	if job.ExtractedKeywords != nil {
		cp.ExtractedKeywords = append([]string(nil), job.ExtractedKeywords...)
	}
	cp.ATSScore = cloneIntPtr(job.ATSScore)
	cp.OptimizedBulletPoints = cloneStrPtr(job.OptimizedBulletPoints)
	cp.TailoredCoverLetter = cloneStrPtr(job.TailoredCoverLetter)
	cp.ErrorMessage = cloneStrPtr(job.ErrorMessage)
	return &cp
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
