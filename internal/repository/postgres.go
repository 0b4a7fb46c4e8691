package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/entity"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS optimization_jobs (
	id                      UUID PRIMARY KEY,
	resume_text             TEXT NOT NULL,
	job_description         TEXT NOT NULL,
	status                  TEXT NOT NULL,
	extracted_keywords      JSONB NOT NULL DEFAULT '[]',
	ats_score               INTEGER,
	optimized_bullet_points TEXT,
	tailored_cover_letter   TEXT,
	error_message           TEXT,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
)`

// PostgresRepository stores jobs in Postgres via a pgx pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresRepository creates the pool, verifies connectivity, and ensures
// the optimization_jobs table exists.
func NewPostgresRepository(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "matchiq"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating optimization_jobs table: %w", err)
	}
	logger.Info("successfully connected to database")
	return &PostgresRepository{pool: pool, log: logger}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, job *entity.OptimizationJob) (*entity.OptimizationJob, error) {
	now := time.Now().UTC()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
		if job.CreatedAt.IsZero() {
			job.CreatedAt = now
		}
	}
	job.UpdatedAt = now

	kws := job.ExtractedKeywords
	if kws == nil {
		kws = []string{}
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO optimization_jobs
		(id, resume_text, job_description, status, extracted_keywords,
		 ats_score, optimized_bullet_points, tailored_cover_letter,
		 error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
		 status = EXCLUDED.status,
		 extracted_keywords = EXCLUDED.extracted_keywords,
		 ats_score = EXCLUDED.ats_score,
		 optimized_bullet_points = EXCLUDED.optimized_bullet_points,
		 tailored_cover_letter = EXCLUDED.tailored_cover_letter,
		 error_message = EXCLUDED.error_message,
		 updated_at = EXCLUDED.updated_at`,
		job.ID, job.ResumeText, job.JobDescription, string(job.Status), kws,
		job.ATSScore, job.OptimizedBulletPoints, job.TailoredCoverLetter,
		job.ErrorMessage, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		r.log.Error("job save failed", "job_id", job.ID, "err", err)
		return nil, common.WrapError(err, "save optimization job")
	}
	return job, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OptimizationJob, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, resume_text, job_description, status,
		extracted_keywords, ats_score, optimized_bullet_points, tailored_cover_letter,
		error_message, created_at, updated_at
		FROM optimization_jobs WHERE id = $1`, id)
	job, err := scanPgJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFoundErrorf("optimization job %s", id)
	}
	if err != nil {
		return nil, common.WrapError(err, "find optimization job")
	}
	return job, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*entity.OptimizationJob, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, resume_text, job_description, status,
		extracted_keywords, ats_score, optimized_bullet_points, tailored_cover_letter,
		error_message, created_at, updated_at
		FROM optimization_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, common.WrapError(err, "list optimization jobs")
	}
	defer rows.Close()

	var out []*entity.OptimizationJob
	for rows.Next() {
		job, err := scanPgJob(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan optimization job")
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Ping verifies connectivity; used by the dbhealth binary.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanPgJob(row pgx.Row) (*entity.OptimizationJob, error) {
	var (
		job    entity.OptimizationJob
		status string
	)
	err := row.Scan(&job.ID, &job.ResumeText, &job.JobDescription, &status,
		&job.ExtractedKeywords, &job.ATSScore, &job.OptimizedBulletPoints,
		&job.TailoredCoverLetter, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.Status = entity.Status(status)
	return &job, nil
}
