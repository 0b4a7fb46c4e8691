package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/entity"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS optimization_jobs (
	id                      TEXT PRIMARY KEY,
	resume_text             TEXT NOT NULL,
	job_description         TEXT NOT NULL,
	status                  TEXT NOT NULL,
	extracted_keywords      TEXT NOT NULL DEFAULT '[]',
	ats_score               INTEGER,
	optimized_bullet_points TEXT,
	tailored_cover_letter   TEXT,
	error_message           TEXT,
	created_at              TIMESTAMP NOT NULL,
	updated_at              TIMESTAMP NOT NULL
)`

// SQLiteRepository stores jobs in a SQLite database. This is the default
// single-node store.
type SQLiteRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteRepository opens (or creates) the database at dbPath and ensures
// the optimization_jobs table exists.
func NewSQLiteRepository(dbPath string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating optimization_jobs table: %w", err)
	}
	logger.Info("sqlite job store ready", "path", dbPath)
	return &SQLiteRepository{db: db, log: logger}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, job *entity.OptimizationJob) (*entity.OptimizationJob, error) {
	now := time.Now().UTC()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
		if job.CreatedAt.IsZero() {
			job.CreatedAt = now
		}
	}
	job.UpdatedAt = now

	kws, err := json.Marshal(job.ExtractedKeywords)
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO optimization_jobs
		(id, resume_text, job_description, status, extracted_keywords,
		 ats_score, optimized_bullet_points, tailored_cover_letter,
		 error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 status = excluded.status,
		 extracted_keywords = excluded.extracted_keywords,
		 ats_score = excluded.ats_score,
		 optimized_bullet_points = excluded.optimized_bullet_points,
		 tailored_cover_letter = excluded.tailored_cover_letter,
		 error_message = excluded.error_message,
		 updated_at = excluded.updated_at`,
		job.ID.String(), job.ResumeText, job.JobDescription, string(job.Status), string(kws),
		nullableInt(job.ATSScore), nullableStr(job.OptimizedBulletPoints),
		nullableStr(job.TailoredCoverLetter), nullableStr(job.ErrorMessage),
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		r.log.Error("job save failed", "job_id", job.ID, "err", err)
		return nil, common.WrapError(err, "save optimization job")
	}
	return job, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OptimizationJob, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, resume_text, job_description, status,
		extracted_keywords, ats_score, optimized_bullet_points, tailored_cover_letter,
		error_message, created_at, updated_at
		FROM optimization_jobs WHERE id = ?`, id.String())
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NotFoundErrorf("optimization job %s", id)
	}
	if err != nil {
		return nil, common.WrapError(err, "find optimization job")
	}
	return job, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*entity.OptimizationJob, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, resume_text, job_description, status,
		extracted_keywords, ats_score, optimized_bullet_points, tailored_cover_letter,
		error_message, created_at, updated_at
		FROM optimization_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, common.WrapError(err, "list optimization jobs")
	}
	defer rows.Close()

	var out []*entity.OptimizationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan optimization job")
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Close() error { return r.db.Close() }

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.OptimizationJob, error) {
	var (
		job     entity.OptimizationJob
		idStr   string
		status  string
		kwsJSON string
		score   sql.NullInt64
		bullets sql.NullString
		cover   sql.NullString
		errMsg  sql.NullString
	)
	err := row.Scan(&idStr, &job.ResumeText, &job.JobDescription, &status, &kwsJSON,
		&score, &bullets, &cover, &errMsg, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	job.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse job id %q: %w", idStr, err)
	}
	job.Status = entity.Status(status)
	if kwsJSON != "" && kwsJSON != "null" {
		if err := json.Unmarshal([]byte(kwsJSON), &job.ExtractedKeywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	if score.Valid {
		v := int(score.Int64)
		job.ATSScore = &v
	}
	if bullets.Valid {
		job.OptimizedBulletPoints = &bullets.String
	}
	if cover.Valid {
		job.TailoredCoverLetter = &cover.String
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	return &job, nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
