package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/entity"
)

func newTestSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "jobs.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteSaveAndFind(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &entity.OptimizationJob{
		ResumeText:     "resume body",
		JobDescription: "job body",
		Status:         entity.StatusPending,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, saved.ID)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, "resume body", found.ResumeText)
	assert.Equal(t, "job body", found.JobDescription)
	assert.Equal(t, entity.StatusPending, found.Status)
	assert.Nil(t, found.ATSScore)
	assert.Nil(t, found.OptimizedBulletPoints)
	assert.Nil(t, found.ErrorMessage)
	assert.WithinDuration(t, time.Now().UTC(), found.CreatedAt, 5*time.Second)
}

func TestSQLiteUpsertFullLifecycle(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, &entity.OptimizationJob{
		ResumeText:     "resume",
		JobDescription: "job",
		Status:         entity.StatusPending,
	})
	require.NoError(t, err)

	score := 75
	bullets := "- bullet one\n- bullet two"
	cover := "Dear Hiring Manager,"
	saved.Status = entity.StatusCompleted
	saved.ExtractedKeywords = []string{"java", "spring boot", "aws"}
	saved.ATSScore = &score
	saved.OptimizedBulletPoints = &bullets
	saved.TailoredCoverLetter = &cover
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, found.Status)
	assert.Equal(t, []string{"java", "spring boot", "aws"}, found.ExtractedKeywords)
	require.NotNil(t, found.ATSScore)
	assert.Equal(t, 75, *found.ATSScore)
	require.NotNil(t, found.OptimizedBulletPoints)
	assert.Equal(t, bullets, *found.OptimizedBulletPoints)
	require.NotNil(t, found.TailoredCoverLetter)
	assert.Equal(t, cover, *found.TailoredCoverLetter)
	assert.Nil(t, found.ErrorMessage)
}

func TestSQLiteFailedJobRoundTrip(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	msg := "generate bullet points: provider unavailable"
	saved, err := repo.Save(ctx, &entity.OptimizationJob{
		ResumeText:     "resume",
		JobDescription: "job",
		Status:         entity.StatusFailed,
		ErrorMessage:   &msg,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, found.Status)
	require.NotNil(t, found.ErrorMessage)
	assert.Equal(t, msg, *found.ErrorMessage)
}

func TestSQLiteFindByIDNotFound(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLiteListNewestFirst(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	older, err := repo.Save(ctx, &entity.OptimizationJob{
		Status:    entity.StatusCompleted,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)
	newer, err := repo.Save(ctx, &entity.OptimizationJob{Status: entity.StatusPending})
	require.NoError(t, err)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, newer.ID, jobs[0].ID)
	assert.Equal(t, older.ID, jobs[1].ID)
}
