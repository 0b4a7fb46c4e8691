package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemorySaveAssignsID(t *testing.T) {
	repo := NewMemoryRepository(testLogger())
	ctx := context.Background()

	job := &entity.OptimizationJob{
		ResumeText:     "resume",
		JobDescription: "job",
		Status:         entity.StatusPending,
	}
	saved, err := repo.Save(ctx, job)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())
}

func TestMemorySaveUpserts(t *testing.T) {
	repo := NewMemoryRepository(testLogger())
	ctx := context.Background()

	saved, err := repo.Save(ctx, &entity.OptimizationJob{Status: entity.StatusPending})
	require.NoError(t, err)
	firstUpdate := saved.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	saved.Status = entity.StatusProcessing
	again, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Equal(t, entity.StatusProcessing, again.Status)
	assert.True(t, again.UpdatedAt.After(firstUpdate))

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessing, found.Status)
}

func TestMemoryFindByIDNotFound(t *testing.T) {
	repo := NewMemoryRepository(testLogger())
	_, err := repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestMemoryFindReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository(testLogger())
	ctx := context.Background()

	score := 80
	saved, err := repo.Save(ctx, &entity.OptimizationJob{
		Status:            entity.StatusCompleted,
		ExtractedKeywords: []string{"go", "sql"},
		ATSScore:          &score,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	found.ExtractedKeywords[0] = "mutated"
	*found.ATSScore = 0

	fresh, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, fresh.ExtractedKeywords)
	assert.Equal(t, 80, *fresh.ATSScore)
}

func TestMemoryListNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(testLogger())
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
