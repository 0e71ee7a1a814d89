package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanup-ventures/internal/models"
)

func TestTaskLifecycle(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	task, err := s.tasks.Create(ctx, venture.ID, "Rake the north lawn", "", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusOpen, task.Status)

	task, err = s.tasks.Complete(ctx, venture.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, task.Status)
	require.NotNil(t, task.CompletedAt)
	completedAt := *task.CompletedAt

	// Completing again changes nothing.
	task, err = s.tasks.Complete(ctx, venture.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, completedAt, *task.CompletedAt)

	tasks, err := s.tasks.List(ctx, venture.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestNoNewTasksOnFinishedVenture(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()
	venture := createVenture(t, s, "owner")

	_, err := s.ventures.UpdateStatus(ctx, venture.ID, models.VentureStatusOngoing)
	require.NoError(t, err)
	_, err = s.ventures.UpdateStatus(ctx, venture.ID, models.VentureStatusFinished)
	require.NoError(t, err)

	_, err = s.tasks.Create(ctx, venture.ID, "Too late", "", "")
	assert.ErrorIs(t, err, ErrVentureFinished)
}
