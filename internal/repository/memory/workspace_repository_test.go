package memory

import (
	"testing"
	"time"

	"quality-review-be/pkg/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceRepository(t *testing.T) {
	repo := NewWorkspaceRepository(time.Minute)
	ws := review.NewWorkspace("ws-1", "rev", review.Hydration{SessionId: 3}, nil, nil, time.Now())

	repo.Save(ws)
	got, ok := repo.Get("ws-1")
	require.True(t, ok)
	assert.Same(t, ws, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete("ws-1")
	repo.Delete("ws-1")
	_, ok = repo.Get("ws-1")
	assert.False(t, ok)
}

func TestWorkspaceRepositoryExpires(t *testing.T) {
	repo := NewWorkspaceRepository(20 * time.Millisecond)
	repo.Save(review.NewWorkspace("ws-2", "rev", review.Hydration{SessionId: 3}, nil, nil, time.Now()))

	time.Sleep(40 * time.Millisecond)

	_, ok := repo.Get("ws-2")
	assert.False(t, ok)
}
