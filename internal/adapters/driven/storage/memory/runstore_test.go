package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/failcast/internal/core/domain"
)

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := domain.Run{ID: "r1", Rows: 5, Status: domain.RunSucceeded}
	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, run, *got)

	// Returned runs are copies
	got.Rows = 99
	again, _ := store.Get(ctx, "r1")
	assert.Equal(t, 5, again.Rows)
}

func TestRunStore_GetNotFound(t *testing.T) {
	_, err := NewRunStore().Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, store.Save(ctx, domain.Run{ID: "mid", StartedAt: base.Add(time.Minute)}))
	require.NoError(t, store.Save(ctx, domain.Run{ID: "old", StartedAt: base}))
	require.NoError(t, store.Save(ctx, domain.Run{ID: "new", StartedAt: base.Add(time.Hour)}))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
	assert.Equal(t, "old", runs[2].ID)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunStore_ListSameStartUsesInsertOrder(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, domain.Run{ID: "first", StartedAt: now}))
	require.NoError(t, store.Save(ctx, domain.Run{ID: "second", StartedAt: now}))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "second", runs[0].ID)
}

func TestRunStore_Prune(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, domain.Run{ID: id, StartedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	removed, err := store.Prune(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	runs, _ := store.List(ctx, 0)
	require.Len(t, runs, 1)
	assert.Equal(t, "c", runs[0].ID)

	removed, err = store.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
