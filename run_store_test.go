package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrt-planner/planner"
)

func newTestStore(t *testing.T) *RunStore {
	t.Helper()
	store, err := OpenRunStore("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func planDemo(t *testing.T, algorithm planner.Algorithm) (planner.Config, *planner.Result) {
	t.Helper()
	cfg := planner.DefaultConfig(algorithm)
	cfg.MaxIterations = 300
	cfg.Seed = 11

	result, err := planner.New().Plan(context.Background(), cfg)
	require.NoError(t, err)
	return cfg, result
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg, result := planDemo(t, planner.AlgorithmBiRRT)
	record := NewRunRecord(cfg, result)
	require.NotEmpty(t, record.ID)
	require.Len(t, record.Trees, 2)

	require.NoError(t, store.Save(ctx, record))

	loaded, err := store.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, loaded.ID)
	assert.True(t, record.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, record.Config, loaded.Config)
	assert.Equal(t, record.Found, loaded.Found)
	assert.Equal(t, record.Path, loaded.Path)
	assert.Equal(t, record.Connection, loaded.Connection)
	assert.Equal(t, record.Stats, loaded.Stats)
	assert.Equal(t, record.Trees, loaded.Trees)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunStore_GetUnknown(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunStore_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg, result := planDemo(t, planner.AlgorithmRRT)
	assert.ErrorIs(t, store.Save(ctx, NewRunRecord(cfg, result)), context.Canceled)
}

func TestRunRecord_TreeLines(t *testing.T) {
	cfg, result := planDemo(t, planner.AlgorithmBiRRT)
	record := NewRunRecord(cfg, result)

	edges := 0
	for _, nodes := range record.Trees {
		edges += len(nodes) - 1
	}

	lines, err := record.TreeLines()
	require.NoError(t, err)
	require.Len(t, lines, edges)
	for _, line := range lines {
		require.Len(t, line, 2)
		assert.InDelta(t, cfg.Delta, line[0].Distance(line[1]), 1e-9)
	}

	trees, err := record.TreeEdges()
	require.NoError(t, err)
	require.Len(t, trees, len(result.Trees))
	for i, tree := range result.Trees {
		assert.Equal(t, tree.Edges(), trees[i])
	}
}
