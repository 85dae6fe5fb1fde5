package main

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrt-planner/planner"
)

func featuresByKind(fc *geojson.FeatureCollection) map[string][]*geojson.Feature {
	kinds := make(map[string][]*geojson.Feature)
	for _, f := range fc.Features {
		kind := f.Properties.MustString("kind", "")
		kinds[kind] = append(kinds[kind], f)
	}
	return kinds
}

func TestRunFeatureCollection_FoundPath(t *testing.T) {
	cfg := planner.DefaultConfig(planner.AlgorithmBiRRT)
	cfg.Obstacles = []planner.Obstacle{}
	cfg.MaxIterations = 40
	cfg.Seed = 5

	result, err := planner.New().Plan(context.Background(), cfg)
	require.NoError(t, err)
	require.True(t, result.Found)
	record := NewRunRecord(cfg, result)

	fc, err := RunFeatureCollection(record)
	require.NoError(t, err)
	kinds := featuresByKind(fc)
	assert.Empty(t, kinds[kindObstacle])
	assert.Len(t, kinds[kindStart], 1)
	assert.Len(t, kinds[kindGoal], 1)
	assert.Len(t, kinds[kindTree], 2)
	require.Len(t, kinds[kindPath], 1)

	path := kinds[kindPath][0]
	line, ok := path.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, len(result.Path))
	assert.Equal(t, pointToOrb(cfg.Start), line[0])
	assert.Equal(t, pointToOrb(cfg.Goal), line[len(line)-1])
	assert.InDelta(t, result.Path.Length(), path.Properties.MustFloat64("length", 0), 1e-12)

	trees := kinds[kindTree]
	for i, f := range trees {
		edges, ok := f.Geometry.(orb.MultiLineString)
		require.True(t, ok)
		assert.Len(t, edges, len(record.Trees[i])-1)
	}
}

func TestRunFeatureCollection_NoPath(t *testing.T) {
	blocker := planner.Obstacle{Center: planner.Point{X: 0.5, Y: 0.5}, Radius: 0.6}
	record := &RunRecord{
		ID: "blocked",
		Config: planner.Config{
			Algorithm: planner.AlgorithmRRT,
			Start:     planner.Point{X: 0, Y: 0},
			Goal:      planner.Point{X: 1, Y: 1},
			Obstacles: []planner.Obstacle{blocker},
		},
		Trees: [][]planner.Node{{{Point: planner.Point{X: 0, Y: 0}, Parent: planner.NoParent}}},
	}

	fc, err := RunFeatureCollection(record)
	require.NoError(t, err)
	kinds := featuresByKind(fc)
	assert.Empty(t, kinds[kindPath])
	require.Len(t, kinds[kindObstacle], 1)
	assert.Equal(t, 0.6, kinds[kindObstacle][0].Properties.MustFloat64(radiusProperty, 0))
	require.Len(t, kinds[kindTree], 1)
	assert.Empty(t, kinds[kindTree][0].Geometry.(orb.MultiLineString))
}

func TestRunFeatureCollection_ObstaclesRoundTripThroughLoader(t *testing.T) {
	cfg := planner.DefaultConfig(planner.AlgorithmRRT)
	fc, err := RunFeatureCollection(&RunRecord{Config: cfg})
	require.NoError(t, err)

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "run.geojson", string(data))

	obstacles, err := LoadObstacles(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Obstacles, obstacles)
}

func TestRunFeatureCollection_MalformedTree(t *testing.T) {
	record := &RunRecord{
		ID: "broken",
		Trees: [][]planner.Node{{
			{Point: planner.Point{X: 0.1, Y: 0.1}, Parent: planner.NoParent},
			{Point: planner.Point{X: 0.2, Y: 0.1}, Parent: 4, Depth: 1},
		}},
	}

	_, err := RunFeatureCollection(record)
	assert.ErrorIs(t, err, planner.ErrInvariant)
}
