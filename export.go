package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature kinds used in exported collections
const (
	kindObstacle = "obstacle"
	kindStart    = "start"
	kindGoal     = "goal"
	kindTree     = "tree"
	kindPath     = "path"
)

// RunFeatureCollection renders a run as GeoJSON: obstacles as points with a
// radius, start and goal, one MultiLineString per tree and the path as a
// LineString when one was found.
func RunFeatureCollection(record *RunRecord) (*geojson.FeatureCollection, error) {
	trees, err := record.TreeEdges()
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()

	for _, o := range record.Config.Obstacles {
		f := geojson.NewFeature(pointToOrb(o.Center))
		f.Properties["kind"] = kindObstacle
		f.Properties[radiusProperty] = o.Radius
		fc.Append(f)
	}

	start := geojson.NewFeature(pointToOrb(record.Config.Start))
	start.Properties["kind"] = kindStart
	fc.Append(start)

	goal := geojson.NewFeature(pointToOrb(record.Config.Goal))
	goal.Properties["kind"] = kindGoal
	fc.Append(goal)

	for i, tree := range trees {
		edges := make(orb.MultiLineString, 0, len(tree))
		for _, edge := range tree {
			edges = append(edges, orb.LineString{pointToOrb(edge.P1), pointToOrb(edge.P2)})
		}

		f := geojson.NewFeature(edges)
		f.Properties["kind"] = kindTree
		f.Properties["tree"] = i
		f.Properties["nodes"] = len(record.Trees[i])
		fc.Append(f)
	}

	if record.Found {
		line := make(orb.LineString, 0, len(record.Path))
		for _, p := range record.Path {
			line = append(line, pointToOrb(p))
		}

		f := geojson.NewFeature(line)
		f.Properties["kind"] = kindPath
		f.Properties["id"] = record.ID
		f.Properties["length"] = record.Path.Length()
		f.Properties["waypoints"] = len(record.Path)
		fc.Append(f)
	}

	return fc, nil
}
