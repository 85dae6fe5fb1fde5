package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"rrt-planner/planner"
)

// radiusProperty is the feature property holding an obstacle's radius
const radiusProperty = "radius"

// LoadObstacles reads obstacles from a GeoJSON file, or from every
// *.geojson file in a directory
func LoadObstacles(path string) ([]planner.Obstacle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return loadObstacleFile(path)
	}

	files, err := filepath.Glob(filepath.Join(path, "*.geojson"))
	if err != nil {
		return nil, err
	}

	slog.Info("Loading obstacles", slog.Int("files", len(files)), slog.String("dir", path))

	var all []planner.Obstacle
	for _, file := range files {
		obstacles, err := loadObstacleFile(file)
		if err != nil {
			slog.Warn("Failed to load obstacle file", slog.String("file", file), slog.Any("error", err))
			continue
		}
		all = append(all, obstacles...)
	}

	slog.Info("Total obstacles loaded", slog.Int("obstacles", len(all)))
	return all, nil
}

func loadObstacleFile(path string) ([]planner.Obstacle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var obstacles []planner.Obstacle
	for i, feature := range fc.Features {
		parsed, err := parseObstacleFeature(feature)
		if err != nil {
			return nil, fmt.Errorf("%s feature %d: %w", filepath.Base(path), i, err)
		}
		obstacles = append(obstacles, parsed...)
	}

	slog.Debug("Loaded obstacles", slog.Int("obstacles", len(obstacles)), slog.String("file", filepath.Base(path)))
	return obstacles, nil
}

// parseObstacleFeature converts a Point or MultiPoint feature carrying a
// radius property into obstacles. Other geometries are skipped, as are the
// non-obstacle features of an exported run.
func parseObstacleFeature(feature *geojson.Feature) ([]planner.Obstacle, error) {
	if kind, ok := feature.Properties["kind"].(string); ok && kind != kindObstacle {
		return nil, nil
	}

	var centers []orb.Point
	switch g := feature.Geometry.(type) {
	case orb.Point:
		centers = []orb.Point{g}
	case orb.MultiPoint:
		centers = g
	case nil:
		return nil, nil
	default:
		slog.Warn("Skipping unsupported obstacle geometry", slog.String("type", feature.Geometry.GeoJSONType()))
		return nil, nil
	}

	radius := feature.Properties.MustFloat64(radiusProperty, 0)
	if !(radius > 0) {
		return nil, fmt.Errorf("missing or non-positive %q property", radiusProperty)
	}

	obstacles := make([]planner.Obstacle, 0, len(centers))
	for _, c := range centers {
		obstacles = append(obstacles, planner.Obstacle{
			Center: pointFromOrb(c),
			Radius: radius,
		})
	}
	return obstacles, nil
}

func pointFromOrb(p orb.Point) planner.Point {
	return planner.Point{X: p.X(), Y: p.Y()}
}

func pointToOrb(p planner.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}
