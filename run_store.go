package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"rrt-planner/planner"
)

const runKeyPrefix = "run/"

// ErrRunNotFound is returned for unknown run IDs
var ErrRunNotFound = errors.New("run not found")

// RunRecord is a stored planning run
type RunRecord struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"createdAt"`
	Config     planner.Config      `json:"config"`
	Found      bool                `json:"found"`
	Path       planner.Path        `json:"path"`
	Iterations int                 `json:"iterations"`
	Connection *planner.Connection `json:"connection,omitempty"`
	Stats      planner.Stats       `json:"stats"`
	Trees      [][]planner.Node    `json:"trees"`
}

// NewRunRecord captures a finished run under a fresh ID
func NewRunRecord(cfg planner.Config, result *planner.Result) *RunRecord {
	trees := make([][]planner.Node, 0, len(result.Trees))
	for _, tree := range result.Trees {
		trees = append(trees, tree.Nodes())
	}

	return &RunRecord{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Config:     cfg,
		Found:      result.Found,
		Path:       result.Path,
		Iterations: result.Iterations,
		Connection: result.Connection,
		Stats:      result.Stats,
		Trees:      trees,
	}
}

// TreeEdges rebuilds the stored trees and returns the edges of each
func (r *RunRecord) TreeEdges() ([][]planner.LineSegment, error) {
	edges := make([][]planner.LineSegment, 0, len(r.Trees))
	for i, nodes := range r.Trees {
		tree, err := planner.TreeFromNodes(nodes)
		if err != nil {
			return nil, fmt.Errorf("run %s tree %d: %w", r.ID, i, err)
		}
		edges = append(edges, tree.Edges())
	}
	return edges, nil
}

// TreeLines returns every tree edge as a two-point line for visualization
func (r *RunRecord) TreeLines() ([][]planner.Point, error) {
	edges, err := r.TreeEdges()
	if err != nil {
		return nil, err
	}

	lines := make([][]planner.Point, 0)
	for _, tree := range edges {
		for _, edge := range tree {
			lines = append(lines, []planner.Point{edge.P1, edge.P2})
		}
	}
	return lines, nil
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// RunStore persists planning runs in BadgerDB
type RunStore struct {
	db *badger.DB
}

// OpenRunStore opens the store at dir, or in memory when dir is empty
func OpenRunStore(dir string, logger *slog.Logger) (*RunStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}

	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	return &RunStore{db: db}, nil
}

// Close releases the database
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Save serializes and stores a run
func (s *RunStore) Save(ctx context.Context, record *RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(record.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store run %s: %w", record.ID, err)
	}
	return nil
}

// Get loads a stored run
func (s *RunStore) Get(ctx context.Context, id string) (*RunRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRunNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		if errors.Is(err, ErrRunNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &record, nil
}

// Count returns the number of stored runs
func (s *RunStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func runKey(id string) []byte {
	return []byte(runKeyPrefix + id)
}
