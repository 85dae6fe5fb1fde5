package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rrt-planner/planner"
)

// previewWaypoints is how many waypoints are logged at each end of a path
const previewWaypoints = 3

// PlanResponse is the reply to POST /plan
type PlanResponse struct {
	ID         string        `json:"id,omitempty"`
	Algorithm  string        `json:"algorithm"`
	Path       planner.Path  `json:"path"`
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Length     float64       `json:"length,omitempty"`
	Iterations int           `json:"iterations"`
	Stats      planner.Stats `json:"stats"`
}

// Server serves planning requests and stored runs over HTTP
type Server struct {
	planner *planner.Planner
	store   *RunStore
	logger  *slog.Logger
}

// NewServer creates a server backed by the given planner and store
func NewServer(p *planner.Planner, store *RunStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{planner: p, store: store, logger: logger}
}

// Router builds the gin engine with every endpoint registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware())

	r.POST("/plan", s.handlePlan)
	r.GET("/runs/:id", s.handleGetRun)
	r.GET("/runs/:id/lines", s.handleRunLines)
	r.GET("/runs/:id/geojson", s.handleRunGeoJSON)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// POST /plan - Run a planner and store the result
func (s *Server) handlePlan(c *gin.Context) {
	logger := s.logger.With(slog.String("handler", "plan"))

	// an omitted obstacle list keeps the demo field, an empty one clears it
	cfg := planner.DefaultConfig(planner.AlgorithmRRT)
	cfg.Obstacles = nil
	if err := c.ShouldBindJSON(&cfg); err != nil {
		logger.Warn("Invalid request body", slog.Any("error", err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if cfg.Obstacles == nil {
		cfg.Obstacles = planner.DefaultObstacles()
	}

	logger.Info("Plan request received",
		slog.String("algorithm", string(cfg.Algorithm)),
		slog.Any("start", cfg.Start),
		slog.Any("goal", cfg.Goal),
		slog.Int("obstacles", len(cfg.Obstacles)),
	)

	result, err := s.planner.Plan(c.Request.Context(), cfg)
	if err != nil {
		if errors.Is(err, planner.ErrInvalidConfig) {
			logger.Warn("Rejected configuration", slog.Any("error", err))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		logger.Error("Planning failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "planning failed"})
		return
	}

	record := NewRunRecord(cfg, result)
	if err := s.store.Save(c.Request.Context(), record); err != nil {
		logger.Error("Failed to store run", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store run"})
		return
	}

	response := PlanResponse{
		ID:         record.ID,
		Algorithm:  string(result.Algorithm),
		Path:       result.Path,
		Success:    result.Found,
		Iterations: result.Iterations,
		Stats:      result.Stats,
	}
	if result.Found {
		response.Length = result.Path.Length()
		logger.Info("Path found",
			slog.String("id", record.ID),
			slog.Int("waypoints", len(result.Path)),
			slog.Float64("length", response.Length),
		)
		logWaypointPreview(logger, result.Path)
	} else {
		response.Message = "No path found within the iteration budget"
		logger.Info("No path found", slog.String("id", record.ID), slog.Int("iterations", result.Iterations))
	}

	c.JSON(http.StatusOK, response)
}

// GET /runs/:id - Fetch a stored run
func (s *Server) handleGetRun(c *gin.Context) {
	record, ok := s.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// GET /runs/:id/lines - Tree edges as line strings for visualization
func (s *Server) handleRunLines(c *gin.Context) {
	record, ok := s.loadRun(c)
	if !ok {
		return
	}

	lines, err := record.TreeLines()
	if err != nil {
		s.logger.Error("Stored run has a malformed tree", slog.String("id", record.ID), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "malformed run"})
		return
	}
	s.logger.Debug("Returning tree lines", slog.String("id", record.ID), slog.Int("lines", len(lines)))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"lines":    lines,
		"numTrees": len(record.Trees),
		"numEdges": len(lines),
	})
}

// GET /runs/:id/geojson - The run as a GeoJSON FeatureCollection
func (s *Server) handleRunGeoJSON(c *gin.Context) {
	record, ok := s.loadRun(c)
	if !ok {
		return
	}

	fc, err := RunFeatureCollection(record)
	if err != nil {
		s.logger.Error("Stored run has a malformed tree", slog.String("id", record.ID), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "malformed run"})
		return
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		s.logger.Error("Failed to encode run", slog.String("id", record.ID), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to encode run"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

// GET /health - Health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	runs, err := s.store.Count(c.Request.Context())
	if err != nil {
		s.logger.Error("Run store unavailable", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "runs": runs})
}

// logWaypointPreview logs the first and last few waypoints of a path
func logWaypointPreview(logger *slog.Logger, path planner.Path) {
	for i, p := range path {
		if i >= previewWaypoints && i < len(path)-previewWaypoints {
			if i == previewWaypoints {
				logger.Info("Intermediate waypoints", slog.Int("count", len(path)-2*previewWaypoints))
			}
			continue
		}
		logger.Info("Waypoint", slog.Int("index", i), slog.Float64("x", p.X), slog.Float64("y", p.Y))
	}
}

func (s *Server) loadRun(c *gin.Context) (*RunRecord, bool) {
	id := c.Param("id")
	record, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "run not found"})
		return nil, false
	}
	if err != nil {
		s.logger.Error("Failed to load run", slog.String("id", id), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load run"})
		return nil, false
	}
	return record, true
}
