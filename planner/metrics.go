package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// planTotal counts plans by algorithm and result
	planTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rrt_plan_total",
		Help: "Total planning runs by algorithm and result",
	}, []string{"algorithm", "result"})

	// planDuration tracks planning latency
	planDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rrt_plan_duration_seconds",
		Help:    "Planning run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	}, []string{"algorithm"})

	// treeNodes tracks the size of grown trees
	treeNodes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rrt_tree_nodes",
		Help:    "Number of nodes per grown tree",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
	}, []string{"algorithm"})

	// connectorPairs counts cross-tree pairs given a collision test
	connectorPairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rrt_connector_pairs_tested_total",
		Help: "Total cross-tree node pairs tested by the connector",
	})
)

func recordPlan(algorithm Algorithm, result *Result, seconds float64) {
	outcome := "no_path"
	if result.Found {
		outcome = "found"
	}
	planTotal.WithLabelValues(string(algorithm), outcome).Inc()
	planDuration.WithLabelValues(string(algorithm)).Observe(seconds)
	for _, tree := range result.Trees {
		treeNodes.WithLabelValues(string(algorithm)).Observe(float64(tree.Len()))
	}
	connectorPairs.Add(float64(result.Stats.PairsTested))
}
