package uow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitCounter = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "uow_commits_total",
			Help: "Number of unit of work commits, differentiated by result.",
		},
		[]string{"result"},
	)

	commitDuration = promauto.NewHistogram( //nolint:gochecknoglobals
		prometheus.HistogramOpts{
			Name:    "uow_commit_duration_seconds",
			Help:    "Duration of unit of work commits including the database transaction.",
			Buckets: prometheus.DefBuckets,
		},
	)

	stagedChanges = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "uow_flushed_changes_total",
			Help: "Number of entity changes written by successful commits, differentiated by kind.",
		},
		[]string{"kind"},
	)
)
