package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ambitionsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ambitions_records_added_total",
		Help: "Total number of ambitions appended through the submission form or API",
	})
	collectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ambitions_collection_size",
		Help: "Number of ambitions currently held in memory",
	})
	storageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ambitions_storage_failures_total",
		Help: "Storage, seed and decode failures that fell back to an empty or seed collection",
	}, []string{"operation"})
)
