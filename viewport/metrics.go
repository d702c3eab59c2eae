// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package viewport

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	rebuilds        prometheus.Counter
	superseded      prometheus.Counter
	skippedPoints   prometheus.Counter
	emissions       prometheus.Counter
	buildDurationMs prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geocluster_rebuilds_total",
			Help: "Total number of published index rebuilds",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geocluster_superseded_rebuilds_total",
			Help: "Total number of rebuilds discarded because a newer one started",
		}),
		skippedPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geocluster_skipped_points_total",
			Help: "Total number of points excluded from published indexes",
		}),
		emissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "geocluster_emissions_total",
			Help: "Total number of frames emitted to subscribers",
		}),
		buildDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "geocluster_build_duration_ms",
			Help:    "Index build duration in milliseconds",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.rebuilds, m.superseded, m.skippedPoints, m.emissions, m.buildDurationMs} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}
