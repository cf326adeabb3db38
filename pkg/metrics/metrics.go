// Package metrics exposes Prometheus instruments for the search engine.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every catalogserve collector. It is separate from the
// default registry so embedding programs decide whether to expose it.
var Registry = prometheus.NewRegistry()

var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogserve",
			Name:      "searches_total",
			Help:      "Total number of ranked searches by primary bucket",
		},
		[]string{"category"},
	)

	SearchMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "catalogserve",
			Name:      "search_matches",
			Help:      "Number of items with a positive score per non-empty query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogserve",
			Name:      "suggestions_total",
			Help:      "Suggestions returned, by provenance",
		},
		[]string{"source"}, // "popular" / "keyword" / "synonym"
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogserve",
			Name:      "analytics_events_total",
			Help:      "Search analytics events by outcome",
		},
		[]string{"result"}, // "emitted" / "skipped" / "reset" / "error"
	)

	IndexBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalogserve",
			Name:      "index_builds_total",
			Help:      "Keyword index rebuilds caused by a catalog change",
		},
	)
)

func init() {
	Registry.MustRegister(
		SearchesTotal,
		SearchMatches,
		SuggestionsTotal,
		AnalyticsEventsTotal,
		IndexBuildsTotal,
	)
}

// WriteText renders every collector in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
