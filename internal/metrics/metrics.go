// Package metrics provides Prometheus metrics for adminctl.
package metrics

import (
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "adminctl"

// Collector groups the console's metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	// RequestsTotal counts gateway requests by method and status class.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration measures gateway round trips.
	RequestDuration *prometheus.HistogramVec
	// FetchesTotal counts loader invocations by resource type and outcome.
	FetchesTotal *prometheus.CounterVec
	// HitsTotal counts reads served from cache.
	HitsTotal *prometheus.CounterVec
	// DiscardedTotal counts resolutions dropped because a newer cycle superseded them.
	DiscardedTotal *prometheus.CounterVec
	// MutationsTotal counts mutations by resource type and outcome.
	MutationsTotal *prometheus.CounterVec
	// Entries tracks the number of cached keys.
	Entries prometheus.Gauge
}

// NewCollector registers the console metrics with reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		gatherer: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total number of backend requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Duration of backend requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_fetches_total",
				Help:      "Total number of loader invocations",
			},
			[]string{"type", "result"},
		),
		HitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of reads served without a fetch",
			},
			[]string{"type"},
		),
		DiscardedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_discarded_total",
				Help:      "Total number of superseded fetch resolutions",
			},
			[]string{"type"},
		),
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_mutations_total",
				Help:      "Total number of mutations",
			},
			[]string{"type", "result"},
		),
		Entries: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_entries",
				Help:      "Number of cached keys",
			},
		),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordRequest records one gateway round trip. status is 0 for transport failures.
func (c *Collector) RecordRequest(method string, status int, seconds float64) {
	if c == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status/100) + "xx"
	}
	c.RequestsTotal.WithLabelValues(method, label).Inc()
	c.RequestDuration.WithLabelValues(method).Observe(seconds)
}

// RecordFetch records one loader invocation.
func (c *Collector) RecordFetch(resourceType string, err error) {
	if c == nil {
		return
	}
	c.FetchesTotal.WithLabelValues(resourceType, result(err)).Inc()
}

// RecordHit records a read answered from cache.
func (c *Collector) RecordHit(resourceType string) {
	if c == nil {
		return
	}
	c.HitsTotal.WithLabelValues(resourceType).Inc()
}

// RecordDiscard records a dropped resolution.
func (c *Collector) RecordDiscard(resourceType string) {
	if c == nil {
		return
	}
	c.DiscardedTotal.WithLabelValues(resourceType).Inc()
}

// RecordMutation records one mutation outcome.
func (c *Collector) RecordMutation(resourceType string, err error) {
	if c == nil {
		return
	}
	c.MutationsTotal.WithLabelValues(resourceType, result(err)).Inc()
}

// SetEntries sets the cached key count.
func (c *Collector) SetEntries(n int) {
	if c == nil {
		return
	}
	c.Entries.Set(float64(n))
}

// TypeStats is the per-resource-type view used by `cache stats`.
type TypeStats struct {
	Type      string  `json:"type"`
	Fetches   float64 `json:"fetches"`
	Errors    float64 `json:"errors"`
	Hits      float64 `json:"hits"`
	Discarded float64 `json:"discarded"`
	Mutations float64 `json:"mutations"`
}

// Stats summarizes the cache counters per resource type, sorted by type.
func (c *Collector) Stats() ([]TypeStats, error) {
	if c == nil {
		return nil, nil
	}
	families, err := c.gatherer.Gather()
	if err != nil {
		return nil, err
	}

	byType := map[string]*TypeStats{}
	get := func(t string) *TypeStats {
		s, ok := byType[t]
		if !ok {
			s = &TypeStats{Type: t}
			byType[t] = s
		}
		return s
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := labelMap(m)
			t, ok := labels["type"]
			if !ok {
				continue
			}
			v := m.GetCounter().GetValue()
			s := get(t)
			switch mf.GetName() {
			case namespace + "_cache_fetches_total":
				s.Fetches += v
				if labels["result"] == "error" {
					s.Errors += v
				}
			case namespace + "_cache_hits_total":
				s.Hits += v
			case namespace + "_cache_discarded_total":
				s.Discarded += v
			case namespace + "_cache_mutations_total":
				s.Mutations += v
			}
		}
	}

	out := make([]TypeStats, 0, len(byType))
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func labelMap(m *dto.Metric) map[string]string {
	labels := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	return labels
}
