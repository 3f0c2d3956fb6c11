// Copyright (c) 2025 The Whoosh Bridge developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whoosh-bridge/whoosh/log"
)

const namespace = "whoosh_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics swaps the Prometheus backend in as the active
// one. Calling it again has no effect, the backend is never replaced once set.
func InitializePrometheusMetrics() {
	if _, ok := backend.(*promBackend); !ok {
		backend = newPromBackend()
		registerIOCollector()
	}
}

// promBackend caches meters by name, one registry per meter kind. Meters are
// registered with the default Prometheus registerer as they are created.
type promBackend struct {
	counters      registry[CountMeter]
	counterVecs   registry[CountVecMeter]
	gauges        registry[GaugeMeter]
	gaugeVecs     registry[GaugeVecMeter]
	histograms    registry[HistogramMeter]
	histogramVecs registry[HistogramVecMeter]
}

func newPromBackend() *promBackend {
	return &promBackend{}
}

// registry is a name-keyed cache of created meters.
type registry[M any] struct {
	meters sync.Map
}

func (r *registry[M]) getOrCreate(name string, create func() M) M {
	if v, ok := r.meters.Load(name); ok {
		return v.(M)
	}
	meter := create()
	r.meters.Store(name, meter)
	return meter
}

// register adds the collector to the default registerer. Duplicate
// registration is logged and otherwise ignored, the caller keeps the
// unregistered instance.
func register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		logger.Warn("unable to register metric", "err", err)
	}
}

func toFloatBuckets(buckets []int64) []float64 {
	floats := make([]float64, len(buckets))
	for i, b := range buckets {
		floats[i] = float64(b)
	}
	return floats
}

func (b *promBackend) GetOrCreateCountMeter(name string) CountMeter {
	return b.counters.getOrCreate(name, func() CountMeter {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		register(c)
		return &promCounter{c}
	})
}

func (b *promBackend) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return b.counterVecs.getOrCreate(name, func() CountVecMeter {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		register(c)
		return &promCounterVec{c}
	})
}

func (b *promBackend) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return b.gauges.getOrCreate(name, func() GaugeMeter {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		register(g)
		return &promGauge{g}
	})
}

func (b *promBackend) GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter {
	return b.gaugeVecs.getOrCreate(name, func() GaugeVecMeter {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		register(g)
		return &promGaugeVec{g}
	})
}

func (b *promBackend) GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter {
	return b.histograms.getOrCreate(name, func() HistogramMeter {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   toFloatBuckets(buckets),
		})
		register(h)
		return &promHistogram{h}
	})
}

func (b *promBackend) GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter {
	return b.histogramVecs.getOrCreate(name, func() HistogramVecMeter {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   toFloatBuckets(buckets),
		}, labels)
		register(h)
		return &promHistogramVec{h}
	})
}

func (b *promBackend) GetOrCreateHandler() http.Handler {
	return promhttp.Handler()
}

type promCounter struct {
	counter prometheus.Counter
}

func (c *promCounter) Add(i int64) {
	c.counter.Add(float64(i))
}

type promCounterVec struct {
	counter *prometheus.CounterVec
}

func (c *promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGauge struct {
	gauge prometheus.Gauge
}

func (g *promGauge) Add(i int64) {
	g.gauge.Add(float64(i))
}

func (g *promGauge) Set(i int64) {
	g.gauge.Set(float64(i))
}

type promGaugeVec struct {
	gauge *prometheus.GaugeVec
}

func (g *promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Add(float64(i))
}

func (g *promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	g.gauge.With(labels).Set(float64(i))
}

type promHistogram struct {
	histogram prometheus.Histogram
}

func (h *promHistogram) Observe(i int64) {
	h.histogram.Observe(float64(i))
}

type promHistogramVec struct {
	histogram *prometheus.HistogramVec
}

func (h *promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	h.histogram.With(labels).Observe(float64(i))
}
