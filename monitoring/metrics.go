package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// Direction labels the side a conversion starts from.
type Direction string

const (
	// ToArrow converts owned arrays into runtime arrays.
	ToArrow Direction = "to_arrow"
	// FromArrow converts runtime arrays into views or owned arrays.
	FromArrow Direction = "from_arrow"
)

// Metrics holds the Prometheus collectors for conversions.
type Metrics struct {
	ConversionsTotal  *prometheus.CounterVec
	ConversionErrors  *prometheus.CounterVec
	ConversionLatency *prometheus.HistogramVec
	ArrayLength       *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them on
// reg. A nil reg leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConversionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Total number of successful array conversions by direction and data type",
		}, []string{"direction", "type"}),
		ConversionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversion_errors_total",
			Help:      "Total number of failed array conversions by direction and error kind",
		}, []string{"direction", "kind"}),
		ConversionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_latency_seconds",
			Help:      "Array conversion latency in seconds",
			Buckets:   []float64{.00001, .0001, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"direction"}),
		ArrayLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "array_length",
			Help:      "Number of top level elements per converted array",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"direction"}),
	}
}

// RecordConversion records one conversion. typeName is the top level data
// type ID, which keeps label cardinality bounded.
func (m *Metrics) RecordConversion(dir Direction, typeName string, length int, duration time.Duration, err error) {
	m.ConversionLatency.WithLabelValues(string(dir)).Observe(duration.Seconds())
	if err != nil {
		kind := "unknown"
		if k := errs.KindOf(err); k != 0 {
			kind = k.String()
		}
		m.ConversionErrors.WithLabelValues(string(dir), kind).Inc()
		return
	}
	m.ConversionsTotal.WithLabelValues(string(dir), typeName).Inc()
	m.ArrayLength.WithLabelValues(string(dir)).Observe(float64(length))
}
