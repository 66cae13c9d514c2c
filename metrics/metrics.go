// Package metrics exposes sweep and allocation counters through
// prometheus/client_golang, grounded on the exporter pattern in the
// telemetry collector the broader pack uses (Collector struct wrapping
// prometheus vectors, registered once at construction).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every metric the LID Manager reports. It must be
// registered with a prometheus.Registerer before scraping.
type Collector struct {
	freeLIDs        prometheus.Gauge
	usedLIDs        prometheus.Gauge
	portInfoSets    *prometheus.CounterVec
	sweepDuration   *prometheus.HistogramVec
	lidsExhausted   prometheus.Counter
}

// NewCollector constructs an unregistered Collector.
func NewCollector() *Collector {
	return &Collector{
		freeLIDs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lidmgr",
			Name:      "free_lids",
			Help:      "Number of unicast LIDs currently free for allocation.",
		}),
		usedLIDs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lidmgr",
			Name:      "used_lids",
			Help:      "Number of unicast LIDs currently assigned to a port.",
		}),
		portInfoSets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lidmgr",
			Name:      "portinfo_sets_total",
			Help:      "PortInfo Set requests issued, by resolution step and outcome.",
		}, []string{"step", "outcome"}),
		sweepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lidmgr",
			Name:      "sweep_duration_seconds",
			Help:      "Wall-clock duration of a full sweep, by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		lidsExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lidmgr",
			Name:      "lids_exhausted_total",
			Help:      "Times the free-range list could not satisfy a port's LID request.",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.freeLIDs.Describe(ch)
	c.usedLIDs.Describe(ch)
	c.portInfoSets.Describe(ch)
	c.sweepDuration.Describe(ch)
	c.lidsExhausted.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.freeLIDs.Collect(ch)
	c.usedLIDs.Collect(ch)
	c.portInfoSets.Collect(ch)
	c.sweepDuration.Collect(ch)
	c.lidsExhausted.Collect(ch)
}

// SetLIDOccupancy records the free/used split observed at the end of a
// sweep initializer pass.
func (c *Collector) SetLIDOccupancy(free, used int) {
	c.freeLIDs.Set(float64(free))
	c.usedLIDs.Set(float64(used))
}

// ObservePortInfoSet records one resolved port's outcome.
func (c *Collector) ObservePortInfoSet(step, outcome string) {
	c.portInfoSets.WithLabelValues(step, outcome).Inc()
}

// ObserveSweepDuration records how long a sweep of the given kind took.
func (c *Collector) ObserveSweepDuration(kind string, d time.Duration) {
	c.sweepDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// IncLIDsExhausted records one LID-exhaustion event.
func (c *Collector) IncLIDsExhausted() {
	c.lidsExhausted.Inc()
}
