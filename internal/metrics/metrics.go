// Package metrics collects per-run counters and writes them in the
// node_exporter textfile format so a cron-driven run can be scraped.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"whlp/internal/store"
)

const namespace = "whlp"

type Recorder struct {
	reg *prometheus.Registry

	rows     prometheus.Counter
	writes   *prometheus.CounterVec
	apiCalls *prometheus.CounterVec
	duration prometheus.Gauge
	lastRun  *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows extracted from the heritage list feed.",
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Entity writes by entity and outcome.",
		}, []string{"entity", "outcome"}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flickr_calls_total",
			Help:      "Flickr API calls by method and result.",
		}, []string{"method", "result"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished, by status.",
		}, []string{"status"}),
	}
	r.reg.MustRegister(r.rows, r.writes, r.apiCalls, r.duration, r.lastRun)
	return r
}

func (r *Recorder) RowsRead(n int) {
	r.rows.Add(float64(n))
}

// Write counts one insert attempt for entity ("monument", "license",
// "picture"). Updates use the outcome "updated".
func (r *Recorder) Write(entity string, outcome store.Outcome) {
	r.writes.WithLabelValues(entity, outcome.String()).Inc()
}

func (r *Recorder) WriteN(entity, outcome string, n int) {
	if n == 0 {
		return
	}
	r.writes.WithLabelValues(entity, outcome).Add(float64(n))
}

// ObserveCall has the flickr.Observer signature.
func (r *Recorder) ObserveCall(method string, err error) {
	r.apiCalls.WithLabelValues(method, result(err)).Inc()
}

func (r *Recorder) Finish(status string, started, finished time.Time) {
	r.duration.Set(finished.Sub(started).Seconds())
	r.lastRun.WithLabelValues(status).Set(float64(finished.Unix()))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// WriteTextfile atomically replaces path with the current values.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return errors.New("metrics: empty textfile path")
	}
	return prometheus.WriteToTextfile(path, r.reg)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
