package transcoder

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/wasm-utf16/errors"
)

type metrics struct {
	lifts  *prometheus.CounterVec
	lowers *prometheus.CounterVec
	bytes  *prometheus.CounterVec
	faults *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer, namespace, subsystem string) *metrics {
	m := metrics{
		lifts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "strings_lifted",
			Help:      "Number of strings read from guest memory",
		}, []string{"encoding"}),
		lowers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "strings_lowered",
			Help:      "Number of strings written to guest memory",
		}, []string{"encoding"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "string_bytes",
			Help:      "Bytes of string data moved across guest memory",
		}, []string{"direction"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "faults",
			Help:      "Number of failed transcoding operations",
		}, []string{"kind"}),
	}

	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "transcoder"},
			registerer,
		)
		registerer.MustRegister(m.lifts, m.lowers, m.bytes, m.faults)
	}

	return &m
}

func (m *metrics) lifted(enc Encoding, size uint32) {
	if m == nil {
		return
	}
	m.lifts.WithLabelValues(enc.String()).Inc()
	m.bytes.WithLabelValues("lift").Add(float64(size))
}

func (m *metrics) lowered(enc Encoding, size uint32) {
	if m == nil {
		return
	}
	m.lowers.WithLabelValues(enc.String()).Inc()
	m.bytes.WithLabelValues("lower").Add(float64(size))
}

// failed counts err by its Kind and returns it unchanged.
func (m *metrics) failed(err error) error {
	if m == nil || err == nil {
		return err
	}
	kind := "other"
	var e *errors.Error
	if stderrors.As(err, &e) {
		kind = string(e.Kind)
	}
	m.faults.WithLabelValues(kind).Inc()
	return err
}
