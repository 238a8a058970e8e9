// Package prometheus 提供 actor.Metrics 的 Prometheus 实现
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lwmacct/251215-go-pkg-signal/pkg/actor"
)

// 延迟直方图的默认桶（秒）
var defaultBuckets = []float64{
	.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1,
}

// Metrics 基于 Prometheus 的 Actor 指标
type Metrics struct {
	actorsLive      prometheus.Gauge
	actorsSpawned   prometheus.Counter
	actorsExited    *prometheus.CounterVec
	messageDuration *prometheus.HistogramVec
	panicTotal      *prometheus.CounterVec
	deadLetters     *prometheus.CounterVec
}

// New 创建指标并注册到 reg
//
// namespace 为空时使用 "actor"。同一个 Registerer 上重复注册同名指标会 panic。
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "actor"
	}

	m := &Metrics{
		actorsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live",
			Help:      "Number of actors currently running",
		}),
		actorsSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawned_total",
			Help:      "Total number of actors spawned",
		}),
		actorsExited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exited_total",
			Help:      "Total number of actors exited, by reason",
		}, []string{"reason"}),
		messageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "message_duration_seconds",
			Help:      "Message handling time in seconds",
			Buckets:   defaultBuckets,
		}, []string{"kind"}),
		panicTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Total number of handler panics",
		}, []string{"kind"}),
		deadLetters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_letters_total",
			Help:      "Total number of undeliverable messages",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.actorsLive,
		m.actorsSpawned,
		m.actorsExited,
		m.messageDuration,
		m.panicTotal,
		m.deadLetters,
	)

	return m
}

// ActorSpawned 实现 actor.Metrics
func (m *Metrics) ActorSpawned(string) {
	m.actorsSpawned.Inc()
	m.actorsLive.Inc()
}

// ActorExited 实现 actor.Metrics
func (m *Metrics) ActorExited(_ string, reason actor.StopReason) {
	m.actorsExited.WithLabelValues(reason.String()).Inc()
	m.actorsLive.Dec()
}

// MessageProcessed 实现 actor.Metrics
func (m *Metrics) MessageProcessed(kind string, latency time.Duration) {
	m.messageDuration.WithLabelValues(kind).Observe(latency.Seconds())
}

// MessagePanic 实现 actor.Metrics
func (m *Metrics) MessagePanic(kind string) {
	m.panicTotal.WithLabelValues(kind).Inc()
}

// DeadLetter 实现 actor.Metrics
func (m *Metrics) DeadLetter(kind string) {
	m.deadLetters.WithLabelValues(kind).Inc()
}

var _ actor.Metrics = (*Metrics)(nil)
