// Package metrics Prometheus 指标导出
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 包含认证服务的全部指标。所有方法对 nil 接收者安全。
type Metrics struct {
	registry *prometheus.Registry

	// 认证指标
	LoginAttempts *prometheus.CounterVec
	Enrollments   *prometheus.CounterVec
	MatchDistance prometheus.Histogram

	// 特征提取指标
	ExtractionDuration  prometheus.Histogram
	ExtractionsInFlight prometheus.Gauge
	ExtractionRejected  prometheus.Counter
}

// NewMetrics 创建指标实例，使用独立的 registry
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		Enrollments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enrollments_total",
				Help:      "Face enrollment attempts by outcome",
			},
			[]string{"outcome"},
		),
		MatchDistance: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "match_distance",
				Help:      "Euclidean distance between live and enrolled embeddings",
				Buckets:   []float64{0.1, 0.2, 0.3, 0.35, 0.4, 0.45, 0.5, 0.6, 0.8, 1},
			},
		),
		ExtractionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extraction_duration_seconds",
				Help:      "Embedding extraction duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		ExtractionsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "extractions_in_flight",
				Help:      "Number of extractions currently running",
			},
		),
		ExtractionRejected: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extraction_rejected_total",
				Help:      "Extractions rejected because the worker pool was saturated",
			},
		),
	}
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLogin 记录登录结果
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordEnrollment 记录注册结果
func (m *Metrics) RecordEnrollment(outcome string) {
	if m == nil {
		return
	}
	m.Enrollments.WithLabelValues(outcome).Inc()
}

// ObserveDistance 记录比对距离
func (m *Metrics) ObserveDistance(d float64) {
	if m == nil {
		return
	}
	m.MatchDistance.Observe(d)
}

// ExtractionStarted 标记一次提取开始，返回结束回调
func (m *Metrics) ExtractionStarted() func(seconds float64) {
	if m == nil {
		return func(float64) {}
	}
	m.ExtractionsInFlight.Inc()
	return func(seconds float64) {
		m.ExtractionsInFlight.Dec()
		m.ExtractionDuration.Observe(seconds)
	}
}

// ExtractionRejectedInc 记录一次因繁忙被拒绝的提取
func (m *Metrics) ExtractionRejectedInc() {
	if m == nil {
		return
	}
	m.ExtractionRejected.Inc()
}
