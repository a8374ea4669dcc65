// Package metrics 业务与 API 指标
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 整改流程流转数
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "action_transitions_total",
			Help: "Total number of corrective action transitions",
		},
		[]string{"action"}, // submit, approve, reject, revert_rejection, revert_approval, complete
	)

	// 证据上传数
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evidence_uploads_total",
			Help: "Total number of evidence upload attempts",
		},
		[]string{"outcome"}, // ok, queued, error
	)

	// 证据删除数
	evidenceDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evidence_deleted_total",
			Help: "Total number of evidence deletions",
		},
	)

	// 草稿对账数
	draftsReconciledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "drafts_reconciled_total",
			Help: "Total number of snapshot reconciliations applied to local drafts",
		},
	)

	// 审计状态分布
	auditsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "audits_by_status",
			Help: "Number of audits by status",
		},
		[]string{"status"},
	)

	registerOnce sync.Once
)

// Register 注册所有指标,重复调用安全
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			apiRequestsTotal,
			apiRequestDuration,
			transitionsTotal,
			uploadsTotal,
			evidenceDeletedTotal,
			draftsReconciledTotal,
			auditsByStatus,
		)
	})
}

// Handler 返回 /metrics 处理器
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// RecordAPIRequest 记录一次 API 请求
func RecordAPIRequest(method, path string, status int, seconds float64) {
	apiRequestsTotal.WithLabelValues(method, path, httpStatusLabel(status)).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordTransition 记录一次整改流转
func RecordTransition(action string) {
	transitionsTotal.WithLabelValues(action).Inc()
}

// RecordUpload 记录一次证据上传尝试
func RecordUpload(outcome string) {
	uploadsTotal.WithLabelValues(outcome).Inc()
}

// RecordEvidenceDeleted 记录一次证据删除
func RecordEvidenceDeleted() {
	evidenceDeletedTotal.Inc()
}

// RecordReconcile 记录一次快照对账
func RecordReconcile() {
	draftsReconciledTotal.Inc()
}

// SetAuditsByStatus 更新审计状态分布
func SetAuditsByStatus(status string, count float64) {
	auditsByStatus.WithLabelValues(status).Set(count)
}

func httpStatusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
