// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordGateDecision(action string)
	RecordAuthDenial(kind string)
	RecordReportCreated(reportType string)
	RecordStatusTransition(status string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	gateDecisions     *prometheus.CounterVec
	authDenials       *prometheus.CounterVec
	reportsCreated    *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sos_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sos_gate_decisions_total",
			Help: "ルートゲートの判定結果別のリクエスト数",
		}, []string{"action"}),
		authDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sos_auth_denials_total",
			Help: "認可ガードによる拒否の合計数（種別別）",
		}, []string{"kind"}),
		reportsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sos_reports_created_total",
			Help: "作成された通報の合計数（種別別）",
		}, []string{"type"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sos_report_status_transitions_total",
			Help: "通報の状態遷移の合計数（遷移先状態別）",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.gateDecisions,
		c.authDenials,
		c.reportsCreated,
		c.statusTransitions,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordGateDecision はルートゲートの判定結果を記録する。
func (c *Collector) RecordGateDecision(action string) {
	c.gateDecisions.WithLabelValues(action).Inc()
}

// RecordAuthDenial は認可ガードによる拒否を記録する。
// kindは"unauthorized"または"forbidden"。
func (c *Collector) RecordAuthDenial(kind string) {
	c.authDenials.WithLabelValues(kind).Inc()
}

// RecordReportCreated は通報作成を記録する。
func (c *Collector) RecordReportCreated(reportType string) {
	c.reportsCreated.WithLabelValues(reportType).Inc()
}

// RecordStatusTransition は通報の状態遷移を記録する。
func (c *Collector) RecordStatusTransition(status string) {
	c.statusTransitions.WithLabelValues(status).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
