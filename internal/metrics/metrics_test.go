package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue は指定メトリクスの指定ラベル値のカウンタ値を返す。
func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with label %q not found", name, labelValue)
	return 0
}

func TestRecordGateDecision_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGateDecision("redirect_login")
	c.RecordGateDecision("redirect_login")
	c.RecordGateDecision("pass")

	if got := counterValue(t, reg, "sos_gate_decisions_total", "redirect_login"); got != 2 {
		t.Errorf("redirect_login count = %v, want 2", got)
	}
	if got := counterValue(t, reg, "sos_gate_decisions_total", "pass"); got != 1 {
		t.Errorf("pass count = %v, want 1", got)
	}
}

func TestRecordAuthDenial_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthDenial("forbidden")

	if got := counterValue(t, reg, "sos_auth_denials_total", "forbidden"); got != 1 {
		t.Errorf("forbidden count = %v, want 1", got)
	}
}

func TestRecordStatusTransition_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStatusTransition("in_progress")
	c.RecordStatusTransition("resolved")
	c.RecordStatusTransition("in_progress")

	if got := counterValue(t, reg, "sos_report_status_transitions_total", "in_progress"); got != 2 {
		t.Errorf("in_progress count = %v, want 2", got)
	}
}

func TestSetupMetricsRoute_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPStatus(200)
	c.RecordReportCreated("fire")

	srv := httptest.NewServer(SetupMetricsRoute(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "sos_http_status_total") {
		t.Error("expected sos_http_status_total in scrape output")
	}
	if !strings.Contains(string(body), "sos_reports_created_total") {
		t.Error("expected sos_reports_created_total in scrape output")
	}
}
