package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// mockCommandCenterService はCommandCenterServiceInterfaceのモック実装。
type mockCommandCenterService struct {
	listReportsFn   func(ctx context.Context, r *http.Request) ([]*model.ReportWithReporter, error)
	takeChargeFn    func(ctx context.Context, r *http.Request, reportID int64) error
	markResolvedFn  func(ctx context.Context, r *http.Request, reportID int64) error
	listInventoryFn func(ctx context.Context, r *http.Request) ([]*model.InventoryItem, error)
	statsFn         func(ctx context.Context, r *http.Request) (*model.ReportStats, *model.InventoryStats, error)
}

func (m *mockCommandCenterService) ListReports(ctx context.Context, r *http.Request) ([]*model.ReportWithReporter, error) {
	if m.listReportsFn != nil {
		return m.listReportsFn(ctx, r)
	}
	return nil, nil
}

func (m *mockCommandCenterService) TakeCharge(ctx context.Context, r *http.Request, reportID int64) error {
	if m.takeChargeFn != nil {
		return m.takeChargeFn(ctx, r, reportID)
	}
	return nil
}

func (m *mockCommandCenterService) MarkResolved(ctx context.Context, r *http.Request, reportID int64) error {
	if m.markResolvedFn != nil {
		return m.markResolvedFn(ctx, r, reportID)
	}
	return nil
}

func (m *mockCommandCenterService) ListInventory(ctx context.Context, r *http.Request) ([]*model.InventoryItem, error) {
	if m.listInventoryFn != nil {
		return m.listInventoryFn(ctx, r)
	}
	return nil, nil
}

func (m *mockCommandCenterService) Stats(ctx context.Context, r *http.Request) (*model.ReportStats, *model.InventoryStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, r)
	}
	return nil, nil, nil
}

func TestCommandCenterHandler_ListReports(t *testing.T) {
	svc := &mockCommandCenterService{
		listReportsFn: func(ctx context.Context, r *http.Request) ([]*model.ReportWithReporter, error) {
			return []*model.ReportWithReporter{
				{
					Report:        model.Report{ID: 1, Type: model.ReportTypeFire, Status: model.ReportStatusPending},
					ReporterName:  "Omar",
					ReporterEmail: "omar@example.com",
				},
			}, nil
		},
	}
	h := NewCommandCenterHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/command-center/reports", nil)
	w := httptest.NewRecorder()

	h.ListReports(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp []reportWithReporterResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("len(resp) = %d, want 1", len(resp))
	}
	if resp[0].ReporterName != "Omar" {
		t.Errorf("ReporterName = %q, want Omar", resp[0].ReporterName)
	}
}

func TestCommandCenterHandler_ListReports_Forbidden(t *testing.T) {
	svc := &mockCommandCenterService{
		listReportsFn: func(ctx context.Context, r *http.Request) ([]*model.ReportWithReporter, error) {
			return nil, model.NewForbiddenError(model.RoleVolunteer, model.RoleAdmin)
		},
	}
	h := NewCommandCenterHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/command-center/reports", nil)
	w := httptest.NewRecorder()

	h.ListReports(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	resp := parseErrorResponse(t, w)
	if resp["code"] != model.ErrCodeForbidden {
		t.Errorf("code = %q, want %q", resp["code"], model.ErrCodeForbidden)
	}
}

func TestCommandCenterHandler_TakeCharge(t *testing.T) {
	var gotID int64
	svc := &mockCommandCenterService{
		takeChargeFn: func(ctx context.Context, r *http.Request, reportID int64) error {
			gotID = reportID
			return nil
		},
	}
	h := NewCommandCenterHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/command-center/reports/7/take-charge", nil)
	req = withChiURLParam(req, "id", "7")
	w := httptest.NewRecorder()

	h.TakeCharge(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotID != 7 {
		t.Errorf("reportID = %d, want 7", gotID)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "in_progress" {
		t.Errorf("status = %q, want in_progress", resp["status"])
	}
}

func TestCommandCenterHandler_TakeCharge_InvalidID(t *testing.T) {
	h := NewCommandCenterHandler(&mockCommandCenterService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/command-center/reports/abc/take-charge", nil)
	req = withChiURLParam(req, "id", "abc")
	w := httptest.NewRecorder()

	h.TakeCharge(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCommandCenterHandler_MarkResolved_NotFound(t *testing.T) {
	svc := &mockCommandCenterService{
		markResolvedFn: func(ctx context.Context, r *http.Request, reportID int64) error {
			return model.NewReportNotFoundError(reportID)
		},
	}
	h := NewCommandCenterHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/command-center/reports/999/resolve", nil)
	req = withChiURLParam(req, "id", "999")
	w := httptest.NewRecorder()

	h.MarkResolved(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCommandCenterHandler_Stats(t *testing.T) {
	svc := &mockCommandCenterService{
		statsFn: func(ctx context.Context, r *http.Request) (*model.ReportStats, *model.InventoryStats, error) {
			return &model.ReportStats{Total: 3},
				&model.InventoryStats{ByItem: map[model.ItemName]int{model.ItemRadio: 5}},
				nil
		},
	}
	h := NewCommandCenterHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/command-center/stats", nil)
	w := httptest.NewRecorder()

	h.Stats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp commandCenterStatsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Reports.Total != 3 {
		t.Errorf("Reports.Total = %d, want 3", resp.Reports.Total)
	}
}
