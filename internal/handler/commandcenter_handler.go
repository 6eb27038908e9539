package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/metrics"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// CommandCenterServiceInterface は指令センターハンドラーが必要とする
// サービスインターフェース。全操作がvolunteer/adminロールを要求する。
type CommandCenterServiceInterface interface {
	ListReports(ctx context.Context, r *http.Request) ([]*model.ReportWithReporter, error)
	TakeCharge(ctx context.Context, r *http.Request, reportID int64) error
	MarkResolved(ctx context.Context, r *http.Request, reportID int64) error
	ListInventory(ctx context.Context, r *http.Request) ([]*model.InventoryItem, error)
	Stats(ctx context.Context, r *http.Request) (*model.ReportStats, *model.InventoryStats, error)
}

// CommandCenterHandler は指令センター操作のHTTPハンドラー。
// 認可判断はサービス層のガードに委ね、ここではHTTP形式の変換のみを行う。
type CommandCenterHandler struct {
	service CommandCenterServiceInterface
	metrics metrics.MetricsCollector
}

// NewCommandCenterHandler はCommandCenterHandlerを生成する。
func NewCommandCenterHandler(service CommandCenterServiceInterface, collector metrics.MetricsCollector) *CommandCenterHandler {
	return &CommandCenterHandler{
		service: service,
		metrics: collector,
	}
}

// reportWithReporterResponse は通報者情報付き通報のAPIレスポンス。
type reportWithReporterResponse struct {
	reportResponse
	ReporterName  string `json:"reporter_name"`
	ReporterEmail string `json:"reporter_email"`
}

// ListReports は全通報の一覧を通報者情報付きで返す。
// GET /api/command-center/reports
func (h *CommandCenterHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context(), r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]reportWithReporterResponse, 0, len(reports))
	for _, rep := range reports {
		responses = append(responses, reportWithReporterResponse{
			reportResponse: toReportResponse(&rep.Report),
			ReporterName:   rep.ReporterName,
			ReporterEmail:  rep.ReporterEmail,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// TakeCharge は通報を対応中（in_progress）に遷移させる。
// POST /api/command-center/reports/{id}/take-charge
func (h *CommandCenterHandler) TakeCharge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.TakeCharge, model.ReportStatusInProgress)
}

// MarkResolved は通報を対応完了（resolved）に遷移させる。
// POST /api/command-center/reports/{id}/resolve
func (h *CommandCenterHandler) MarkResolved(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkResolved, model.ReportStatusResolved)
}

// transition は状態遷移操作の共通処理。
func (h *CommandCenterHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, r *http.Request, reportID int64) error,
	next model.ReportStatus,
) {
	reportID, err := parseIDParam(r, "id")
	if err != nil {
		handleServiceError(w, model.NewValidationError("通報IDが不正です"))
		return
	}

	if err := op(r.Context(), r, reportID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordStatusTransition(string(next))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": string(next)})
}

// ListInventory は全拠点の在庫一覧を返す。
// GET /api/command-center/inventory
func (h *CommandCenterHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListInventory(r.Context(), r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]inventoryItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toInventoryItemResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// commandCenterStatsResponse は指令センターの集計レスポンス。
type commandCenterStatsResponse struct {
	Reports   *model.ReportStats    `json:"reports"`
	Inventory *model.InventoryStats `json:"inventory"`
}

// Stats は通報と在庫の集計情報を返す。
// GET /api/command-center/stats
func (h *CommandCenterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	reportStats, inventoryStats, err := h.service.Stats(r.Context(), r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(commandCenterStatsResponse{
		Reports:   reportStats,
		Inventory: inventoryStats,
	})
}
