package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/metrics"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/middleware"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/report"
)

// ReportServiceInterface は通報ハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	Create(ctx context.Context, input report.CreateInput) (*model.Report, error)
	GetByID(ctx context.Context, reportID int64) (*model.Report, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Report, error)
}

// ReportHandler はSOS通報のHTTPハンドラー。
// セッションミドルウェアの背後に配置され、通報者は常にコンテキストの
// セッションユーザーになる。
type ReportHandler struct {
	service ReportServiceInterface
	metrics metrics.MetricsCollector
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface, collector metrics.MetricsCollector) *ReportHandler {
	return &ReportHandler{
		service: service,
		metrics: collector,
	}
}

// createReportRequest は通報作成リクエストのボディ。
type createReportRequest struct {
	Type        string `json:"type"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// reportResponse は通報のAPIレスポンス。
type reportResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Location    string `json:"location"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Create は新しいSOS通報を作成する。
// POST /api/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUserID(r)
	if err != nil {
		handleServiceError(w, model.NewUnauthorizedError())
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.Create(r.Context(), report.CreateInput{
		UserID:      userID,
		Type:        req.Type,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordReportCreated(string(created.Type))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toReportResponse(created))
}

// Get は通報の詳細を返す。
// GET /api/reports/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	reportID, err := parseIDParam(r, "id")
	if err != nil {
		handleServiceError(w, model.NewValidationError("通報IDが不正です"))
		return
	}

	rep, err := h.service.GetByID(r.Context(), reportID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toReportResponse(rep))
}

// ListMine はログインユーザー自身の通報一覧を返す。
// GET /api/reports
func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := sessionUserID(r)
	if err != nil {
		handleServiceError(w, model.NewUnauthorizedError())
		return
	}

	reports, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		responses = append(responses, toReportResponse(rep))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// toReportResponse はmodel.ReportからAPIレスポンスに変換する。
func toReportResponse(rep *model.Report) reportResponse {
	return reportResponse{
		ID:          rep.ID,
		UserID:      rep.UserID,
		Type:        string(rep.Type),
		Status:      string(rep.Status),
		Location:    rep.Location,
		Description: rep.Description,
		CreatedAt:   rep.CreatedAt.Format(time.RFC3339),
	}
}

// sessionUserID はコンテキストのセッションユーザーからストレージ層のユーザーIDを
// 取り出す。コア層のIDは文字列正規形のため、ここで数値に戻す。
func sessionUserID(r *http.Request) (int64, error) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(user.ID, 10, 64)
}

// parseIDParam はURLパラメータからint64のIDを取り出す。
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
