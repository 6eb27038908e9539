package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/commandcenter"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/inventory"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// InventoryServiceInterface は在庫ハンドラーが必要とするサービスインターフェース。
type InventoryServiceInterface interface {
	Create(ctx context.Context, input inventory.CreateInput) (*model.InventoryItem, error)
	GetByID(ctx context.Context, itemID int64) (*model.InventoryItem, error)
	List(ctx context.Context) ([]*model.InventoryItem, error)
	ListByLocation(ctx context.Context, location string) ([]*model.InventoryItem, error)
	SetQuantity(ctx context.Context, itemID int64, quantity int) error
	Adjust(ctx context.Context, itemID int64, delta int) (*model.InventoryItem, error)
	Stats(ctx context.Context) (*model.InventoryStats, error)
}

// InventoryHandler は救援物資在庫のHTTPハンドラー。
// 読み取りは認証済みの全ロールに許可し、変更操作はvolunteer/adminに限る。
type InventoryHandler struct {
	service InventoryServiceInterface
	guard   *auth.Guard
}

// NewInventoryHandler はInventoryHandlerを生成する。
func NewInventoryHandler(service InventoryServiceInterface, guard *auth.Guard) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		guard:   guard,
	}
}

// createItemRequest は在庫品目作成リクエストのボディ。
type createItemRequest struct {
	ItemName       string `json:"item_name"`
	Quantity       int    `json:"quantity"`
	CenterLocation string `json:"center_location"`
}

// setQuantityRequest は数量設定リクエストのボディ。
type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// adjustQuantityRequest は数量増減リクエストのボディ。
type adjustQuantityRequest struct {
	Delta int `json:"delta"`
}

// inventoryItemResponse は在庫品目のAPIレスポンス。
type inventoryItemResponse struct {
	ID             int64  `json:"id"`
	ItemName       string `json:"item_name"`
	Quantity       int    `json:"quantity"`
	CenterLocation string `json:"center_location"`
}

// Create は新しい在庫品目を登録する。volunteer/admin専用。
// POST /api/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequireAnyRole(r.Context(), r, commandcenter.AllowedRoles...); err != nil {
		handleServiceError(w, err)
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	item, err := h.service.Create(r.Context(), inventory.CreateInput{
		ItemName:       req.ItemName,
		Quantity:       req.Quantity,
		CenterLocation: req.CenterLocation,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toInventoryItemResponse(item))
}

// List は在庫品目の一覧を返す。locationクエリで拠点を絞り込める。
// GET /api/inventory?location=xxx
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []*model.InventoryItem
		err   error
	)
	if location := r.URL.Query().Get("location"); location != "" {
		items, err = h.service.ListByLocation(r.Context(), location)
	} else {
		items, err = h.service.List(r.Context())
	}
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

// Get は在庫品目の詳細を返す。
// GET /api/inventory/{id}
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseIDParam(r, "id")
	if err != nil {
		handleServiceError(w, model.NewValidationError("品目IDが不正です"))
		return
	}

	item, err := h.service.GetByID(r.Context(), itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toInventoryItemResponse(item))
}

// SetQuantity は在庫数量を絶対値で設定する。volunteer/admin専用。
// PUT /api/inventory/{id}/quantity
func (h *InventoryHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequireAnyRole(r.Context(), r, commandcenter.AllowedRoles...); err != nil {
		handleServiceError(w, err)
		return
	}

	itemID, err := parseIDParam(r, "id")
	if err != nil {
		handleServiceError(w, model.NewValidationError("品目IDが不正です"))
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.SetQuantity(r.Context(), itemID, req.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Adjust は在庫数量を相対値で増減する。volunteer/admin専用。
// 結果が負になる調整は拒否される。
// POST /api/inventory/{id}/adjust
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequireAnyRole(r.Context(), r, commandcenter.AllowedRoles...); err != nil {
		handleServiceError(w, err)
		return
	}

	itemID, err := parseIDParam(r, "id")
	if err != nil {
		handleServiceError(w, model.NewValidationError("品目IDが不正です"))
		return
	}

	var req adjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	item, err := h.service.Adjust(r.Context(), itemID, req.Delta)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toInventoryItemResponse(item))
}

// Stats は在庫の集計情報を返す。
// GET /api/inventory/stats
func (h *InventoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// toInventoryItemResponse はmodel.InventoryItemからAPIレスポンスに変換する。
func toInventoryItemResponse(item *model.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:             item.ID,
		ItemName:       string(item.ItemName),
		Quantity:       item.Quantity,
		CenterLocation: item.CenterLocation,
	}
}
