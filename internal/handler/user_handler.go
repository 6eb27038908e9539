package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// UserServiceInterface はユーザー管理ハンドラーが必要とするサービスインターフェース。
// 認可判断（admin専用）はサービス層のガードが行う。
type UserServiceInterface interface {
	List(ctx context.Context, r *http.Request) ([]*model.User, error)
	UpdateRole(ctx context.Context, r *http.Request, targetUserID int64, rawRole string) error
	CountByRole(ctx context.Context, r *http.Request) (map[model.Role]int, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// updateRoleRequest はロール変更リクエストのボディ。
type updateRoleRequest struct {
	Role string `json:"role"`
}

// List は全ユーザーの一覧を返す。admin専用。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt.Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// UpdateRole は指定ユーザーのロールを変更する。admin専用。
// PUT /api/users/{id}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	targetUserID, err := parseIDParam(r, "id")
	if err != nil {
		handleServiceError(w, model.NewValidationError("ユーザーIDが不正です"))
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.UpdateRole(r.Context(), r, targetUserID, req.Role); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"role": req.Role})
}

// CountByRole はロールごとのユーザー数を返す。admin専用。
// GET /api/users/stats
func (h *UserHandler) CountByRole(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountByRole(r.Context(), r)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counts)
}
