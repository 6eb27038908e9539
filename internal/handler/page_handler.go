package handler

import (
	"fmt"
	"net/http"
)

// PageHandler はゲート対象ページの最小限のハンドラー。
// ページの実体はフロントエンドが描画するため、サーバー側は
// ルートゲートの通過確認に足るプレースホルダーのみを返す。
type PageHandler struct{}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// servePage はページ名のみを含む最小のHTMLを返す。
func servePage(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s | SOS Ksar El Kebir</title></head><body><h1>%s</h1></body></html>", title, title)
	}
}

// Home はトップページ。 GET /
func (h *PageHandler) Home() http.HandlerFunc { return servePage("SOS Ksar El Kebir") }

// AuthPage はログインページ。 GET /auth
func (h *PageHandler) AuthPage() http.HandlerFunc { return servePage("ログイン") }

// UnauthorizedPage はアクセス拒否ページ。 GET /unauthorized
func (h *PageHandler) UnauthorizedPage() http.HandlerFunc { return servePage("アクセス権限がありません") }

// CitizenDashboard は市民ダッシュボード。 GET /dashboard/citizen
func (h *PageHandler) CitizenDashboard() http.HandlerFunc { return servePage("市民ダッシュボード") }

// VolunteerDashboard はボランティアダッシュボード。 GET /dashboard/volunteer
func (h *PageHandler) VolunteerDashboard() http.HandlerFunc {
	return servePage("ボランティアダッシュボード")
}

// AdminDashboard は管理者ダッシュボード。 GET /dashboard/admin
func (h *PageHandler) AdminDashboard() http.HandlerFunc { return servePage("管理者ダッシュボード") }

// SOSPage はSOS通報ページ。 GET /sos
func (h *PageHandler) SOSPage() http.HandlerFunc { return servePage("SOS通報") }

// InventoryPage は在庫ページ。 GET /inventory
func (h *PageHandler) InventoryPage() http.HandlerFunc { return servePage("救援物資在庫") }

// CommandCenterPage は指令センターページ。 GET /command-center
func (h *PageHandler) CommandCenterPage() http.HandlerFunc { return servePage("指令センター") }
