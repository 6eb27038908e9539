package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/middleware"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// newTestRouter は指定ロールのユーザーで認証されるルーターを構築する。
// roleが空の場合は未認証。
func newTestRouter(t *testing.T, role model.Role) http.Handler {
	t.Helper()

	sessionRepo := &fixedSessionRepo{}
	userRepo := &fixedUserRepo{}
	if role != "" {
		sessionRepo.session = &model.Session{ID: "s-1", UserID: 10, ExpiresAt: time.Now().Add(time.Hour)}
		userRepo.user = &model.User{ID: 10, Email: "op@example.com", Name: "Op", Role: role}
	}

	resolver := auth.NewResolver(sessionRepo, userRepo)
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rateLimiter.Stop)

	return NewRouter(&RouterDeps{
		Resolver:             resolver,
		Guard:                auth.NewGuard(resolver),
		CORSAllowedOrigin:    "http://localhost:3000",
		CSRFConfig:           middleware.CSRFConfig{},
		RateLimiter:          rateLimiter,
		AuthService:          &mockAuthService{},
		AuthConfig:           testAuthConfig(),
		ReportService:        &mockReportService{},
		CommandCenterService: &mockCommandCenterService{},
		InventoryService:     &mockInventoryService{},
		UserService:          &mockUserService{},
	})
}

// serveRouter はルーターにリクエストを流してレスポンスを返す。
func serveRouter(router http.Handler, method, path string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authed {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "s-1"})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicPagesWithoutSession(t *testing.T) {
	router := newTestRouter(t, "")

	for _, path := range []string{"/", "/auth", "/unauthorized"} {
		w := serveRouter(router, http.MethodGet, path, false)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusOK)
		}
	}
}

func TestRouter_GateRedirectsUnauthenticatedToLogin(t *testing.T) {
	router := newTestRouter(t, "")

	for _, path := range []string{"/dashboard", "/sos", "/inventory", "/command-center"} {
		w := serveRouter(router, http.MethodGet, path, false)
		if w.Code != http.StatusTemporaryRedirect {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusTemporaryRedirect)
			continue
		}
		if got := w.Header().Get("Location"); got != "/auth" {
			t.Errorf("GET %s Location = %q, want /auth", path, got)
		}
	}
}

func TestRouter_GateCoversUnregisteredSubpaths(t *testing.T) {
	// ハンドラー未登録の深いパスも404になる前にゲートを通ること
	router := newTestRouter(t, "")

	for _, path := range []string{"/dashboard/volunteer/reports", "/sos/new", "/inventory/items/3"} {
		w := serveRouter(router, http.MethodGet, path, false)
		if w.Code != http.StatusTemporaryRedirect {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusTemporaryRedirect)
			continue
		}
		if got := w.Header().Get("Location"); got != "/auth" {
			t.Errorf("GET %s Location = %q, want /auth", path, got)
		}
	}

	citizenRouter := newTestRouter(t, model.RoleCitizen)
	w := serveRouter(citizenRouter, http.MethodGet, "/command-center/reports/7", true)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}
	if got := w.Header().Get("Location"); got != "/unauthorized" {
		t.Errorf("Location = %q, want /unauthorized", got)
	}
}

func TestRouter_GateRedirectsCitizenFromCommandCenter(t *testing.T) {
	router := newTestRouter(t, model.RoleCitizen)

	w := serveRouter(router, http.MethodGet, "/command-center", true)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}
	if got := w.Header().Get("Location"); got != "/unauthorized" {
		t.Errorf("Location = %q, want /unauthorized", got)
	}
}

func TestRouter_GateSendsDashboardToRoleHome(t *testing.T) {
	tests := []struct {
		role model.Role
		want string
	}{
		{model.RoleCitizen, "/dashboard/citizen"},
		{model.RoleVolunteer, "/dashboard/volunteer"},
		{model.RoleAdmin, "/dashboard/admin"},
	}

	for _, tt := range tests {
		router := newTestRouter(t, tt.role)
		w := serveRouter(router, http.MethodGet, "/dashboard", true)
		if w.Code != http.StatusTemporaryRedirect {
			t.Errorf("role %s: status = %d, want %d", tt.role, w.Code, http.StatusTemporaryRedirect)
			continue
		}
		if got := w.Header().Get("Location"); got != tt.want {
			t.Errorf("role %s: Location = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestRouter_GateAllowsMatchingRoleDashboard(t *testing.T) {
	router := newTestRouter(t, model.RoleVolunteer)

	w := serveRouter(router, http.MethodGet, "/dashboard/volunteer", true)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_GateRedirectsWrongRoleDashboard(t *testing.T) {
	router := newTestRouter(t, model.RoleAdmin)

	// adminが市民ダッシュボードにアクセスすると/dashboardへ送り返される
	w := serveRouter(router, http.MethodGet, "/dashboard/citizen", true)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}
	if got := w.Header().Get("Location"); got != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", got)
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, "")

	w := serveRouter(router, http.MethodGet, "/health", false)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_APIRequiresSession(t *testing.T) {
	router := newTestRouter(t, "")

	w := serveRouter(router, http.MethodGet, "/api/reports", false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_APIStateChangeRequiresCSRFToken(t *testing.T) {
	router := newTestRouter(t, model.RoleCitizen)

	// CSRFトークンなしのPOSTは拒否される
	w := serveRouter(router, http.MethodPost, "/api/reports", true)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestRouter_CSRFTokenEndpoint(t *testing.T) {
	router := newTestRouter(t, "")

	w := serveRouter(router, http.MethodGet, "/api/csrf-token", false)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_AuthRoutesDoNotRequireSession(t *testing.T) {
	router := newTestRouter(t, "")

	w := serveRouter(router, http.MethodGet, "/api/auth/google/login", false)
	if w.Code != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}
}
