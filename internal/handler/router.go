package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/metrics"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/middleware"
)

// HealthChecker はヘルスチェックエンドポイントが必要とするDB疎通確認の
// インターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	Resolver          *auth.Resolver
	Guard             *auth.Guard
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス（nil可）
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 通報
	ReportService ReportServiceInterface

	// 指令センター
	CommandCenterService CommandCenterServiceInterface

	// 在庫
	InventoryService InventoryServiceInterface

	// ユーザー管理
	UserService UserServiceInterface
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ルートゲートはトップレベルに装着し、ページ配下の全パス（未登録パス含む）の
// 未認証・ロール不一致を307リダイレクトで処理する。APIルートはCSRF →
// Session → RateLimitのチェーンの背後に置き、JSONエラーレスポンスで処理する。
// ゲートとガードは意図的に重複しており、どちらか一方に統合してはならない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通: Recovery → Logging → SecurityHeaders → CORS → RouteGate
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewHTTPMetricsMiddleware(deps.Metrics.RecordHTTPStatus))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	// ルートゲートはトップレベルに装着する。グループミドルウェアは登録済み
	// ルートにしか適用されず、未登録パス（/dashboard直下やゲート対象配下の
	// 深いパス）が404でゲートを素通りしてしまうため。
	var recordGate func(action string)
	if deps.Metrics != nil {
		recordGate = deps.Metrics.RecordGateDecision
	}
	r.Use(middleware.NewRouteGateMiddleware(deps.Resolver, recordGate))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	reportHandler := NewReportHandler(deps.ReportService, deps.Metrics)
	ccHandler := NewCommandCenterHandler(deps.CommandCenterService, deps.Metrics)
	invHandler := NewInventoryHandler(deps.InventoryService, deps.Guard)
	userHandler := NewUserHandler(deps.UserService)
	pageHandler := NewPageHandler()

	// --- ページルート ---
	// ゲート判定はトップレベルミドルウェアで済んでいるため、ここは表示のみ。
	r.Get("/", pageHandler.Home())
	r.Get("/auth", pageHandler.AuthPage())
	r.Get("/unauthorized", pageHandler.UnauthorizedPage())
	r.Get("/dashboard/citizen", pageHandler.CitizenDashboard())
	r.Get("/dashboard/volunteer", pageHandler.VolunteerDashboard())
	r.Get("/dashboard/admin", pageHandler.AdminDashboard())
	r.Get("/sos", pageHandler.SOSPage())
	r.Get("/inventory", pageHandler.InventoryPage())
	r.Get("/command-center", pageHandler.CommandCenterPage())

	// --- ヘルスチェック ---
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// --- メトリクスエンドポイント ---
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 認証ルート（セッション不要）
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/google/login", authHandler.GoogleLogin)
			r.Get("/google/callback", authHandler.GoogleCallback)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		// 認証必須ルート
		// ミドルウェアスタック: Session → RateLimit(General)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.Resolver))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			// SOS通報
			r.Route("/reports", func(r chi.Router) {
				// POST /api/reports - 通報作成（通報専用レート制限を追加）
				r.With(deps.RateLimiter.ReportCreationMiddleware()).Post("/", reportHandler.Create)
				r.Get("/", reportHandler.ListMine)
				r.Get("/{id}", reportHandler.Get)
			})

			// 指令センター
			r.Route("/command-center", func(r chi.Router) {
				r.Get("/reports", ccHandler.ListReports)
				r.Post("/reports/{id}/take-charge", ccHandler.TakeCharge)
				r.Post("/reports/{id}/resolve", ccHandler.MarkResolved)
				r.Get("/inventory", ccHandler.ListInventory)
				r.Get("/stats", ccHandler.Stats)
			})

			// 救援物資在庫
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", invHandler.List)
				r.Post("/", invHandler.Create)
				r.Get("/stats", invHandler.Stats)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", invHandler.Get)
					r.Put("/quantity", invHandler.SetQuantity)
					r.Post("/adjust", invHandler.Adjust)
				})
			})

			// ユーザー管理
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/stats", userHandler.CountByRole)
				r.Put("/{id}/role", userHandler.UpdateRole)
			})
		})
	})

	return r
}
