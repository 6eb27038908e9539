// Package app はアプリケーションの起動と依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/commandcenter"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/config"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/database"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/handler"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/inventory"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/logger"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/metrics"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/middleware"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/report"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/security"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/user"
)

// sessionCleanupInterval は期限切れセッション削除ジョブの実行間隔。
const sessionCleanupInterval = 1 * time.Hour

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	accountRepo := repository.NewPostgresAccountRepo(db)
	sessionRepo := repository.NewPostgresSessionRepo(db)
	reportRepo := repository.NewPostgresReportRepo(db)
	inventoryRepo := repository.NewPostgresInventoryRepo(db)

	// 3. セッション解決と認可ガード
	resolver := auth.NewResolver(sessionRepo, userRepo)
	guard := auth.NewGuard(resolver)

	// 4. ドメインサービスの初期化
	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	authService := auth.NewService(
		oauthProvider, userRepo, accountRepo, sessionRepo,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)

	sanitizer := security.NewTextSanitizer()
	reportService := report.NewService(reportRepo, userRepo, sanitizer)
	inventoryService := inventory.NewService(inventoryRepo, sanitizer)
	commandCenterService := commandcenter.NewService(guard, reportService, inventoryService)
	userService := user.NewService(guard, userRepo)

	// 5. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 6. ルーターの構築
	rateLimitConfig := middleware.DefaultRateLimiterConfig()
	rateLimitConfig.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimitConfig.GeneralBurst = cfg.RateLimitGeneral
	rateLimitConfig.ReportRate = rate.Limit(float64(cfg.RateLimitSOSReport) / 60.0)
	rateLimitConfig.ReportBurst = cfg.RateLimitSOSReport
	rateLimiter := middleware.NewRateLimiter(rateLimitConfig)
	defer rateLimiter.Stop()

	deps := &handler.RouterDeps{
		HealthChecker:     db,
		Resolver:          resolver,
		Guard:             guard,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		RateLimiter:    rateLimiter,
		Logger:         slog.Default(),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			BaseURL:       cfg.BaseURL,
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		ReportService:        reportService,
		CommandCenterService: commandCenterService,
		InventoryService:     inventoryService,
		UserService:          userService,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// 期限切れセッションの定期削除
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go runSessionCleanup(cleanupCtx, sessionRepo)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runSessionCleanup は期限切れセッションを定期的に削除する。
func runSessionCleanup(ctx context.Context, sessionRepo repository.SessionRepository) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessionRepo.DeleteExpired(ctx)
			if err != nil {
				slog.Error("session cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if deleted > 0 {
				slog.Info("expired sessions deleted", slog.Int64("count", deleted))
			}
		}
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runSeed は備蓄在庫の既定品目を投入する。
// すでに在庫データが存在する場合は何もしない。
func runSeed(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	inventoryRepo := repository.NewPostgresInventoryRepo(db)
	inventoryService := inventory.NewService(inventoryRepo, security.NewTextSanitizer())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := inventoryService.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	slog.Info("inventory seed completed")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
