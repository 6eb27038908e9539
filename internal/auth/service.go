// Package auth はセッション解決、認可ガード、認証フローを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "google" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 複数IdP対応のための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ClientMeta はセッションに記録するクライアント情報。認可判断には使用しない。
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service はログイン・サインアップ・ログアウトのビジネスロジックを提供する。
// パスワードハッシュとOAuthハンドシェイクの詳細はこの層に閉じ、
// コアのガード/ゲートからは見えない。
type Service struct {
	oauth       OAuthProvider
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Register はメール+パスワードで新規ユーザーを登録し、セッションを発行する。
// ロールは常にDefaultRole（citizen）で作成される。サインアップ時に
// ロールを指定する手段は提供しない。
func (s *Service) Register(ctx context.Context, email, name, password string, meta ClientMeta) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, model.NewValidationError("メールアドレスの形式が不正です")
	}
	if strings.TrimSpace(name) == "" {
		return nil, model.NewValidationError("名前は必須です")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, model.NewValidationError("パスワードは8文字以上72バイト以下で指定してください")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	now := time.Now()
	newUser := &model.User{
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      model.DefaultRole,
		CreatedAt: now,
	}
	newAccount := &model.Account{
		ID:           uuid.New().String(),
		Provider:     repository.ProviderCredential,
		PasswordHash: hash,
		CreatedAt:    now,
	}

	if err := s.userRepo.CreateWithAccount(ctx, newUser, newAccount); err != nil {
		return nil, fmt.Errorf("failed to create user and account: %w", err)
	}

	slog.Info("new user registered",
		slog.Int64("user_id", newUser.ID),
		slog.String("email", email),
	)

	return s.createSession(ctx, newUser.ID, meta)
}

// LoginWithCredentials はメール+パスワードでログインし、セッションを発行する。
// ユーザー不在とパスワード不一致は同一のエラーとして返す（列挙攻撃対策）。
func (s *Service) LoginWithCredentials(ctx context.Context, email, password string, meta ClientMeta) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, model.NewValidationError("メールアドレスとパスワードは必須です")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	account, err := s.accountRepo.FindCredentialByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find credential account: %w", err)
	}
	if account == nil {
		// OAuthのみで登録されたユーザー。パスワードログインは不可。
		return nil, model.NewUnauthorizedError()
	}

	if err := CheckPassword(account.PasswordHash, password); err != nil {
		return nil, model.NewUnauthorizedError()
	}

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
	)

	return s.createSession(ctx, user.ID, meta)
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// 未登録ユーザーの場合はusersレコードとaccountsレコードを同時に自動作成する。
// 登録済みユーザーの場合はaccountsテーブルで既存ユーザーを特定しログインする。
func (s *Service) HandleCallback(ctx context.Context, code string, meta ClientMeta) (*model.Session, error) {
	// 1. 認可コードをトークンに交換し、ユーザー情報を取得
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. accountsテーブルで既存ユーザーを検索
	account, err := s.accountRepo.FindByProviderAndProviderUserID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	var userID int64

	if account != nil {
		// 3a. 既存ユーザー: accountからユーザーIDを取得
		userID = account.UserID
		slog.Info("existing user logged in",
			slog.Int64("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
	} else {
		// 3b. 新規ユーザー: usersレコードとaccountsレコードを同時に作成
		now := time.Now()

		newUser := &model.User{
			Email:     userInfo.Email,
			Name:      userInfo.Name,
			Role:      model.DefaultRole,
			CreatedAt: now,
		}

		newAccount := &model.Account{
			ID:             uuid.New().String(),
			Provider:       userInfo.Provider,
			ProviderUserID: userInfo.ProviderUserID,
			CreatedAt:      now,
		}

		if err := s.userRepo.CreateWithAccount(ctx, newUser, newAccount); err != nil {
			return nil, fmt.Errorf("failed to create user and account: %w", err)
		}

		userID = newUser.ID
		slog.Info("new user created",
			slog.Int64("user_id", userID),
			slog.String("email", userInfo.Email),
			slog.String("provider", userInfo.Provider),
		)
	}

	// 4. セッションを発行
	return s.createSession(ctx, userID, meta)
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションIDから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID int64, meta ClientMeta) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
		UpdatedAt: now,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}
