// Package auth はセッション解決、認可ガード、認証フローを提供する。
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// SessionUser はコア層が扱うユーザーの正規化された射影。
// IdentityProvider側の生のスキーマから切り離すため、
// 認可ガードとルートゲートはこの形のみを参照する。
// 常に導出され、永続化されることはない。
type SessionUser struct {
	ID    string
	Email string
	Role  model.Role
}

// SessionMeta はセッションのメタ情報（ID、有効期限）を表す。
type SessionMeta struct {
	ID        string
	ExpiresAt time.Time
}

// SessionResult はセッション解決の結果。ユーザー射影とセッションメタを持つ。
type SessionResult struct {
	User    SessionUser
	Session SessionMeta
}

// Resolver はリクエストからアクティブなセッションを解決する。
// 読み取り専用の操作であり、同一リクエスト内で複数回呼び出しても安全。
type Resolver struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
}

// NewResolver はResolverを生成する。
func NewResolver(sessionRepo repository.SessionRepository, userRepo repository.UserRepository) *Resolver {
	return &Resolver{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// Resolve はリクエストのCookieからアクティブなセッションを解決する。
//
// Cookieが存在しない・空・セッションが期限切れ・ユーザーが存在しない場合は
// (nil, nil) を返す。これらはすべて「未認証」として同一に扱う。
// ストア障害はnilに落とさず、インフラエラーとしてそのまま伝播させる。
// 呼び出し側は「未認証」と「認証基盤の障害」を区別できる。
func (rv *Resolver) Resolve(ctx context.Context, r *http.Request) (*SessionResult, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	session, err := rv.sessionRepo.FindByID(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := rv.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	if user == nil {
		// セッションは残っているがユーザーが削除済み。未認証として扱う。
		return nil, nil
	}

	return toSessionResult(user, session), nil
}

// toSessionResult は生のユーザー/セッションをコア層の正規形に変換する。
// IDは文字列に正規化し、ロールは未知の値をDefaultRole（citizen）に倒す。
func toSessionResult(user *model.User, session *model.Session) *SessionResult {
	return &SessionResult{
		User: SessionUser{
			ID:    strconv.FormatInt(user.ID, 10),
			Email: user.Email,
			Role:  model.NormalizeRole(string(user.Role)),
		},
		Session: SessionMeta{
			ID:        session.ID,
			ExpiresAt: session.ExpiresAt,
		},
	}
}
