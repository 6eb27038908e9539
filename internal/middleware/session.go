package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// sessionUserContextKey はリクエストコンテキストにセッションユーザーを格納するためのキー。
var sessionUserContextKey = contextKey("session_user")

// NewSessionMiddleware はCookieからセッションを解決し、正規化された
// SessionUserをリクエストコンテキストに注入するミドルウェアを返す。
// 未認証リクエストには401を、セッションストア障害には500を返す。
// APIルート用であり、ページルートのルートゲートとは独立に動作する。
func NewSessionMiddleware(resolver *auth.Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				slog.Error("session resolution failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}
			if result == nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			ctx := ContextWithUser(r.Context(), &result.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext はリクエストコンテキストからセッションユーザーを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*auth.SessionUser, error) {
	user, ok := ctx.Value(sessionUserContextKey).(*auth.SessionUser)
	if !ok || user == nil {
		return nil, fmt.Errorf("session user not found in context")
	}
	return user, nil
}

// ContextWithUser はコンテキストにセッションユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *auth.SessionUser) context.Context {
	return context.WithValue(ctx, sessionUserContextKey, user)
}
