// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// ルートゲートのリダイレクト先。
const (
	loginPath        = "/auth"
	unauthorizedPath = "/unauthorized"
	dashboardRoot    = "/dashboard"
)

// 認証必須のパスプレフィックス。
var authRequiredPrefixes = []string{
	"/dashboard",
	"/sos",
	"/inventory",
	"/command-center",
}

// adminロールのみ許可するパスプレフィックス。
var adminOnlyPrefixes = []string{
	"/command-center",
	"/dashboard/admin",
}

// GateAction はルートゲートが各リクエストに対して下す判定の種別。
type GateAction int

const (
	// GatePass はリクエストをそのまま通過させる。
	GatePass GateAction = iota
	// GateRedirectLogin は未認証リクエストをログインページへ送る。
	GateRedirectLogin
	// GateRedirectUnauthorized はロール不一致のリクエストを拒否ページへ送る。
	GateRedirectUnauthorized
	// GateRedirectRoleHome はダッシュボード配下を自ロールの領域へ送る。
	GateRedirectRoleHome
)

// String はメトリクスラベル用の表現を返す。
func (a GateAction) String() string {
	switch a {
	case GatePass:
		return "pass"
	case GateRedirectLogin:
		return "redirect_login"
	case GateRedirectUnauthorized:
		return "redirect_unauthorized"
	case GateRedirectRoleHome:
		return "redirect_role_home"
	default:
		return "unknown"
	}
}

// GateDecision はルートゲートの判定結果。PassではないときTargetにリダイレクト先を持つ。
type GateDecision struct {
	Action GateAction
	Target string
}

// DecideRoute はパスと解決済みセッションからゲート判定を行う純粋関数。
// userがnilの場合は未認証を意味する。セッション状態を変更しない。
//
// 判定順序:
//  1. 認証必須プレフィックスに一致しない → 通過（公開ルート）
//  2. 未認証 → ログインへ
//  3. admin専用プレフィックスかつロールがadminでない → 拒否ページへ
//  4. ダッシュボードのルート → 自ロールのダッシュボードへ
//  5. 他ロールのダッシュボード配下 → ダッシュボードのルートへ（認証済みなので
//     拒否ページではなく緩やかに戻す）
//  6. それ以外 → 通過
func DecideRoute(path string, user *auth.SessionUser) GateDecision {
	if !matchesAnyPrefix(path, authRequiredPrefixes) {
		return GateDecision{Action: GatePass}
	}

	if user == nil {
		return GateDecision{Action: GateRedirectLogin, Target: loginPath}
	}

	if matchesAnyPrefix(path, adminOnlyPrefixes) && user.Role != model.RoleAdmin {
		return GateDecision{Action: GateRedirectUnauthorized, Target: unauthorizedPath}
	}

	if path == dashboardRoot || path == dashboardRoot+"/" {
		return GateDecision{Action: GateRedirectRoleHome, Target: dashboardRoot + "/" + string(user.Role)}
	}

	if seg := dashboardRoleSegment(path); seg != "" && seg != string(user.Role) {
		return GateDecision{Action: GateRedirectRoleHome, Target: dashboardRoot}
	}

	return GateDecision{Action: GatePass}
}

// matchesAnyPrefix はパスがプレフィックスのいずれかに一致するかを返す。
// パス区切りを考慮し、/dashboardxのような部分文字列一致は除外する。
func matchesAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// dashboardRoleSegment はロール別ダッシュボード配下のパスからロールセグメントを
// 取り出す。/dashboard/citizen/... → "citizen"。ロール別ダッシュボードでない
// パス（未知のセグメントを含む）には空文字列を返す。
func dashboardRoleSegment(path string) string {
	rest, ok := strings.CutPrefix(path, dashboardRoot+"/")
	if !ok {
		return ""
	}
	seg, _, _ := strings.Cut(rest, "/")
	if model.Role(seg).IsValid() {
		return seg
	}
	return ""
}

// NewRouteGateMiddleware はルートゲートミドルウェアを返す。
// 全リクエストの先頭で一度だけセッションを解決し、パスプレフィックスに基づいて
// 通過・リダイレクトを判定する。アクション層のガードより前に走るが、ガードの
// 代替ではない（多層防御）。
//
// recordFnがnilでない場合、判定結果をメトリクスとして記録する。
// セッションストア障害はリダイレクトに落とさず500を返す。
func NewRouteGateMiddleware(resolver *auth.Resolver, recordFn func(action string)) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 公開ルートはセッション解決自体をスキップする
			if !matchesAnyPrefix(r.URL.Path, authRequiredPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			result, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				slog.Error("route gate session resolution failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			var user *auth.SessionUser
			if result != nil {
				user = &result.User
			}

			decision := DecideRoute(r.URL.Path, user)
			if recordFn != nil {
				recordFn(decision.Action.String())
			}

			if decision.Action == GatePass {
				next.ServeHTTP(w, r)
				return
			}

			slog.Info("route gate redirect",
				slog.String("path", r.URL.Path),
				slog.String("action", decision.Action.String()),
				slog.String("target", decision.Target),
			)
			http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
		})
	}
}
