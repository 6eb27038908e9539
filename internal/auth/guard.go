package auth

import (
	"context"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// Guard は認可の前提条件を検査するガード群を提供する。
//
// ルートゲート（ミドルウェア）が同等のポリシーを持つが、ガードは
// アクション層で必ず再度呼び出す。プレフィックステーブルの設定ミスが
// 権限昇格に直結しないための多層防御であり、意図的な重複実装である。
// 両者を共通化してはならない。
type Guard struct {
	resolver *Resolver
}

// NewGuard はGuardを生成する。
func NewGuard(resolver *Resolver) *Guard {
	return &Guard{resolver: resolver}
}

// RequireAuth はログイン済みであることを要求する。
// セッションが解決できればSessionUserを返し、存在しなければ
// UNAUTHORIZEDのAPIErrorを返す。全ての特権操作が通過する単一の関門。
// インフラエラーは未認証に変換せず、そのまま伝播させる。
func (g *Guard) RequireAuth(ctx context.Context, r *http.Request) (*SessionUser, error) {
	result, err := g.resolver.Resolve(ctx, r)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, model.NewUnauthorizedError()
	}
	return &result.User, nil
}

// RequireRole はログイン済みかつ指定ロールと厳密に一致することを要求する。
// ロール間に階層はない（adminはvolunteer専用チェックを通過しない）。
// 不一致の場合は要求ロールを含むFORBIDDENのAPIErrorを返す。
func (g *Guard) RequireRole(ctx context.Context, r *http.Request, role model.Role) (*SessionUser, error) {
	user, err := g.RequireAuth(ctx, r)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, model.NewForbiddenError(role)
	}
	return user, nil
}

// RequireAnyRole はログイン済みかつ指定ロール集合のいずれかに属することを要求する。
// 不一致の場合は受理されるロール集合全体を含むFORBIDDENのAPIErrorを返す。
func (g *Guard) RequireAnyRole(ctx context.Context, r *http.Request, roles ...model.Role) (*SessionUser, error) {
	user, err := g.RequireAuth(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, model.NewForbiddenError(roles...)
}
