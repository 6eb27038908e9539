// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限ロールを表す。
// citizen / volunteer / admin の3値のみが有効で、3値の間に階層関係はない
// （adminがvolunteer専用のチェックを通過することはない）。
type Role string

const (
	// RoleCitizen は一般市民ロール。最小権限。
	RoleCitizen Role = "citizen"
	// RoleVolunteer はボランティアロール。通報への対応操作が可能。
	RoleVolunteer Role = "volunteer"
	// RoleAdmin は管理者ロール。ロール管理を含む全操作が可能。
	RoleAdmin Role = "admin"
)

// DefaultRole はロールが未設定・不正な場合に適用するフェイルセーフの既定値。
// 欠落したロールは常に最小権限側に倒す。
const DefaultRole = RoleCitizen

// IsValid はロールが定義済みの3値のいずれかであるかを返す。
func (r Role) IsValid() bool {
	switch r {
	case RoleCitizen, RoleVolunteer, RoleAdmin:
		return true
	default:
		return false
	}
}

// NormalizeRole は生の文字列をRoleに正規化する。
// 未知の値・空文字列はDefaultRole（citizen）にフォールバックする。
func NormalizeRole(raw string) Role {
	r := Role(raw)
	if !r.IsValid() {
		return DefaultRole
	}
	return r
}

// User はサービス利用ユーザーを表す。
// IDはストレージ上ではserial整数だが、コア層では文字列に正規化して扱う。
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// Account は認証手段（メール+パスワード、外部IdP）との紐付け情報を表す。
// パスワード認証の場合はProviderが"credential"となり、PasswordHashに
// bcryptハッシュを保持する。
type Account struct {
	ID             string
	UserID         int64
	Provider       string
	ProviderUserID string
	PasswordHash   string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// IPAddressとUserAgentは記録のみで、認可判断には使用しない。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	IPAddress string
	UserAgent string
}
