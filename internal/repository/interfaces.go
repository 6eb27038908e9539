// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateWithAccount はユーザーとaccountを同一トランザクションで作成する。
	// 作成されたユーザーIDをuser.IDに書き戻す。
	CreateWithAccount(ctx context.Context, user *model.User, account *model.Account) error

	// UpdateRole は指定ユーザーのロールを更新する。
	// 対象が存在しない場合はfalseを返す。
	UpdateRole(ctx context.Context, id int64, role model.Role) (bool, error)

	// List は全ユーザーを作成日時昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// CountByRole はロールごとのユーザー数を返す。
	CountByRole(ctx context.Context) (map[model.Role]int, error)
}

// AccountRepository は認証手段紐付け情報の永続化インターフェース。
type AccountRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでaccountを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Account, error)

	// FindCredentialByUserID はパスワード認証用accountをユーザーIDで検索する。
	// 見つからない場合はnilを返す。
	FindCredentialByUserID(ctx context.Context, userID int64) (*model.Account, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// ReportRepository はSOS通報の永続化インターフェース。
type ReportRepository interface {
	// Create は通報を作成する。作成されたIDをreport.IDに書き戻す。
	Create(ctx context.Context, report *model.Report) error

	// FindByID は指定IDの通報を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Report, error)

	// ListAll は全通報を通報者情報付きで作成日時降順に返す。
	ListAll(ctx context.Context) ([]*model.ReportWithReporter, error)

	// ListByUserID は指定ユーザーの通報を作成日時降順に返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Report, error)

	// UpdateStatus は通報の対応状態を更新する。
	// 現在の状態は検証しない（last-write-wins）。対象が存在しない場合はfalseを返す。
	UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) (bool, error)

	// Stats は通報の集計情報を返す。
	Stats(ctx context.Context) (*model.ReportStats, error)
}

// InventoryRepository は救援物資在庫の永続化インターフェース。
type InventoryRepository interface {
	// Create は在庫品目を作成する。作成されたIDをitem.IDに書き戻す。
	Create(ctx context.Context, item *model.InventoryItem) error

	// FindByID は指定IDの在庫品目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.InventoryItem, error)

	// List は全在庫を拠点名・品目名順で返す。
	List(ctx context.Context) ([]*model.InventoryItem, error)

	// ListByLocation は指定拠点の在庫を品目名順で返す。
	ListByLocation(ctx context.Context, location string) ([]*model.InventoryItem, error)

	// UpdateQuantity は在庫数量を更新する。対象が存在しない場合はfalseを返す。
	UpdateQuantity(ctx context.Context, id int64, quantity int) (bool, error)

	// Stats は在庫の集計情報を返す。
	Stats(ctx context.Context) (*model.InventoryStats, error)
}
