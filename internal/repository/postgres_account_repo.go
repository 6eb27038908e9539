package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// ProviderCredential はパスワード認証のaccountを示すprovider名。
const ProviderCredential = "credential"

// PostgresAccountRepo はPostgreSQLを使用したaccountリポジトリ。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// FindByProviderAndProviderUserID はproviderとprovider_user_idでaccountを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_user_id, password_hash, created_at
		 FROM accounts
		 WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID,
	).Scan(&account.ID, &account.UserID, &account.Provider, &account.ProviderUserID, &account.PasswordHash, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return account, nil
}

// FindCredentialByUserID はパスワード認証用accountをユーザーIDで検索する。
// 見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindCredentialByUserID(ctx context.Context, userID int64) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_user_id, password_hash, created_at
		 FROM accounts
		 WHERE provider = $1 AND user_id = $2`,
		ProviderCredential, userID,
	).Scan(&account.ID, &account.UserID, &account.Provider, &account.ProviderUserID, &account.PasswordHash, &account.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credential account: %w", err)
	}

	return account, nil
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
