package auth

import (
	"context"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	findByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	createWithAccountFn func(ctx context.Context, user *model.User, account *model.Account) error
	updateRoleFn        func(ctx context.Context, id int64, role model.Role) (bool, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) CreateWithAccount(ctx context.Context, user *model.User, account *model.Account) error {
	if m.createWithAccountFn != nil {
		return m.createWithAccountFn(ctx, user, account)
	}
	return nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role model.Role) (bool, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return false, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) CountByRole(_ context.Context) (map[model.Role]int, error) {
	return nil, nil
}

type mockAccountRepo struct {
	findByProviderFn func(ctx context.Context, provider, providerUserID string) (*model.Account, error)
	findCredentialFn func(ctx context.Context, userID int64) (*model.Account, error)
}

func (m *mockAccountRepo) FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Account, error) {
	if m.findByProviderFn != nil {
		return m.findByProviderFn(ctx, provider, providerUserID)
	}
	return nil, nil
}

func (m *mockAccountRepo) FindCredentialByUserID(ctx context.Context, userID int64) (*model.Account, error) {
	if m.findCredentialFn != nil {
		return m.findCredentialFn(ctx, userID)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID int64) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

type mockOAuthProvider struct {
	getLoginURLFn  func(state string) string
	exchangeCodeFn func(ctx context.Context, code string) (*OAuthUserInfo, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return ""
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	if m.exchangeCodeFn != nil {
		return m.exchangeCodeFn(ctx, code)
	}
	return nil, nil
}

// --- compile-time interface checks ---
var _ repository.UserRepository = (*mockUserRepo)(nil)
var _ repository.AccountRepository = (*mockAccountRepo)(nil)
var _ repository.SessionRepository = (*mockSessionRepo)(nil)
var _ OAuthProvider = (*mockOAuthProvider)(nil)
