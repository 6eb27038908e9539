package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

type mockSessionRepo struct {
	session *model.Session
}

func (m *mockSessionRepo) Create(_ context.Context, _ *model.Session) error { return nil }
func (m *mockSessionRepo) FindByID(_ context.Context, _ string) (*model.Session, error) {
	return m.session, nil
}
func (m *mockSessionRepo) DeleteByID(_ context.Context, _ string) error    { return nil }
func (m *mockSessionRepo) DeleteByUserID(_ context.Context, _ int64) error { return nil }
func (m *mockSessionRepo) DeleteExpired(_ context.Context) (int64, error)  { return 0, nil }

type mockUserRepo struct {
	operator     *model.User
	updateRoleFn func(ctx context.Context, id int64, role model.Role) (bool, error)
	listFn       func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserRepo) FindByID(_ context.Context, _ int64) (*model.User, error) {
	return m.operator, nil
}
func (m *mockUserRepo) FindByEmail(_ context.Context, _ string) (*model.User, error) { return nil, nil }
func (m *mockUserRepo) CreateWithAccount(_ context.Context, _ *model.User, _ *model.Account) error {
	return nil
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id int64, role model.Role) (bool, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, id, role)
	}
	return false, nil
}
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserRepo) CountByRole(_ context.Context) (map[model.Role]int, error) {
	return map[model.Role]int{}, nil
}

func newServiceAs(role model.Role, repo *mockUserRepo) *Service {
	sessionRepo := &mockSessionRepo{
		session: &model.Session{ID: "session-1", UserID: 99, ExpiresAt: time.Now().Add(time.Hour)},
	}
	repo.operator = &model.User{ID: 99, Email: "op@example.com", Role: role}
	return NewService(auth.NewGuard(auth.NewResolver(sessionRepo, repo)), repo)
}

func adminRequest() *http.Request {
	r := httptest.NewRequest("POST", "/api/users/5/role", nil)
	r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "session-1"})
	return r
}

func TestUpdateRole_Admin_UpdatesTarget(t *testing.T) {
	var gotID int64
	var gotRole model.Role
	repo := &mockUserRepo{
		updateRoleFn: func(ctx context.Context, id int64, role model.Role) (bool, error) {
			gotID = id
			gotRole = role
			return true, nil
		},
	}
	svc := newServiceAs(model.RoleAdmin, repo)

	if err := svc.UpdateRole(context.Background(), adminRequest(), 5, "volunteer"); err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if gotID != 5 || gotRole != model.RoleVolunteer {
		t.Errorf("updated (%d, %q), want (5, volunteer)", gotID, gotRole)
	}
}

func TestUpdateRole_NonAdmin_Forbidden(t *testing.T) {
	// ロールに階層はない。volunteerもロール変更はできない。
	for _, role := range []model.Role{model.RoleCitizen, model.RoleVolunteer} {
		t.Run(string(role), func(t *testing.T) {
			repo := &mockUserRepo{
				updateRoleFn: func(ctx context.Context, id int64, role model.Role) (bool, error) {
					t.Error("role must not be written for non-admin operator")
					return false, nil
				},
			}
			svc := newServiceAs(role, repo)

			err := svc.UpdateRole(context.Background(), adminRequest(), 5, "admin")
			if !model.IsForbidden(err) {
				t.Errorf("expected forbidden error, got %v", err)
			}
		})
	}
}

func TestUpdateRole_UnknownRole_ValidationError(t *testing.T) {
	svc := newServiceAs(model.RoleAdmin, &mockUserRepo{})

	err := svc.UpdateRole(context.Background(), adminRequest(), 5, "supreme_leader")
	if !model.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdateRole_UnknownTarget_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		updateRoleFn: func(ctx context.Context, id int64, role model.Role) (bool, error) {
			return false, nil
		},
	}
	svc := newServiceAs(model.RoleAdmin, repo)

	err := svc.UpdateRole(context.Background(), adminRequest(), 404, "volunteer")
	if !model.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestList_Admin_ReturnsUsers(t *testing.T) {
	repo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := newServiceAs(model.RoleAdmin, repo)

	users, err := svc.List(context.Background(), adminRequest())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

func TestList_Citizen_Forbidden(t *testing.T) {
	svc := newServiceAs(model.RoleCitizen, &mockUserRepo{})

	_, err := svc.List(context.Background(), adminRequest())
	if !model.IsForbidden(err) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}
