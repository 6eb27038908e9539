package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

func newCookie(value string) *http.Cookie {
	return &http.Cookie{Name: SessionCookieName, Value: value}
}

func TestResolve_NoCookie_ReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	rv := NewResolver(&mockSessionRepo{}, &mockUserRepo{})

	r := httptest.NewRequest("GET", "/dashboard", nil)

	result, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for request without cookie, got %+v", result)
	}
}

func TestResolve_EmptyCookie_ReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	rv := NewResolver(&mockSessionRepo{}, &mockUserRepo{})

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie(""))

	result, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for empty cookie, got %+v", result)
	}
}

func TestResolve_UnknownSession_ReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			// 期限切れ・存在しないセッションはリポジトリがnilを返す
			return nil, nil
		},
	}
	rv := NewResolver(sessionRepo, &mockUserRepo{})

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie("stale-session-id"))

	result, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for unknown session, got %+v", result)
	}
}

func TestResolve_DeletedUser_ReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, nil
		},
	}
	rv := NewResolver(sessionRepo, userRepo)

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie("orphan-session"))

	result, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result when session user is gone, got %+v", result)
	}
}

func TestResolve_ValidSession_ReturnsNormalizedUser(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: 42, ExpiresAt: expires}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 42, Email: "aicha@example.com", Name: "Aicha", Role: model.RoleVolunteer}, nil
		},
	}
	rv := NewResolver(sessionRepo, userRepo)

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie("valid-session"))

	result, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.User.ID != "42" {
		t.Errorf("user ID = %q, want %q", result.User.ID, "42")
	}
	if result.User.Email != "aicha@example.com" {
		t.Errorf("user email = %q, want %q", result.User.Email, "aicha@example.com")
	}
	if result.User.Role != model.RoleVolunteer {
		t.Errorf("user role = %q, want %q", result.User.Role, model.RoleVolunteer)
	}
	if result.Session.ID != "valid-session" {
		t.Errorf("session ID = %q, want %q", result.Session.ID, "valid-session")
	}
	if !result.Session.ExpiresAt.Equal(expires) {
		t.Errorf("session expiry = %v, want %v", result.Session.ExpiresAt, expires)
	}
}

func TestResolve_UnknownRole_FallsBackToCitizen(t *testing.T) {
	ctx := context.Background()
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 7, Email: "x@example.com", Role: model.Role("superuser")}, nil
		},
	}
	rv := NewResolver(sessionRepo, userRepo)

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie("s"))

	result, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.User.Role != model.RoleCitizen {
		t.Errorf("unknown role should normalize to citizen, got %q", result.User.Role)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: 42, ExpiresAt: expires}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 42, Email: "aicha@example.com", Role: model.RoleAdmin}, nil
		},
	}
	rv := NewResolver(sessionRepo, userRepo)

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie("valid-session"))

	first, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	second, err := rv.Resolve(ctx, r)
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if *first != *second {
		t.Errorf("Resolve is not idempotent: first = %+v, second = %+v", first, second)
	}
}

func TestResolve_StoreFailure_PropagatesError(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection refused")
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, storeErr
		},
	}
	rv := NewResolver(sessionRepo, &mockUserRepo{})

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(newCookie("valid-session"))

	result, err := rv.Resolve(ctx, r)
	if err == nil {
		t.Fatal("expected error when session store fails")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result on store failure, got %+v", result)
	}
	// ストア障害が「未認証」に化けていないこと
	if model.IsUnauthorized(err) {
		t.Error("infrastructure failure must not be classified as unauthorized")
	}
}
