// Package user はユーザー管理機能を提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
)

// Service はユーザーの参照とロール管理のビジネスロジックを提供する。
// ロール変更は唯一の権限昇格経路であり、必ずadminガードを通る。
type Service struct {
	guard    *auth.Guard
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(guard *auth.Guard, userRepo repository.UserRepository) *Service {
	return &Service{
		guard:    guard,
		userRepo: userRepo,
	}
}

// GetByID は指定IDのユーザーを返す。存在しない場合はNotFoundを返す。
func (s *Service) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// GetByEmail はメールアドレスでユーザーを検索する。存在しない場合はNotFoundを返す。
func (s *Service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// List は全ユーザーを返す。admin専用。
func (s *Service) List(ctx context.Context, r *http.Request) ([]*model.User, error) {
	if _, err := s.guard.RequireRole(ctx, r, model.RoleAdmin); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateRole は指定ユーザーのロールを変更する。admin専用。
// 未知のロール値はInvalidRole、対象ユーザーの不在はNotFoundを返す。
func (s *Service) UpdateRole(ctx context.Context, r *http.Request, targetUserID int64, rawRole string) error {
	operator, err := s.guard.RequireRole(ctx, r, model.RoleAdmin)
	if err != nil {
		return err
	}

	role := model.Role(rawRole)
	if !role.IsValid() {
		return model.NewInvalidRoleError(rawRole)
	}

	updated, err := s.userRepo.UpdateRole(ctx, targetUserID, role)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	if !updated {
		return model.NewUserNotFoundError()
	}

	slog.Info("user role updated",
		slog.Int64("target_user_id", targetUserID),
		slog.String("new_role", string(role)),
		slog.String("operator_id", operator.ID),
	)

	return nil
}

// CountByRole はロールごとのユーザー数を返す。admin専用。
func (s *Service) CountByRole(ctx context.Context, r *http.Request) (map[model.Role]int, error) {
	if _, err := s.guard.RequireRole(ctx, r, model.RoleAdmin); err != nil {
		return nil, err
	}

	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return counts, nil
}
