// Package commandcenter は司令センターのコマンド操作を提供する。
//
// 各操作はルートゲートを通過済みのリクエストに対しても、必ず
// 認可ガードを再実行してから本体の処理へ進む。ゲートのプレフィックス
// テーブル設定ミスが権限昇格に直結しないための多層防御である。
package commandcenter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/auth"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/inventory"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/report"
)

// AllowedRoles は司令センター操作を許可するロール集合。
var AllowedRoles = []model.Role{model.RoleVolunteer, model.RoleAdmin}

// Service は司令センターのコマンド操作を提供する。
// 通報への対応着手・解決、全通報一覧、在庫一覧の薄い呼び出し口であり、
// 本体のロジックはreport/inventoryサービスに委譲する。
type Service struct {
	guard     *auth.Guard
	reports   *report.Service
	inventory *inventory.Service
}

// NewService はServiceを生成する。
func NewService(guard *auth.Guard, reports *report.Service, inv *inventory.Service) *Service {
	return &Service{
		guard:     guard,
		reports:   reports,
		inventory: inv,
	}
}

// ListReports は全通報を通報者情報付きで返す。
func (s *Service) ListReports(ctx context.Context, r *http.Request) ([]*model.ReportWithReporter, error) {
	if _, err := s.guard.RequireAnyRole(ctx, r, AllowedRoles...); err != nil {
		return nil, err
	}
	return s.reports.ListAll(ctx)
}

// TakeCharge は通報への対応に着手し、状態をin_progressにする。
// 現在の状態がpendingでなくても上書きされる（last-write-wins）。
// 同じ通報に対する同時のTakeChargeは後勝ちとなり、両者に成功が返る。
func (s *Service) TakeCharge(ctx context.Context, r *http.Request, reportID int64) error {
	user, err := s.guard.RequireAnyRole(ctx, r, AllowedRoles...)
	if err != nil {
		return err
	}

	if err := s.reports.TakeCharge(ctx, reportID); err != nil {
		return err
	}

	slog.Info("report taken in charge",
		slog.Int64("report_id", reportID),
		slog.String("operator_id", user.ID),
		slog.String("operator_role", string(user.Role)),
	)
	return nil
}

// MarkResolved は通報を解決済みにし、状態をresolvedにする。
func (s *Service) MarkResolved(ctx context.Context, r *http.Request, reportID int64) error {
	user, err := s.guard.RequireAnyRole(ctx, r, AllowedRoles...)
	if err != nil {
		return err
	}

	if err := s.reports.MarkResolved(ctx, reportID); err != nil {
		return err
	}

	slog.Info("report marked resolved",
		slog.Int64("report_id", reportID),
		slog.String("operator_id", user.ID),
		slog.String("operator_role", string(user.Role)),
	)
	return nil
}

// ListInventory は全拠点の在庫一覧を返す。
func (s *Service) ListInventory(ctx context.Context, r *http.Request) ([]*model.InventoryItem, error) {
	if _, err := s.guard.RequireAnyRole(ctx, r, AllowedRoles...); err != nil {
		return nil, err
	}
	return s.inventory.List(ctx)
}

// Stats は通報と在庫の集計情報をまとめて返す。司令センターの概況表示用。
func (s *Service) Stats(ctx context.Context, r *http.Request) (*model.ReportStats, *model.InventoryStats, error) {
	if _, err := s.guard.RequireAnyRole(ctx, r, AllowedRoles...); err != nil {
		return nil, nil, err
	}

	reportStats, err := s.reports.Stats(ctx)
	if err != nil {
		return nil, nil, err
	}
	invStats, err := s.inventory.Stats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return reportStats, invStats, nil
}
