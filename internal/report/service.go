// Package report はSOS通報のライフサイクル管理機能を提供する。
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/repository"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/security"
)

// maxTextLength は位置情報・状況説明の最大長。
const maxTextLength = 2000

// Service はSOS通報の作成と状態遷移のビジネスロジックを提供する。
//
// 状態遷移（take charge / mark resolved）は現在の状態を検証せずに
// 次の状態を書き込む。ストア層はlast-write-winsであり、複数の担当者が
// 同じ通報を同時に引き受けた場合の競合は解決しない。
type Service struct {
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository
	sanitizer  security.TextSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizerService,
) *Service {
	return &Service{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		sanitizer:  sanitizer,
	}
}

// CreateInput は通報作成の入力。
type CreateInput struct {
	UserID      int64
	Type        string
	Location    string
	Description string
}

// Create は新しい通報をpending状態で作成する。
// 通報者のユーザーIDが存在しない場合はNotFound、種別が未知の場合や
// 位置情報・状況説明が空の場合はValidationエラーを返す。
// テキストはサニタイズ後に空判定する（マークアップのみの入力は空とみなす）。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Report, error) {
	reportType := model.ReportType(input.Type)
	if !reportType.IsValid() {
		return nil, model.NewValidationError(fmt.Sprintf("未知の通報種別です: %s", input.Type))
	}

	location := s.sanitizer.Sanitize(input.Location)
	if location == "" {
		return nil, model.NewValidationError("位置情報は必須です")
	}
	if len(location) > maxTextLength {
		return nil, model.NewValidationError("位置情報が長すぎます")
	}

	description := s.sanitizer.Sanitize(input.Description)
	if description == "" {
		return nil, model.NewValidationError("状況説明は必須です")
	}
	if len(description) > maxTextLength {
		return nil, model.NewValidationError("状況説明が長すぎます")
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reporter: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	report := &model.Report{
		UserID:      input.UserID,
		Type:        reportType,
		Status:      model.ReportStatusPending,
		Location:    location,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	slog.Info("report created",
		slog.Int64("report_id", report.ID),
		slog.Int64("user_id", input.UserID),
		slog.String("type", string(reportType)),
	)

	return report, nil
}

// TakeCharge は通報をin_progress状態にする。
// 現在の状態がpendingであることは検証しない。担当済みの通報に対して
// 呼び出された場合も上書きされる。
func (s *Service) TakeCharge(ctx context.Context, reportID int64) error {
	return s.updateStatus(ctx, reportID, model.ReportStatusInProgress)
}

// MarkResolved は通報をresolved状態にする。
// 現在の状態がin_progressであることは検証しない。
func (s *Service) MarkResolved(ctx context.Context, reportID int64) error {
	return s.updateStatus(ctx, reportID, model.ReportStatusResolved)
}

// Cancel は通報をcancelled状態にする。
func (s *Service) Cancel(ctx context.Context, reportID int64) error {
	return s.updateStatus(ctx, reportID, model.ReportStatusCancelled)
}

// updateStatus は通報の状態を更新する。対象が存在しない場合はNotFoundを返す。
func (s *Service) updateStatus(ctx context.Context, reportID int64, status model.ReportStatus) error {
	updated, err := s.reportRepo.UpdateStatus(ctx, reportID, status)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	if !updated {
		return model.NewReportNotFoundError(reportID)
	}

	slog.Info("report status updated",
		slog.Int64("report_id", reportID),
		slog.String("status", string(status)),
	)

	return nil
}

// GetByID は指定IDの通報を返す。存在しない場合はNotFoundを返す。
func (s *Service) GetByID(ctx context.Context, reportID int64) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	if report == nil {
		return nil, model.NewReportNotFoundError(reportID)
	}
	return report, nil
}

// ListAll は全通報を通報者情報付きで作成日時降順に返す。
func (s *Service) ListAll(ctx context.Context) ([]*model.ReportWithReporter, error) {
	reports, err := s.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ListByUser は指定ユーザーの通報を作成日時降順に返す。
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*model.Report, error) {
	reports, err := s.reportRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reports: %w", err)
	}
	return reports, nil
}

// Stats は通報の集計情報を返す。
func (s *Service) Stats(ctx context.Context) (*model.ReportStats, error) {
	stats, err := s.reportRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate report stats: %w", err)
	}
	return stats, nil
}
