package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// PostgresReportRepo はPostgreSQLを使用したSOS通報リポジトリ。
type PostgresReportRepo struct {
	db *sql.DB
}

// NewPostgresReportRepo はPostgresReportRepoを生成する。
func NewPostgresReportRepo(db *sql.DB) *PostgresReportRepo {
	return &PostgresReportRepo{db: db}
}

// Create は通報を作成する。作成されたIDをreport.IDに書き戻す。
func (r *PostgresReportRepo) Create(ctx context.Context, report *model.Report) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reports (user_id, type, status, location, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		report.UserID, report.Type, report.Status, report.Location, report.Description, report.CreatedAt,
	).Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// FindByID は指定IDの通報を取得する。見つからない場合はnilを返す。
func (r *PostgresReportRepo) FindByID(ctx context.Context, id int64) (*model.Report, error) {
	report := &model.Report{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, status, location, description, created_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&report.ID, &report.UserID, &report.Type, &report.Status,
		&report.Location, &report.Description, &report.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report by ID: %w", err)
	}

	return report, nil
}

// ListAll は全通報を通報者情報付きで作成日時降順に返す。
// 通報者が削除済みの場合は名前・メールを空文字列とする。
func (r *PostgresReportRepo) ListAll(ctx context.Context) ([]*model.ReportWithReporter, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.user_id, r.type, r.status, r.location, r.description, r.created_at,
		        COALESCE(u.name, ''), COALESCE(u.email, '')
		 FROM reports r
		 LEFT JOIN users u ON r.user_id = u.id
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.ReportWithReporter
	for rows.Next() {
		rep := &model.ReportWithReporter{}
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.Type, &rep.Status,
			&rep.Location, &rep.Description, &rep.CreatedAt,
			&rep.ReporterName, &rep.ReporterEmail); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return reports, nil
}

// ListByUserID は指定ユーザーの通報を作成日時降順に返す。
func (r *PostgresReportRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, status, location, description, created_at
		 FROM reports
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.Report
	for rows.Next() {
		report := &model.Report{}
		if err := rows.Scan(&report.ID, &report.UserID, &report.Type, &report.Status,
			&report.Location, &report.Description, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user reports: %w", err)
	}

	return reports, nil
}

// UpdateStatus は通報の対応状態を更新する。
// 現在の状態は検証しない（last-write-wins）。対象が存在しない場合はfalseを返す。
func (r *PostgresReportRepo) UpdateStatus(ctx context.Context, id int64, status model.ReportStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reports SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update report status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Stats は通報の集計情報を返す。
func (r *PostgresReportRepo) Stats(ctx context.Context) (*model.ReportStats, error) {
	stats := &model.ReportStats{
		ByStatus: make(map[model.ReportStatus]int),
		ByType:   make(map[model.ReportType]int),
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM reports GROUP BY status`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status model.ReportStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	typeRows, err := r.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM reports GROUP BY type`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports by type: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var typ model.ReportType
		var count int
		if err := typeRows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ByType[typ] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type counts: %w", err)
	}

	return stats, nil
}

// compile-time interface check
var _ ReportRepository = (*PostgresReportRepo)(nil)
