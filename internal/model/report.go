// Package model はドメインモデルを定義する。
package model

import "time"

// ReportType はSOS通報の種別を表す。
type ReportType string

const (
	ReportTypeMedical         ReportType = "medical"
	ReportTypeFire            ReportType = "fire"
	ReportTypeAccident        ReportType = "accident"
	ReportTypeCrime           ReportType = "crime"
	ReportTypeNaturalDisaster ReportType = "natural_disaster"
	ReportTypeOther           ReportType = "other"
)

// IsValid は通報種別が定義済みの値であるかを返す。
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeMedical, ReportTypeFire, ReportTypeAccident,
		ReportTypeCrime, ReportTypeNaturalDisaster, ReportTypeOther:
		return true
	default:
		return false
	}
}

// ReportStatus は通報の対応状態を表す。
// 遷移: pending（初期）→ in_progress → resolved（終端）。
// cancelledは終端状態として予約されているが、現行の操作からは到達しない。
type ReportStatus string

const (
	// ReportStatusPending は未対応の初期状態。
	ReportStatusPending ReportStatus = "pending"
	// ReportStatusInProgress はボランティア/管理者が対応中の状態。
	ReportStatusInProgress ReportStatus = "in_progress"
	// ReportStatusResolved は対応完了の終端状態。
	ReportStatusResolved ReportStatus = "resolved"
	// ReportStatusCancelled は取り消しの終端状態（予約）。
	ReportStatusCancelled ReportStatus = "cancelled"
)

// IsValid は対応状態が定義済みの値であるかを返す。
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress,
		ReportStatusResolved, ReportStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal は対応状態が終端（これ以上遷移しない）であるかを返す。
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusResolved || s == ReportStatusCancelled
}

// Report は市民からのSOS通報を表す。
type Report struct {
	ID          int64
	UserID      int64
	Type        ReportType
	Status      ReportStatus
	Location    string
	Description string
	CreatedAt   time.Time
}

// ReportWithReporter は通報と通報者情報を結合した参照用の構造体。
// 指令センターの一覧表示で使用する。通報者が削除済みの場合、
// ReporterName/ReporterEmailは空になる。
type ReportWithReporter struct {
	Report
	ReporterName  string
	ReporterEmail string
}

// ReportStats は通報の集計情報を表す。
type ReportStats struct {
	ByStatus map[ReportStatus]int
	ByType   map[ReportType]int
	Total    int
}
