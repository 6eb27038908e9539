// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// インフラ障害（DB接続断など）はAPIErrorにせず、通常のエラーとして
// ラップして伝播させる。認可判断と混同してはならない。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, report, inventory, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeReportNotFound   = "REPORT_NOT_FOUND"
	ErrCodeItemNotFound     = "ITEM_NOT_FOUND"
	ErrCodeEmailTaken       = "EMAIL_TAKEN"
	ErrCodeInvalidRole      = "INVALID_ROLE"
	ErrCodeNegativeQuantity = "NEGATIVE_QUANTITY"
)

// NewUnauthorizedError は未認証エラーを生成する。
// セッションが存在しない場合にのみ使用する。ロール不一致はForbiddenを使う。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は認証済みだがロールが不一致の場合のエラーを生成する。
// メッセージには要求されたロール集合を含める。
func NewForbiddenError(roles ...Role) *APIError {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  fmt.Sprintf("Role '%s' required", strings.Join(names, "' or '")),
		Category: "auth",
		Action:   "このページへのアクセス権限がありません。",
	}
}

// NewValidationError は入力値不正のエラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInput,
		Message:  fmt.Sprintf("入力値が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewReportNotFoundError は通報が見つからない場合のエラーを生成する。
func NewReportNotFoundError(reportID int64) *APIError {
	return &APIError{
		Code:     ErrCodeReportNotFound,
		Message:  fmt.Sprintf("指定された通報が見つかりません: %d", reportID),
		Category: "report",
		Action:   "通報IDを確認してください。",
	}
}

// NewItemNotFoundError は在庫品目が見つからない場合のエラーを生成する。
func NewItemNotFoundError(itemID int64) *APIError {
	return &APIError{
		Code:     ErrCodeItemNotFound,
		Message:  fmt.Sprintf("指定された在庫品目が見つかりません: %d", itemID),
		Category: "inventory",
		Action:   "品目IDを確認してください。",
	}
}

// NewEmailTakenError はメールアドレスが使用済みの場合のエラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に使用されています。",
		Category: "validation",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidRoleError は未知のロール指定のエラーを生成する。
func NewInvalidRoleError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", raw),
		Category: "validation",
		Action:   "ロールには citizen、volunteer、admin のいずれかを指定してください。",
	}
}

// NewNegativeQuantityError は在庫数量が負になる操作のエラーを生成する。
func NewNegativeQuantityError() *APIError {
	return &APIError{
		Code:     ErrCodeNegativeQuantity,
		Message:  "在庫数量を負にすることはできません。",
		Category: "inventory",
		Action:   "調整量を確認してください。",
	}
}

// codeOf はエラーからAPIErrorコードを取り出す。APIErrorでなければ空文字列。
func codeOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsUnauthorized はエラーが未認証（セッションなし）を表すかを返す。
func IsUnauthorized(err error) bool {
	return codeOf(err) == ErrCodeUnauthorized
}

// IsForbidden はエラーがロール不一致を表すかを返す。
func IsForbidden(err error) bool {
	return codeOf(err) == ErrCodeForbidden
}

// IsNotFound はエラーが対象エンティティの不在を表すかを返す。
func IsNotFound(err error) bool {
	switch codeOf(err) {
	case ErrCodeUserNotFound, ErrCodeReportNotFound, ErrCodeItemNotFound:
		return true
	default:
		return false
	}
}

// IsValidation はエラーが入力値不正を表すかを返す。
func IsValidation(err error) bool {
	switch codeOf(err) {
	case ErrCodeInvalidInput, ErrCodeEmailTaken, ErrCodeInvalidRole, ErrCodeNegativeQuantity:
		return true
	default:
		return false
	}
}
