// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService は通報の位置情報・状況説明などユーザー入力の
// 自由テキストをサニタイズし、XSS攻撃などのセキュリティリスクから
// ダッシュボード閲覧者を保護する。bluemondayの厳格ポリシーを使用し、
// HTMLタグを一切許可しない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// 通報の保存前および在庫拠点名の保存前に使用される。
type TextSanitizerService interface {
	// Sanitize はテキストからHTMLタグを全て除去し、前後の空白を削った結果を返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// 通報テキストはHTMLとして表示する必要がないため、許可タグを一切持たない
// StrictPolicyを使用する。script, iframe, on*イベント属性を含む
// あらゆるマークアップが除去される。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はテキストをサニタイズして返す。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ TextSanitizerService = (*textSanitizer)(nil)
