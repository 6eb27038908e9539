package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/middleware"
	"github.com/m-bouhaba/sos-ksar-el-kebir/internal/model"
)

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに
// 変換してレスポンスを書き込む。
// APIError以外のエラー（インフラ障害）は詳細をログのみに残して500を返す。
// 認可エラー（401/403）とインフラ障害を混同してはならない。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeUserNotFound, model.ErrCodeReportNotFound, model.ErrCodeItemNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeInvalidInput, model.ErrCodeInvalidRole, model.ErrCodeNegativeQuantity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeInvalidRequestBody はリクエストボディの解析失敗レスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidInput,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}
