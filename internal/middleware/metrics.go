package middleware

import "net/http"

// NewHTTPMetricsMiddleware はレスポンスのステータスコードを記録する
// ミドルウェアを返す。recordFnがnilの場合は素通しする。
// メトリクス実装には依存せず、記録関数のみを受け取る。
func NewHTTPMetricsMiddleware(recordFn func(statusCode int)) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recordFn == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(recorder, r)
			recordFn(recorder.statusCode)
		})
	}
}
