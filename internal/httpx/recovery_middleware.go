package httpx

import (
	"net/http"

	"go.uber.org/zap"
)

func RecoveryMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrap(w)
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						zap.String("request_id", RequestIDFrom(r)),
						zap.Any("error", err),
						zap.StackSkip("stack", 2),
					)
					if !rw.wroteHeader() {
						JSONError(rw, http.StatusInternalServerError, "Internal Server Error")
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
