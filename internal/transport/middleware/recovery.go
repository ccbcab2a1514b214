package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/obs"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

// RecoveryMiddleware answers a panicking handler with a generic 500. The
// panic value stays in the log. http.ErrAbortHandler is re-raised so the
// server can drop the connection.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				obs.PanicsRecovered.Inc()
				lg.Error("panic recovered",
					"panic", fmt.Sprint(rec),
					"trace_id", logger.TraceID(r.Context()),
					"route", r.Method+" "+r.URL.Path,
					"stack", string(debug.Stack()))
				writeAppError(w, internal.NewInternalError("internal server error", nil))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
