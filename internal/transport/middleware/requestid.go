package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/JinxSeven/Risk-360/pkg/logger"
)

const (
	TraceHeader = "X-Trace-ID"
	maxTraceID  = 64
)

// RequestID tags the context logger with a trace id and echoes it on the
// response. A caller-supplied id is kept only when it is short and made of
// token characters; anything else is replaced so it cannot forge log lines.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if !validTraceID(traceID) {
			traceID = uuid.NewString()
		}
		w.Header().Set(TraceHeader, traceID)
		next.ServeHTTP(w, r.WithContext(logger.WithTraceID(r.Context(), traceID)))
	})
}

func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceID {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
