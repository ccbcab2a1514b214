package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JinxSeven/Risk-360/pkg/logger"
)

const (
	filtered = "[FILTERED]"
	// maxLoggedBody caps how much of a body reaches the debug log.
	maxLoggedBody = 4 << 10
)

// credentialKeys are matched as substrings of lower-cased JSON keys and
// header names.
var credentialKeys = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"cookie",
	"credential",
}

// confidentialPaths never have their bodies logged. Report text can identify
// a reporter even when the report is anonymous.
var confidentialPaths = []string{
	"/whistleblowing",
}

// quietPaths are scraped often and logged at debug only.
var quietPaths = []string{
	"/metrics",
	"/health",
	"/ping",
}

// LoggingMiddleware writes one summary line per request at a level chosen
// from the status code. Request and response bodies, with credentials
// masked, are added only when the logger has debug enabled. The context
// logger carries the trace id set by RequestID; base is the fallback.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lg := base
			if logger.TraceID(ctx) != "" {
				lg = logger.From(ctx)
			}
			withBodies := lg.Enabled(ctx, slog.LevelDebug) && !matchesAny(r.URL.Path, confidentialPaths)

			var reqBody []byte
			if withBodies && r.Body != nil {
				reqBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(reqBody))
			}

			ww := &responseWriter{ResponseWriter: w, capture: withBodies}
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.status()
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.size,
				"remote_addr", r.RemoteAddr,
			}
			if r.URL.RawQuery != "" {
				attrs = append(attrs, "query", r.URL.RawQuery)
			}
			if withBodies {
				attrs = append(attrs,
					"headers", filterSensitiveHeaders(r.Header),
					"request_body", filterSensitiveBody(reqBody),
					"response_body", filterSensitiveBody(ww.body.Bytes()),
				)
			}
			lg.Log(ctx, levelFor(r.URL.Path, status), "http request", attrs...)
		})
	}
}

func levelFor(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case matchesAny(path, quietPaths):
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

func matchesAny(path string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(path, f) {
			return true
		}
	}
	return false
}

// responseWriter records the status and size, and the body when capture is set.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
	capture    bool
	body       bytes.Buffer
}

func (rw *responseWriter) status() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.capture && rw.body.Len() < maxLoggedBody {
		rw.body.Write(b)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func isCredential(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range credentialKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func filterSensitiveHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isCredential(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// filterSensitiveBody masks credential fields at any depth of a JSON body.
// Non-JSON bodies are dropped when they mention a credential key.
func filterSensitiveBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		if isCredential(string(body)) {
			return filtered
		}
		return string(body)
	}
	masked, err := json.Marshal(maskJSON(data))
	if err != nil {
		return filtered
	}
	return string(masked)
}

func maskJSON(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isCredential(key) {
				out[key] = filtered
				continue
			}
			out[key] = maskJSON(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = maskJSON(item)
		}
		return out
	default:
		return v
	}
}
