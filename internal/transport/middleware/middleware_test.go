package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

var _ = Describe("RateLimiter", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	It("rejects requests beyond the burst per client", func() {
		rl := NewRateLimiter(ctx, 1, 2)
		frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return frozen }
		handler := rl.Middleware(ok)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:5000"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))

		other := httptest.NewRequest(http.MethodGet, "/", nil)
		other.Header.Set("X-Forwarded-For", "10.0.0.2, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, other)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("drops idle buckets", func() {
		rl := NewRateLimiter(ctx, 1, 1)
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		rl.now = func() time.Time { return start }
		Expect(rl.allow("10.0.0.1")).To(BeTrue())

		rl.now = func() time.Time { return start.Add(bucketTTL + time.Second) }
		rl.sweep()
		Expect(rl.buckets).To(BeEmpty())
	})
})

var _ = Describe("CORS", func() {
	It("echoes an allowed origin", func() {
		handler := CORS("http://localhost:3000")(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	})

	It("ignores other origins", func() {
		handler := CORS("http://localhost:3000")(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("answers preflight requests directly", func() {
		handler := CORS("*")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Fail("preflight reached the handler")
		}))
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://anything.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://anything.example"))
	})
})

var _ = Describe("RequestID", func() {
	It("keeps an incoming trace id", func() {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = logger.TraceID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(seen).To(Equal("trace-123"))
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
	})

	It("mints one when absent", func() {
		handler := RequestID(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})

	It("replaces an id that could forge log lines", func() {
		handler := RequestID(ok)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "abc\nlevel=ERROR")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("Private", func() {
	It("refuses a request without a caller", func() {
		rec := httptest.NewRecorder()
		Private(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(ContainSubstring("NOT_AUTHENTICATED"))
	})

	It("marks responses for a caller uncacheable", func() {
		var seen string
		handler := Private(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = internal.UserIDFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(internal.ContextWithUserID(req.Context(), "u-1"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(seen).To(Equal("u-1"))
		Expect(rec.Header().Get("Cache-Control")).To(Equal("no-store"))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a 500 without leaking the value", func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
		handler := RecoveryMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("secret detail")
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret detail"))
		Expect(rec.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
	})

	It("lets an aborted handler through", func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
		handler := RecoveryMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		}))
		Expect(func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		}).To(PanicWith(http.ErrAbortHandler))
	})
})

var _ = Describe("filterSensitiveBody", func() {
	It("masks credential fields at any depth", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@b.c","password":"hunter2","nested":{"refresh_token":"x"}}`))
		Expect(out).To(ContainSubstring(`"email":"a@b.c"`))
		Expect(out).NotTo(ContainSubstring("hunter2"))
		Expect(out).To(ContainSubstring(`"refresh_token":"[FILTERED]"`))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	var buf *bytes.Buffer

	serve := func(level slog.Level, path, body string) {
		buf = &bytes.Buffer{}
		lg := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
		handler := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"access_token":"tok-abc","id":"7"}`))
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	}

	It("logs a summary without bodies at info", func() {
		serve(slog.LevelInfo, "/api/v1/policies", `{"title":"Access"}`)
		Expect(buf.String()).To(ContainSubstring(`"status_code":201`))
		Expect(buf.String()).NotTo(ContainSubstring("request_body"))
	})

	It("adds masked bodies at debug", func() {
		serve(slog.LevelDebug, "/api/v1/auth/login", `{"email":"a@b.c","password":"hunter2"}`)
		Expect(buf.String()).To(ContainSubstring("a@b.c"))
		Expect(buf.String()).NotTo(ContainSubstring("hunter2"))
		Expect(buf.String()).NotTo(ContainSubstring("tok-abc"))
	})

	It("never logs report bodies", func() {
		serve(slog.LevelDebug, "/api/v1/whistleblowing", `{"title":"Bribery by my manager"}`)
		Expect(buf.String()).To(ContainSubstring("/api/v1/whistleblowing"))
		Expect(buf.String()).NotTo(ContainSubstring("Bribery"))
	})

	It("keeps health probes out of the info log", func() {
		serve(slog.LevelInfo, "/api/v1/health", "")
		Expect(buf.String()).To(BeEmpty())
	})
})
