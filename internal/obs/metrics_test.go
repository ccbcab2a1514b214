package obs_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JinxSeven/Risk-360/internal/obs"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObs(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Obs Suite")
}

var _ = Describe("metrics", func() {
	BeforeEach(func() {
		obs.Init()
		obs.Init()
	})

	It("tracks the connectivity gauge", func() {
		obs.SetConnected(true)
		Expect(testutil.ToFloat64(obs.BackendConnected)).To(Equal(1.0))
		obs.SetConnected(false)
		Expect(testutil.ToFloat64(obs.BackendConnected)).To(Equal(0.0))
	})

	It("labels requests with the chi route pattern", func() {
		r := chi.NewRouter()
		r.Use(obs.Instrument)
		r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
		Expect(rec.Code).To(Equal(http.StatusTeapot))

		metrics := httptest.NewRecorder()
		obs.Handler().ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		body := metrics.Body.String()
		Expect(body).To(ContainSubstring(`route="/items/{id}"`))
		Expect(strings.Contains(body, `route="/items/42"`)).To(BeFalse())
	})
})
