package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JinxSeven/Risk-360/internal/transport/swagger"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("loads and validates", func() {
		doc, err := swagger.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("Risk-360 API"))
		Expect(doc.Paths.Find("/policies/{id}")).NotTo(BeNil())
		Expect(doc.Paths.Find("/whistleblowing")).NotTo(BeNil())
	})

	It("is served raw", func() {
		rec := httptest.NewRecorder()
		swagger.DocHandler(rec, httptest.NewRequest(http.MethodGet, swagger.DocPath, nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("openapi: 3.0.3"))
	})
})
