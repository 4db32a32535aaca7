package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/endemicwatch/endemic-monitoring/internal/transport/swagger"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI Document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())

		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("describes every route group the server mounts", func() {
		for _, path := range []string{
			"/auth/register",
			"/auth/login",
			"/auth/logout",
			"/auth/me",
			"/public/verify/{code}",
			"/public/alerts",
			"/public/diseases",
			"/public/content",
			"/public/content/{slug}",
			"/cases",
			"/cases/{id}",
			"/cases/{id}/history",
			"/alerts",
			"/alerts/{id}",
			"/diseases",
			"/diseases/{id}",
			"/content",
			"/content/{id}",
			"/users",
			"/users/{id}/role",
			"/users/{id}",
			"/stats/dashboard",
			"/stats/timeline",
			"/health",
			"/ping",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), "missing path %s", path)
		}
	})

	It("requires a bearer token on case mutations", func() {
		item := doc.Paths.Find("/cases")
		Expect(item).NotTo(BeNil())
		Expect(item.Post.Security).NotTo(BeNil())
	})

	It("keeps the verification endpoint public", func() {
		item := doc.Paths.Find("/public/verify/{code}")
		Expect(item).NotTo(BeNil())
		Expect(item.Get.Security).To(BeNil())
	})
})

var _ = Describe("Swagger UI Handler", func() {
	It("serves the UI index", func() {
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		rec := httptest.NewRecorder()

		swagger.Handler().ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("swagger"))
	})
})
