package content_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	"github.com/endemicwatch/endemic-monitoring/internal/content"
	contentDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/content"
)

func TestContentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Content Service Suite")
}

type mockContentRepository struct {
	items  map[int64]*contentDatamodel.EducationalContent
	slugs  map[string]int64
	nextID int64
}

func newMockContentRepository() *mockContentRepository {
	return &mockContentRepository{
		items:  make(map[int64]*contentDatamodel.EducationalContent),
		slugs:  make(map[string]int64),
		nextID: 1,
	}
}

func (m *mockContentRepository) GetAll() ([]*contentDatamodel.EducationalContent, error) {
	result := make([]*contentDatamodel.EducationalContent, 0, len(m.items))
	for _, c := range m.items {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockContentRepository) GetByID(id int64) (*contentDatamodel.EducationalContent, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockContentRepository) GetBySlug(slug string) (*contentDatamodel.EducationalContent, error) {
	id, ok := m.slugs[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.items[id], nil
}

func (m *mockContentRepository) Create(c *contentDatamodel.EducationalContent) error {
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.items[c.ID] = c
	m.slugs[c.Slug] = c.ID
	return nil
}

func (m *mockContentRepository) Update(c *contentDatamodel.EducationalContent) error {
	c.UpdatedAt = time.Now()
	m.items[c.ID] = c
	return nil
}

func (m *mockContentRepository) Delete(id int64) error {
	if c, ok := m.items[id]; ok {
		delete(m.slugs, c.Slug)
		delete(m.items, id)
	}
	return nil
}

var _ = Describe("ContentService", func() {
	var (
		service *content.Service
		actor   *auth.User
	)

	BeforeEach(func() {
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = content.NewService(newMockContentRepository(), testLogger)
		actor = &auth.User{ID: 1, Role: auth.RoleAdmin}
	})

	Describe("Create", func() {
		It("derives the slug from the title when none is given", func() {
			created, err := service.Create(actor, content.CreateContentDTO{
				Title:   "Dengue Prevention: What You Should Know",
				Content: "Use repellent.",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(created.Slug).To(Equal("dengue-prevention-what-you-should-know"))
			Expect(created.Type).To(Equal(content.TypeArticle))
			Expect(created.IsPublished).To(BeFalse())
			Expect(created.AuthorID).To(Equal(actor.ID))
		})

		It("rejects a duplicate slug", func() {
			_, err := service.Create(actor, content.CreateContentDTO{Title: "Dengue", Content: "a"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(actor, content.CreateContentDTO{Title: "Dengue", Content: "b"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSlugTaken))
		})
	})

	Describe("public listing", func() {
		BeforeEach(func() {
			_, err := service.Create(actor, content.CreateContentDTO{Title: "Published", Content: "x", Publish: true})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.Create(actor, content.CreateContentDTO{Title: "Draft", Content: "y"})
			Expect(err).ToNot(HaveOccurred())
		})

		It("hides drafts from the public surface", func() {
			published, err := service.List(true)
			Expect(err).ToNot(HaveOccurred())
			Expect(published).To(HaveLen(1))
			Expect(published[0].Title).To(Equal("Published"))
		})

		It("shows drafts to the admin listing", func() {
			all, err := service.List(false)
			Expect(err).ToNot(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})

		It("hides a draft behind its slug on the public path", func() {
			_, err := service.GetBySlug("draft", true)
			Expect(err).To(Equal(internal.ErrContentNotFound))

			item, err := service.GetBySlug("published", true)
			Expect(err).ToNot(HaveOccurred())
			Expect(item.Title).To(Equal("Published"))
		})
	})

	Describe("Slugify", func() {
		It("collapses punctuation and whitespace", func() {
			Expect(content.Slugify("  Água & Saneamento!  ")).To(Equal("água-saneamento"))
			Expect(content.Slugify("COVID-19: FAQ")).To(Equal("covid-19-faq"))
		})
	})
})
