package postgres_test

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	diseaseDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/disease"
	"github.com/endemicwatch/endemic-monitoring/internal/disease"
	diseasePostgres "github.com/endemicwatch/endemic-monitoring/internal/disease/postgres"
)

func TestDiseaseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Disease Repository Suite")
}

var _ = Describe("Disease Repository", func() {
	var (
		db   *gorm.DB
		repo disease.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&diseaseDatamodel.Disease{})
		Expect(err).NotTo(HaveOccurred())

		repo = diseasePostgres.NewDiseaseRepository(db)
	})

	Describe("Create", func() {
		It("creates a disease and assigns an id", func() {
			d := &diseaseDatamodel.Disease{
				Name:     "Dengue Fever",
				Code:     "DENG",
				IsActive: true,
			}

			err := repo.Create(d)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ID).To(BeNumerically(">", 0))
			Expect(d.CreatedAt).NotTo(BeZero())
		})

		It("enforces the unique code constraint", func() {
			Expect(repo.Create(&diseaseDatamodel.Disease{Name: "Dengue Fever", Code: "DENG", IsActive: true})).To(Succeed())

			err := repo.Create(&diseaseDatamodel.Disease{Name: "Dengue Duplicate", Code: "DENG", IsActive: true})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetAll", func() {
		BeforeEach(func() {
			for _, d := range []*diseaseDatamodel.Disease{
				{Name: "Tuberculosis", Code: "TB", IsActive: true},
				{Name: "Dengue Fever", Code: "DENG", IsActive: true},
				{Name: "Malaria", Code: "MAL", IsActive: false},
			} {
				Expect(repo.Create(d)).To(Succeed())
			}
		})

		It("returns every entry ordered by name", func() {
			diseases, err := repo.GetAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(diseases).To(HaveLen(3))
			Expect(diseases[0].Name).To(Equal("Dengue Fever"))
			Expect(diseases[1].Name).To(Equal("Malaria"))
			Expect(diseases[2].Name).To(Equal("Tuberculosis"))
		})
	})

	Describe("GetByCode", func() {
		BeforeEach(func() {
			Expect(repo.Create(&diseaseDatamodel.Disease{Name: "Dengue Fever", Code: "DENG", IsActive: true})).To(Succeed())
		})

		It("finds the disease by code", func() {
			d, err := repo.GetByCode("DENG")
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Name).To(Equal("Dengue Fever"))
		})

		It("returns gorm.ErrRecordNotFound for an unknown code", func() {
			_, err := repo.GetByCode("NOPE")
			Expect(errors.Is(err, gorm.ErrRecordNotFound)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("persists field changes", func() {
			d := &diseaseDatamodel.Disease{Name: "Dengue Fever", Code: "DENG", IsActive: true}
			Expect(repo.Create(d)).To(Succeed())

			d.Description = "Mosquito-borne viral infection"
			d.IsActive = false
			Expect(repo.Update(d)).To(Succeed())

			got, err := repo.GetByID(d.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Description).To(Equal("Mosquito-borne viral infection"))
			Expect(got.IsActive).To(BeFalse())
		})
	})
})
