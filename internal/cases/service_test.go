package cases_test

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	"github.com/endemicwatch/endemic-monitoring/internal/cases"
	casesDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/cases"
	"github.com/endemicwatch/endemic-monitoring/internal/disease"
)

func TestCaseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Case Service Suite")
}

// mockCaseRepository is safe for concurrent use so the parallel-create
// property test can run against it.
type mockCaseRepository struct {
	mu          sync.Mutex
	cases       map[int64]*casesDatamodel.Case
	codes       map[string]int64
	histories   map[int64][]*casesDatamodel.History
	nextID      int64
	nextEntryID int64
	forcedDupes int
}

func newMockCaseRepository() *mockCaseRepository {
	return &mockCaseRepository{
		cases:       make(map[int64]*casesDatamodel.Case),
		codes:       make(map[string]int64),
		histories:   make(map[int64][]*casesDatamodel.History),
		nextID:      1,
		nextEntryID: 1,
	}
}

func (m *mockCaseRepository) CreateWithHistory(c *casesDatamodel.Case, entry *casesDatamodel.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forcedDupes > 0 {
		m.forcedDupes--
		return gorm.ErrDuplicatedKey
	}
	if _, taken := m.codes[c.PatientCode]; taken {
		return gorm.ErrDuplicatedKey
	}

	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	m.cases[c.ID] = c
	m.codes[c.PatientCode] = c.ID

	entry.ID = m.nextEntryID
	m.nextEntryID++
	entry.CaseID = c.ID
	entry.CreatedAt = time.Now()
	m.histories[c.ID] = append(m.histories[c.ID], entry)
	return nil
}

func (m *mockCaseRepository) UpdateWithHistory(c *casesDatamodel.Case, entry *casesDatamodel.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.cases[c.ID]; !exists {
		return gorm.ErrRecordNotFound
	}
	c.UpdatedAt = time.Now()
	m.cases[c.ID] = c

	entry.ID = m.nextEntryID
	m.nextEntryID++
	entry.CreatedAt = time.Now()
	m.histories[c.ID] = append(m.histories[c.ID], entry)
	return nil
}

func (m *mockCaseRepository) GetByID(id int64) (*casesDatamodel.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCaseRepository) GetByCode(code string) (*casesDatamodel.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.codes[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m.cases[id]
	return &copied, nil
}

func (m *mockCaseRepository) List(filters cases.ListFilters) ([]*casesDatamodel.Case, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*casesDatamodel.Case
	for _, c := range m.cases {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.Province != "" && c.Province != filters.Province {
			continue
		}
		if filters.DiseaseID != 0 && c.DiseaseID != filters.DiseaseID {
			continue
		}
		copied := *c
		result = append(result, &copied)
	}
	return result, int64(len(result)), nil
}

func (m *mockCaseRepository) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cases[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.codes, c.PatientCode)
	delete(m.cases, id)
	return nil
}

func (m *mockCaseRepository) GetHistory(caseID int64) ([]*casesDatamodel.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*casesDatamodel.History{}, m.histories[caseID]...), nil
}

type mockDiseaseResolver struct {
	diseases map[int64]*disease.Disease
}

func newMockDiseaseResolver() *mockDiseaseResolver {
	return &mockDiseaseResolver{
		diseases: map[int64]*disease.Disease{
			1: {ID: 1, Name: "Dengue Fever", Code: "DENG", IsActive: true},
		},
	}
}

func (m *mockDiseaseResolver) GetByID(id int64) (*disease.Disease, error) {
	d, ok := m.diseases[id]
	if !ok {
		return nil, internal.ErrDiseaseNotFound
	}
	return d, nil
}

var _ = Describe("CaseService", func() {
	var (
		service  *cases.Service
		mockRepo *mockCaseRepository
		actor    *auth.User
	)

	validDTO := func() cases.CreateCaseDTO {
		return cases.CreateCaseDTO{
			DiseaseID:        1,
			PatientName:      "Joao Paulo Dos Santos",
			PatientDOB:       time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			PatientGender:    "M",
			SymptomsReported: "Fever, headache",
			SymptomOnsetDate: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
			DiagnosisDate:    time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC),
			Province:         "Luanda",
			Municipality:     "Viana",
		}
	}

	BeforeEach(func() {
		mockRepo = newMockCaseRepository()
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = cases.NewService(mockRepo, newMockDiseaseResolver(), nil, testLogger)
		actor = &auth.User{ID: 7, Email: "nurse@health.gov.tl", Role: auth.RoleHealthProfessional}
	})

	Describe("Create", func() {
		It("registers the case with a generated verification code", func() {
			created, err := service.Create(actor, validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.UserID).To(Equal(actor.ID))
			Expect(created.PatientCode).To(HavePrefix("CASE-"))
			Expect(created.PatientCode).To(HaveLen(13))
			Expect(created.Status).To(Equal(cases.StatusSuspected))
		})

		It("writes the first history entry at creation", func() {
			created, err := service.Create(actor, validDTO())
			Expect(err).ToNot(HaveOccurred())

			entries, err := service.History(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].PreviousStatus).To(BeNil())
			Expect(entries[0].NewStatus).To(Equal(cases.StatusSuspected))
			Expect(entries[0].UserID).To(Equal(actor.ID))
			Expect(entries[0].Changes).To(HaveKey("patient_name"))
		})

		It("keeps an explicit status from the request", func() {
			dto := validDTO()
			dto.Status = cases.StatusConfirmed

			created, err := service.Create(actor, dto)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Status).To(Equal(cases.StatusConfirmed))
		})

		It("rejects an unknown disease", func() {
			dto := validDTO()
			dto.DiseaseID = 999

			_, err := service.Create(actor, dto)
			Expect(err).To(Equal(internal.ErrDiseaseNotFound))
		})

		It("rejects an invalid gender token", func() {
			dto := validDTO()
			dto.PatientGender = "X"

			_, err := service.Create(actor, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects out-of-range coordinates", func() {
			dto := validDTO()
			bad := 123.0
			dto.Latitude = &bad

			_, err := service.Create(actor, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("regenerates the code on a collision", func() {
			mockRepo.forcedDupes = 2

			created, err := service.Create(actor, validDTO())
			Expect(err).ToNot(HaveOccurred())
			Expect(created.PatientCode).To(HavePrefix("CASE-"))
		})

		It("gives up after exhausting collision retries", func() {
			mockRepo.forcedDupes = 10

			_, err := service.Create(actor, validDTO())
			Expect(err).To(Equal(internal.ErrCodeGeneration))
		})

		It("allocates distinct ids and codes under concurrent creates", func() {
			const n = 50
			var wg sync.WaitGroup
			results := make([]*cases.Case, n)
			errs := make([]error, n)

			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], errs[i] = service.Create(actor, validDTO())
				}(i)
			}
			wg.Wait()

			ids := map[int64]bool{}
			codes := map[string]bool{}
			for i := 0; i < n; i++ {
				Expect(errs[i]).ToNot(HaveOccurred())
				Expect(ids[results[i].ID]).To(BeFalse(), "duplicate id")
				Expect(codes[results[i].PatientCode]).To(BeFalse(), "duplicate code")
				ids[results[i].ID] = true
				codes[results[i].PatientCode] = true
			}
		})
	})

	Describe("Update", func() {
		var created *cases.Case

		BeforeEach(func() {
			var err error
			created, err = service.Create(actor, validDTO())
			Expect(err).ToNot(HaveOccurred())
		})

		It("merges only the provided fields", func() {
			newStatus := cases.StatusConfirmed
			updated, err := service.Update(actor, created.ID, cases.UpdateCaseDTO{Status: &newStatus})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(cases.StatusConfirmed))
			Expect(updated.PatientName).To(Equal(created.PatientName))
			Expect(updated.PatientCode).To(Equal(created.PatientCode))
		})

		It("appends a history entry with the field diff", func() {
			newStatus := cases.StatusConfirmed
			newProvince := "Baucau"
			_, err := service.Update(actor, created.ID, cases.UpdateCaseDTO{
				Status:   &newStatus,
				Province: &newProvince,
			})
			Expect(err).ToNot(HaveOccurred())

			entries, err := service.History(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(2))

			last := entries[len(entries)-1]
			Expect(*last.PreviousStatus).To(Equal(cases.StatusSuspected))
			Expect(last.NewStatus).To(Equal(cases.StatusConfirmed))
			Expect(last.Changes["status"].New).To(Equal(cases.StatusConfirmed))
			Expect(last.Changes["province"].New).To(Equal("Baucau"))
		})

		It("writes no history when nothing changes", func() {
			sameProvince := created.Province
			_, err := service.Update(actor, created.ID, cases.UpdateCaseDTO{Province: &sameProvince})
			Expect(err).ToNot(HaveOccurred())

			entries, err := service.History(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("returns the case untouched on an empty update", func() {
			updated, err := service.Update(actor, created.ID, cases.UpdateCaseDTO{})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(created.Status))

			entries, err := service.History(created.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("rejects an unknown status token", func() {
			bad := "cured"
			_, err := service.Update(actor, created.ID, cases.UpdateCaseDTO{Status: &bad})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("returns not found for a missing case", func() {
			newStatus := cases.StatusConfirmed
			_, err := service.Update(actor, 9999, cases.UpdateCaseDTO{Status: &newStatus})

			Expect(err).To(Equal(internal.ErrCaseNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the case", func() {
			created, err := service.Create(actor, validDTO())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Delete(actor, created.ID)).To(Succeed())

			_, err = service.GetByID(created.ID)
			Expect(err).To(Equal(internal.ErrCaseNotFound))
		})

		It("returns not found for a missing case", func() {
			Expect(service.Delete(actor, 9999)).To(Equal(internal.ErrCaseNotFound))
		})
	})

	Describe("VerifyByCode", func() {
		It("returns the restricted projection for a known code", func() {
			created, err := service.Create(actor, validDTO())
			Expect(err).ToNot(HaveOccurred())

			view, err := service.VerifyByCode(created.PatientCode)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.ID).To(Equal(created.ID))
			Expect(view.Code).To(Equal(created.PatientCode))
			Expect(view.Disease).To(Equal("Dengue Fever"))
			Expect(view.Verified).To(BeTrue())
		})

		It("masks the patient name down to initials", func() {
			created, err := service.Create(actor, validDTO())
			Expect(err).ToNot(HaveOccurred())

			view, err := service.VerifyByCode(created.PatientCode)
			Expect(err).ToNot(HaveOccurred())
			Expect(view.Initials).To(Equal("J*** P**** D** S*****"))
			Expect(view.Initials).ToNot(ContainSubstring("Joao"))
		})

		It("returns not found for an unknown code", func() {
			_, err := service.VerifyByCode("CASE-NOPE0000")
			Expect(err).To(Equal(internal.ErrCodeNotFound))
		})
	})

	Describe("GeneratePatientCode", func() {
		It("produces codes from the expected alphabet", func() {
			code, err := cases.GeneratePatientCode()
			Expect(err).ToNot(HaveOccurred())
			Expect(code).To(HavePrefix("CASE-"))

			suffix := strings.TrimPrefix(code, "CASE-")
			Expect(suffix).To(HaveLen(8))
			for _, r := range suffix {
				Expect(strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r)).To(BeTrue())
			}
		})
	})
})
