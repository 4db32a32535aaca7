package user_test

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
	userDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/user"
	"github.com/endemicwatch/endemic-monitoring/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

type mockUserRepository struct {
	users map[int64]*userDatamodel.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*userDatamodel.User)}
}

func (m *mockUserRepository) GetAll() ([]*userDatamodel.User, error) {
	result := make([]*userDatamodel.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *mockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Update(u *userDatamodel.User) error {
	u.UpdatedAt = time.Now()
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Delete(id int64) error {
	delete(m.users, id)
	return nil
}

var _ = Describe("UserService", func() {
	var (
		service  *user.Service
		mockRepo *mockUserRepository
		admin    *auth.User
	)

	BeforeEach(func() {
		mockRepo = newMockUserRepository()
		mockRepo.users[1] = &userDatamodel.User{ID: 1, Email: "admin@health.gov.tl", Name: "Admin", Role: auth.RoleAdmin, IsActive: true}
		mockRepo.users[2] = &userDatamodel.User{ID: 2, Email: "nurse@health.gov.tl", Name: "Nurse", Role: auth.RoleHealthProfessional, IsActive: true}

		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, testLogger)
		admin = &auth.User{ID: 1, Role: auth.RoleAdmin}
	})

	Describe("List", func() {
		It("returns every account", func() {
			users, err := service.List()
			Expect(err).ToNot(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})
	})

	Describe("UpdateRole", func() {
		It("changes the stored role", func() {
			updated, err := service.UpdateRole(admin, 2, user.UpdateRoleDTO{Role: auth.RoleAdmin})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Role).To(Equal(auth.RoleAdmin))
		})

		It("rejects an unknown role", func() {
			_, err := service.UpdateRole(admin, 2, user.UpdateRoleDTO{Role: "superuser"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidRole))
		})

		It("refuses self role change", func() {
			_, err := service.UpdateRole(admin, 1, user.UpdateRoleDTO{Role: auth.RolePublic})
			Expect(err).To(HaveOccurred())
		})

		It("returns not found for a missing user", func() {
			_, err := service.UpdateRole(admin, 999, user.UpdateRoleDTO{Role: auth.RolePublic})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})

	Describe("Delete", func() {
		It("deactivates the account but keeps the row", func() {
			Expect(service.Delete(admin, 2)).To(Succeed())

			Expect(mockRepo.users).To(HaveKey(int64(2)))
			Expect(mockRepo.users[2].IsActive).To(BeFalse())
		})

		It("refuses self deletion", func() {
			Expect(service.Delete(admin, 1)).To(HaveOccurred())
			Expect(mockRepo.users[1].IsActive).To(BeTrue())
		})
	})
})
