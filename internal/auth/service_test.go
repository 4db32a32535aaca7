package auth_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	userDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/user"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

type mockAuthRepository struct {
	usersByID    map[int64]*userDatamodel.User
	usersByEmail map[string]*userDatamodel.User
	sessions     map[string]*userDatamodel.Session
	createError  error
	nextID       int64
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByID:    make(map[int64]*userDatamodel.User),
		usersByEmail: make(map[string]*userDatamodel.User),
		sessions:     make(map[string]*userDatamodel.Session),
		nextID:       1,
	}
}

func (m *mockAuthRepository) CreateUser(u *userDatamodel.User) error {
	if m.createError != nil {
		return m.createError
	}
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.usersByID[u.ID] = u
	m.usersByEmail[u.Email] = u
	return nil
}

func (m *mockAuthRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockAuthRepository) GetUserByID(id int64) (*userDatamodel.User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockAuthRepository) CreateSession(s *userDatamodel.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockAuthRepository) GetSession(id string) (*userDatamodel.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockAuthRepository) RevokeSession(id string) error {
	if s, ok := m.sessions[id]; ok && !s.Revoked {
		now := time.Now()
		s.Revoked = true
		s.RevokedAt = &now
	}
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		mockRepo *mockAuthRepository
		tokenGen *auth.JWTTokenGenerator
	)

	seedUser := func(email, password, role string) *userDatamodel.User {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).ToNot(HaveOccurred())
		u := &userDatamodel.User{
			Email:        email,
			Name:         "Seeded User",
			PasswordHash: string(hash),
			Role:         role,
			IsActive:     true,
		}
		Expect(mockRepo.CreateUser(u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = auth.NewJWTTokenGenerator("test-secret-at-least-32-characters!!", time.Hour)
		testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokenGen, nil, testLogger, bcrypt.MinCost)
	})

	Describe("Register", func() {
		It("creates an account with the health_professional role by default", func() {
			user, err := service.Register(auth.RegisterDTO{
				Name:                 "Dr. Silva",
				Email:                "silva@health.gov.tl",
				Password:             "supersecret1",
				PasswordConfirmation: "supersecret1",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(user.ID).To(BeNumerically(">", 0))
			Expect(user.Role).To(Equal(auth.RoleHealthProfessional))

			stored := mockRepo.usersByEmail["silva@health.gov.tl"]
			Expect(stored).ToNot(BeNil())
			Expect(stored.PasswordHash).ToNot(Equal("supersecret1"))
		})

		It("rejects a duplicate email", func() {
			seedUser("taken@health.gov.tl", "supersecret1", auth.RolePublic)

			_, err := service.Register(auth.RegisterDTO{
				Name:                 "Second",
				Email:                "taken@health.gov.tl",
				Password:             "supersecret1",
				PasswordConfirmation: "supersecret1",
			})

			Expect(err).To(Equal(internal.ErrEmailTaken))
		})

		It("reports a duplicate email when the insert loses a race", func() {
			// the pre-insert lookup misses but the unique index fires
			mockRepo.createError = gorm.ErrDuplicatedKey

			_, err := service.Register(auth.RegisterDTO{
				Name:                 "Dr. Silva",
				Email:                "silva@health.gov.tl",
				Password:             "supersecret1",
				PasswordConfirmation: "supersecret1",
			})

			Expect(err).To(Equal(internal.ErrEmailTaken))
		})

		It("rejects mismatched password confirmation", func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:                 "Dr. Silva",
				Email:                "silva@health.gov.tl",
				Password:             "supersecret1",
				PasswordConfirmation: "different-pass",
			})

			Expect(err).To(Equal(internal.ErrPasswordMismatch))
		})

		It("rejects a short password", func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:                 "Dr. Silva",
				Email:                "silva@health.gov.tl",
				Password:             "short",
				PasswordConfirmation: "short",
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("never allows self-assigning the admin role", func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:                 "Sneaky",
				Email:                "sneaky@health.gov.tl",
				Password:             "supersecret1",
				PasswordConfirmation: "supersecret1",
				Role:                 auth.RoleAdmin,
			})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			seedUser("nurse@health.gov.tl", "correct-horse1", auth.RoleHealthProfessional)
		})

		It("returns a bearer token and opens a session", func() {
			result, err := service.Login(auth.LoginDTO{
				Email:    "nurse@health.gov.tl",
				Password: "correct-horse1",
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Token).ToNot(BeEmpty())
			Expect(result.TokenType).To(Equal("Bearer"))
			Expect(result.ExpiresIn).To(BeNumerically(">", 0))
			Expect(result.User.Email).To(Equal("nurse@health.gov.tl"))
			Expect(mockRepo.sessions).To(HaveLen(1))
		})

		It("rejects a wrong password", func() {
			_, err := service.Login(auth.LoginDTO{
				Email:    "nurse@health.gov.tl",
				Password: "wrong-password",
			})

			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Login(auth.LoginDTO{
				Email:    "nobody@health.gov.tl",
				Password: "correct-horse1",
			})

			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects a deactivated account", func() {
			mockRepo.usersByEmail["nurse@health.gov.tl"].IsActive = false

			_, err := service.Login(auth.LoginDTO{
				Email:    "nurse@health.gov.tl",
				Password: "correct-horse1",
			})

			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})
	})

	Describe("Authenticate", func() {
		var token string

		BeforeEach(func() {
			seedUser("nurse@health.gov.tl", "correct-horse1", auth.RoleHealthProfessional)
			result, err := service.Login(auth.LoginDTO{
				Email:    "nurse@health.gov.tl",
				Password: "correct-horse1",
			})
			Expect(err).ToNot(HaveOccurred())
			token = result.Token
		})

		It("resolves a valid token to the user", func() {
			user, err := service.Authenticate(token)

			Expect(err).ToNot(HaveOccurred())
			Expect(user.Email).To(Equal("nurse@health.gov.tl"))
			Expect(user.Tier()).To(Equal(auth.TierAuth))
		})

		It("rejects a tampered token", func() {
			_, err := service.Authenticate(token + "x")

			Expect(err).To(Equal(internal.ErrInvalidToken))
		})

		It("rejects the token once its session is revoked", func() {
			Expect(service.Logout(token)).To(Succeed())

			_, err := service.Authenticate(token)

			Expect(err).To(Equal(internal.ErrSessionRevoked))
		})

		It("rejects an expired token", func() {
			expiredGen := auth.NewJWTTokenGenerator("test-secret-at-least-32-characters!!", time.Hour)
			expiredGen.TokenTTL = -time.Minute
			user := mockRepo.usersByEmail["nurse@health.gov.tl"]
			expired, err := expiredGen.Generate("some-session", user.ID, user.Email, user.Role)
			Expect(err).ToNot(HaveOccurred())

			_, authErr := service.Authenticate(expired)

			Expect(authErr).To(Equal(internal.ErrTokenExpired))
		})

		It("rejects a token signed for a missing session", func() {
			orphan, err := tokenGen.Generate("no-such-session", 1, "nurse@health.gov.tl", auth.RoleHealthProfessional)
			Expect(err).ToNot(HaveOccurred())

			_, authErr := service.Authenticate(orphan)

			Expect(authErr).To(Equal(internal.ErrInvalidToken))
		})

		It("rejects the token when the account is deactivated afterwards", func() {
			mockRepo.usersByEmail["nurse@health.gov.tl"].IsActive = false

			_, err := service.Authenticate(token)

			Expect(err).To(Equal(internal.ErrInvalidToken))
		})
	})

	Describe("Logout", func() {
		It("is idempotent: a second logout still succeeds", func() {
			seedUser("nurse@health.gov.tl", "correct-horse1", auth.RoleHealthProfessional)
			result, err := service.Login(auth.LoginDTO{
				Email:    "nurse@health.gov.tl",
				Password: "correct-horse1",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Logout(result.Token)).To(Succeed())
			Expect(service.Logout(result.Token)).To(Succeed())
		})

		It("succeeds for garbage tokens", func() {
			Expect(service.Logout("not-a-token")).To(Succeed())
		})
	})
})
