package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/core/events"
	userDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/user"
)

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionID is the jti claim; it keys the revocable session row.
func (c *Claims) SessionID() string {
	return c.RegisteredClaims.ID
}

type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bus *events.EventBus, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		bus:        bus,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account. New accounts default to the
// health_professional role; admin accounts are only created by seeding or
// by an existing admin. No token is issued here, callers log in after.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetUserByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role := dto.Role
	if role == "" {
		role = RoleHealthProfessional
	}

	record := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        dto.Phone,
		Institution:  dto.Institution,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(record); err != nil {
		// a concurrent registration can slip past the email check; the
		// unique index is the arbiter
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, internal.ErrEmailTaken
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.publish(events.NewAuthEvent(events.EventTypeUserRegistered, record.ID, record.Email))
	s.logger.Info("user registered", "user_id", record.ID, "role", role)

	return FromDataModel(record), nil
}

// Login verifies credentials, opens a session and signs a token carrying
// the session id.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil || record == nil || !record.IsActive {
		s.publish(events.NewAuthEvent(events.EventTypeLoginFailed, 0, dto.Email))
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(dto.Password)); err != nil {
		s.publish(events.NewAuthEvent(events.EventTypeLoginFailed, record.ID, record.Email))
		return nil, internal.ErrInvalidCredentials
	}

	now := time.Now()
	session := &userDatamodel.Session{
		ID:        uuid.NewString(),
		UserID:    record.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL()),
	}
	if err := s.repo.CreateSession(session); err != nil {
		s.logger.Error("failed to create session", "error", err, "user_id", record.ID)
		return nil, internal.NewInternalError("failed to create session", err)
	}

	token, err := s.tokenGen.Generate(session.ID, record.ID, record.Email, record.Role)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	s.publish(events.NewAuthEvent(events.EventTypeUserLoggedIn, record.ID, record.Email))

	return &LoginResult{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(session.ExpiresAt.Sub(now).Seconds()),
		User:      FromDataModel(record),
	}, nil
}

// Logout revokes the token's session. Unknown, expired or already-revoked
// tokens are treated as success: a second logout must not fail.
func (s *Service) Logout(token string) error {
	claims, err := s.tokenGen.Validate(token)
	if err != nil {
		return nil
	}

	if err := s.repo.RevokeSession(claims.SessionID()); err != nil {
		s.logger.Error("failed to revoke session", "error", err, "session_id", claims.SessionID())
		return internal.NewInternalError("failed to revoke session", err)
	}

	s.publish(events.NewAuthEvent(events.EventTypeUserLoggedOut, claims.UserID, claims.Email))
	return nil
}

// Authenticate resolves a bearer token to a live user. Revoked sessions
// fail even when the token signature is still valid.
func (s *Service) Authenticate(token string) (*User, error) {
	claims, err := s.tokenGen.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.GetSession(claims.SessionID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewInternalError("failed to load session", err)
	}
	if session.Revoked {
		return nil, internal.ErrSessionRevoked
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, internal.ErrTokenExpired
	}

	record, err := s.repo.GetUserByID(session.UserID)
	if err != nil || record == nil || !record.IsActive {
		return nil, internal.ErrInvalidToken
	}

	return FromDataModel(record), nil
}

func (s *Service) tokenTTL() time.Duration {
	if g, ok := s.tokenGen.(*JWTTokenGenerator); ok {
		return g.TokenTTL
	}
	return time.Hour
}

func (s *Service) publish(event events.BaseEvent) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(context.Background(), event)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) Generate(sessionID string, userID int64, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}
