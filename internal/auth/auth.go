package auth

import (
	"context"
	"time"

	userDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/user"
)

// User is the authenticated identity attached to request contexts.
type User struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Phone       *string `json:"phone,omitempty"`
	Institution *string `json:"institution,omitempty"`
}

func (u *User) Tier() Tier {
	return TierForRole(u.Role)
}

// Session is the domain view of one issued token.
type Session struct {
	ID        string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
	Revoked   bool
}

type LoginResult struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
	User      *User  `json:"user"`
}

type ServiceAPI interface {
	Register(dto RegisterDTO) (*User, error)
	Login(dto LoginDTO) (*LoginResult, error)
	Logout(token string) error
	Authenticate(token string) (*User, error)
}

type RepositoryAPI interface {
	CreateUser(u *userDatamodel.User) error
	GetUserByEmail(email string) (*userDatamodel.User, error)
	GetUserByID(id int64) (*userDatamodel.User, error)
	CreateSession(s *userDatamodel.Session) error
	GetSession(id string) (*userDatamodel.Session, error)
	// RevokeSession is a no-op success when the session is unknown or
	// already revoked; logout stays idempotent.
	RevokeSession(id string) error
}

type TokenGeneratorAPI interface {
	Generate(sessionID string, userID int64, email, role string) (string, error)
	Validate(tokenString string) (*Claims, error)
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Phone:       u.Phone,
		Institution: u.Institution,
	}
}
