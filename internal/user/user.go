package user

import (
	"time"

	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	userDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/user"
)

// User is the administrative view of an account.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Phone       *string   `json:"phone,omitempty"`
	Institution *string   `json:"institution,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type ServiceAPI interface {
	List() ([]*User, error)
	UpdateRole(actor *auth.User, id int64, dto UpdateRoleDTO) (*User, error)
	Delete(actor *auth.User, id int64) error
}

type RepositoryAPI interface {
	GetAll() ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	Update(u *userDatamodel.User) error
	Delete(id int64) error
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Phone:       u.Phone,
		Institution: u.Institution,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}
