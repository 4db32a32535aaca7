package auth

import (
	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/core/common/validation"
)

// RegisterDTO is the transport shape for account creation. Role is
// optional; admin cannot be self-assigned.
type RegisterDTO struct {
	Name                 string  `json:"name"`
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"password_confirmation"`
	Role                 string  `json:"role,omitempty"`
	Phone                *string `json:"phone,omitempty"`
	Institution          *string `json:"institution,omitempty"`
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required().MinLength(8)
	v.Field("role", d.Role).OneOf(RoleHealthProfessional, RolePublic)
	if err := v.Validate(); err != nil {
		return err
	}
	if d.Password != d.PasswordConfirmation {
		return internal.ErrPasswordMismatch
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
