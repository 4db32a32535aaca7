package user

import (
	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
)

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

func (d UpdateRoleDTO) Validate() error {
	if !auth.ValidRole(d.Role) {
		return internal.NewValidationError("unknown role", internal.ErrCodeInvalidRole)
	}
	return nil
}
