package disease

import (
	"github.com/endemicwatch/endemic-monitoring/internal/core/common/validation"
)

type CreateDiseaseDTO struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Symptoms    string `json:"symptoms,omitempty"`
	Prevention  string `json:"prevention,omitempty"`
	Treatment   string `json:"treatment,omitempty"`
}

func (d CreateDiseaseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("code", d.Code).Required().MaxLength(20)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateDiseaseDTO is a partial update; nil fields are left untouched.
type UpdateDiseaseDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Symptoms    *string `json:"symptoms,omitempty"`
	Prevention  *string `json:"prevention,omitempty"`
	Treatment   *string `json:"treatment,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (d UpdateDiseaseDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(255)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
