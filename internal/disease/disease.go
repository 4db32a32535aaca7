package disease

import (
	diseaseDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/disease"
)

// Disease is the registry entry case reports and alerts reference.
type Disease struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	Symptoms    string `json:"symptoms,omitempty"`
	Prevention  string `json:"prevention,omitempty"`
	Treatment   string `json:"treatment,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type ServiceAPI interface {
	List(includeInactive bool) ([]*Disease, error)
	GetByID(id int64) (*Disease, error)
	Create(dto CreateDiseaseDTO) (*Disease, error)
	Update(id int64, dto UpdateDiseaseDTO) (*Disease, error)
	Delete(id int64) error
}

type RepositoryAPI interface {
	GetAll() ([]*diseaseDatamodel.Disease, error)
	GetByID(id int64) (*diseaseDatamodel.Disease, error)
	GetByCode(code string) (*diseaseDatamodel.Disease, error)
	Create(d *diseaseDatamodel.Disease) error
	Update(d *diseaseDatamodel.Disease) error
	Delete(id int64) error
}

func FromDataModel(d *diseaseDatamodel.Disease) *Disease {
	return &Disease{
		ID:          d.ID,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		Symptoms:    d.Symptoms,
		Prevention:  d.Prevention,
		Treatment:   d.Treatment,
		IsActive:    d.IsActive,
	}
}
