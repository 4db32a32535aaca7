package alert

import (
	"time"

	"github.com/endemicwatch/endemic-monitoring/internal/core/common/validation"
)

type CreateAlertDTO struct {
	DiseaseID    *int64     `json:"disease_id,omitempty"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Severity     string     `json:"severity,omitempty"`
	AffectedArea *string    `json:"affected_area,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (d CreateAlertDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("message", d.Message).Required()
	v.Field("severity", d.Severity).OneOf(SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateAlertDTO is a partial update; nil fields stay untouched.
type UpdateAlertDTO struct {
	DiseaseID    *int64     `json:"disease_id,omitempty"`
	Title        *string    `json:"title,omitempty"`
	Message      *string    `json:"message,omitempty"`
	Severity     *string    `json:"severity,omitempty"`
	AffectedArea *string    `json:"affected_area,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (d UpdateAlertDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MaxLength(255)
	}
	if d.Message != nil {
		v.Field("message", *d.Message).Required()
	}
	if d.Severity != nil {
		v.Field("severity", *d.Severity).Required().OneOf(SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
