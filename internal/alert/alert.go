package alert

import (
	"time"

	alertDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/alert"
)

// Alert severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert is a health warning broadcast to professionals and, while active,
// to the public listing.
type Alert struct {
	ID           int64      `json:"id"`
	DiseaseID    *int64     `json:"disease_id,omitempty"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Severity     string     `json:"severity"`
	AffectedArea *string    `json:"affected_area,omitempty"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedBy    int64      `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Current reports whether the alert should appear on the public surface.
func (a *Alert) Current(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.ExpiresAt != nil && now.After(*a.ExpiresAt) {
		return false
	}
	return true
}

func FromDataModel(a *alertDatamodel.Alert) *Alert {
	return &Alert{
		ID:           a.ID,
		DiseaseID:    a.DiseaseID,
		Title:        a.Title,
		Message:      a.Message,
		Severity:     a.Severity,
		AffectedArea: a.AffectedArea,
		IsActive:     a.IsActive,
		ExpiresAt:    a.ExpiresAt,
		CreatedBy:    a.CreatedBy,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
