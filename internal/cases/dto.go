package cases

import (
	"time"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/core/common/validation"
)

type CreateCaseDTO struct {
	DiseaseID        int64     `json:"disease_id"`
	PatientName      string    `json:"patient_name"`
	PatientDOB       time.Time `json:"patient_dob"`
	PatientIDNumber  *string   `json:"patient_id_number,omitempty"`
	PatientGender    string    `json:"patient_gender"`
	SymptomsReported string    `json:"symptoms_reported"`
	SymptomOnsetDate time.Time `json:"symptom_onset_date"`
	DiagnosisDate    time.Time `json:"diagnosis_date"`
	Status           string    `json:"status,omitempty"`
	Province         string    `json:"province"`
	Municipality     string    `json:"municipality"`
	Commune          *string   `json:"commune,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
}

func (d CreateCaseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("disease_id", d.DiseaseID).Required()
	v.Field("patient_name", d.PatientName).Required().MaxLength(255)
	v.Field("patient_dob", d.PatientDOB).Required().NotFuture()
	v.Field("patient_gender", d.PatientGender).Required().OneOf("M", "F", "O")
	v.Field("symptoms_reported", d.SymptomsReported).Required()
	v.Field("symptom_onset_date", d.SymptomOnsetDate).Required()
	v.Field("diagnosis_date", d.DiagnosisDate).Required()
	v.Field("status", d.Status).OneOf(StatusSuspected, StatusConfirmed, StatusRecovered, StatusDeceased)
	v.Field("province", d.Province).Required().MaxLength(100)
	v.Field("municipality", d.Municipality).Required().MaxLength(100)
	v.Field("latitude", d.Latitude).FloatRange(-90, 90)
	v.Field("longitude", d.Longitude).FloatRange(-180, 180)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateCaseDTO is a partial merge: nil fields are left untouched.
// Unknown JSON fields are ignored by the decoder, not rejected.
type UpdateCaseDTO struct {
	DiseaseID        *int64     `json:"disease_id,omitempty"`
	PatientName      *string    `json:"patient_name,omitempty"`
	PatientDOB       *time.Time `json:"patient_dob,omitempty"`
	PatientIDNumber  *string    `json:"patient_id_number,omitempty"`
	PatientGender    *string    `json:"patient_gender,omitempty"`
	SymptomsReported *string    `json:"symptoms_reported,omitempty"`
	SymptomOnsetDate *time.Time `json:"symptom_onset_date,omitempty"`
	DiagnosisDate    *time.Time `json:"diagnosis_date,omitempty"`
	Status           *string    `json:"status,omitempty"`
	StatusNotes      *string    `json:"status_notes,omitempty"`
	Province         *string    `json:"province,omitempty"`
	Municipality     *string    `json:"municipality,omitempty"`
	Commune          *string    `json:"commune,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

func (d UpdateCaseDTO) Validate() error {
	v := validation.NewValidator()
	if d.PatientName != nil {
		v.Field("patient_name", *d.PatientName).Required().MaxLength(255)
	}
	if d.PatientGender != nil {
		v.Field("patient_gender", *d.PatientGender).Required().OneOf("M", "F", "O")
	}
	if d.Status != nil {
		v.Field("status", *d.Status).Required().OneOf(StatusSuspected, StatusConfirmed, StatusRecovered, StatusDeceased)
	}
	if d.Province != nil {
		v.Field("province", *d.Province).Required().MaxLength(100)
	}
	if d.Municipality != nil {
		v.Field("municipality", *d.Municipality).Required().MaxLength(100)
	}
	v.Field("latitude", d.Latitude).FloatRange(-90, 90)
	v.Field("longitude", d.Longitude).FloatRange(-180, 180)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Empty reports whether the update would touch nothing.
func (d UpdateCaseDTO) Empty() bool {
	return d.DiseaseID == nil && d.PatientName == nil && d.PatientDOB == nil &&
		d.PatientIDNumber == nil && d.PatientGender == nil && d.SymptomsReported == nil &&
		d.SymptomOnsetDate == nil && d.DiagnosisDate == nil && d.Status == nil &&
		d.Province == nil && d.Municipality == nil && d.Commune == nil &&
		d.Latitude == nil && d.Longitude == nil && d.Notes == nil
}

// ListFilters narrows the case listing. Zero values mean "no filter".
type ListFilters struct {
	DiseaseID int64
	Status    string
	Province  string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Limit     int
	Offset    int
}

func (f *ListFilters) Normalize() error {
	if f.Status != "" && !ValidStatus(f.Status) {
		return internal.NewValidationError("invalid status filter", internal.ErrCodeInvalidStatus)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 15
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return nil
}
