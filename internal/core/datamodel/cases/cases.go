package cases

import (
	"time"

	"gorm.io/gorm"
)

type Case struct {
	ID               int64          `gorm:"primaryKey"`
	DiseaseID        int64          `gorm:"column:disease_id;not null;index"`
	UserID           int64          `gorm:"column:user_id;not null"`
	PatientCode      string         `gorm:"column:patient_code;uniqueIndex;not null"`
	PatientName      string         `gorm:"column:patient_name;not null"`
	PatientDOB       time.Time      `gorm:"column:patient_dob;type:date"`
	PatientIDNumber  *string        `gorm:"column:patient_id_number"`
	PatientGender    string         `gorm:"column:patient_gender"`
	SymptomsReported string         `gorm:"column:symptoms_reported"`
	SymptomOnsetDate time.Time      `gorm:"column:symptom_onset_date;type:date"`
	DiagnosisDate    time.Time      `gorm:"column:diagnosis_date;type:date"`
	Status           string         `gorm:"column:status;default:suspected;index"`
	Province         string         `gorm:"column:province;index"`
	Municipality     string         `gorm:"column:municipality"`
	Commune          *string        `gorm:"column:commune"`
	Latitude         *float64       `gorm:"column:latitude"`
	Longitude        *float64       `gorm:"column:longitude"`
	Notes            *string        `gorm:"column:notes"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Case) TableName() string {
	return "cases"
}

// History rows are append-only. Changes carries the field-level diff as
// JSON; previous/new status are kept as columns for cheap filtering.
type History struct {
	ID             int64     `gorm:"primaryKey"`
	CaseID         int64     `gorm:"column:case_id;not null;index"`
	UserID         int64     `gorm:"column:user_id;not null"`
	PreviousStatus *string   `gorm:"column:previous_status"`
	NewStatus      string    `gorm:"column:new_status;not null"`
	Changes        string    `gorm:"column:changes"`
	Notes          *string   `gorm:"column:notes"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (History) TableName() string {
	return "case_histories"
}
