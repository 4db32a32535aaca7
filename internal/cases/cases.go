package cases

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	casesDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/cases"
)

// Case statuses. Stored as strings; the set is validated at the DTO
// boundary but the store itself does not forbid other tokens.
const (
	StatusSuspected = "suspected"
	StatusConfirmed = "confirmed"
	StatusRecovered = "recovered"
	StatusDeceased  = "deceased"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusSuspected, StatusConfirmed, StatusRecovered, StatusDeceased:
		return true
	}
	return false
}

// Case is the domain view of one disease case report.
type Case struct {
	ID               int64     `json:"id"`
	DiseaseID        int64     `json:"disease_id"`
	UserID           int64     `json:"user_id"`
	PatientCode      string    `json:"patient_code"`
	PatientName      string    `json:"patient_name"`
	PatientDOB       time.Time `json:"patient_dob"`
	PatientIDNumber  *string   `json:"patient_id_number,omitempty"`
	PatientGender    string    `json:"patient_gender"`
	SymptomsReported string    `json:"symptoms_reported"`
	SymptomOnsetDate time.Time `json:"symptom_onset_date"`
	DiagnosisDate    time.Time `json:"diagnosis_date"`
	Status           string    `json:"status"`
	Province         string    `json:"province"`
	Municipality     string    `json:"municipality"`
	Commune          *string   `json:"commune,omitempty"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HistoryEntry is one immutable audit record of a case mutation.
type HistoryEntry struct {
	ID             int64                  `json:"id"`
	CaseID         int64                  `json:"case_id"`
	UserID         int64                  `json:"user_id"`
	PreviousStatus *string                `json:"previous_status,omitempty"`
	NewStatus      string                 `json:"new_status"`
	Changes        map[string]FieldChange `json:"changes,omitempty"`
	Notes          *string                `json:"notes,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// FieldChange records one field's old and new value in a history diff.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// PublicView is the restricted projection served on the unauthenticated
// verification path. Nothing else from the record leaks through it.
type PublicView struct {
	ID       int64     `json:"id"`
	Code     string    `json:"code"`
	Status   string    `json:"status"`
	Disease  string    `json:"disease"`
	Initials string    `json:"initials"`
	Date     time.Time `json:"date"`
	Verified bool      `json:"verified"`
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePatientCode returns a fresh "CASE-XXXXXXXX" verification code.
// Uniqueness is enforced by the store; callers retry on collision.
func GeneratePatientCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "CASE-" + string(buf), nil
}

// MaskName reduces a patient name to per-word initials, "Joao Paulo"
// becomes "J*** P****".
func MaskName(name string) string {
	words := strings.Fields(name)
	masked := make([]string, 0, len(words))
	for _, word := range words {
		runes := []rune(word)
		masked = append(masked, strings.ToUpper(string(runes[0]))+strings.Repeat("*", len(runes)-1))
	}
	return strings.Join(masked, " ")
}

func FromDataModel(c *casesDatamodel.Case) *Case {
	return &Case{
		ID:               c.ID,
		DiseaseID:        c.DiseaseID,
		UserID:           c.UserID,
		PatientCode:      c.PatientCode,
		PatientName:      c.PatientName,
		PatientDOB:       c.PatientDOB,
		PatientIDNumber:  c.PatientIDNumber,
		PatientGender:    c.PatientGender,
		SymptomsReported: c.SymptomsReported,
		SymptomOnsetDate: c.SymptomOnsetDate,
		DiagnosisDate:    c.DiagnosisDate,
		Status:           c.Status,
		Province:         c.Province,
		Municipality:     c.Municipality,
		Commune:          c.Commune,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
