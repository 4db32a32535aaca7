package cases

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	casesDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/cases"
	"github.com/endemicwatch/endemic-monitoring/internal/core/events"
	"github.com/endemicwatch/endemic-monitoring/internal/disease"
)

// maxCodeAttempts bounds the verification-code retry loop on unique
// collisions.
const maxCodeAttempts = 5

type ServiceAPI interface {
	Create(actor *auth.User, dto CreateCaseDTO) (*Case, error)
	GetByID(id int64) (*Case, error)
	List(filters ListFilters) ([]*Case, int64, error)
	Update(actor *auth.User, id int64, dto UpdateCaseDTO) (*Case, error)
	Delete(actor *auth.User, id int64) error
	History(caseID int64) ([]*HistoryEntry, error)
	VerifyByCode(code string) (*PublicView, error)
}

type RepositoryAPI interface {
	// CreateWithHistory inserts the case and its first history entry in
	// one transaction.
	CreateWithHistory(c *casesDatamodel.Case, entry *casesDatamodel.History) error
	// UpdateWithHistory persists the changed case and appends the history
	// entry in one transaction; no audit-less update is observable.
	UpdateWithHistory(c *casesDatamodel.Case, entry *casesDatamodel.History) error
	GetByID(id int64) (*casesDatamodel.Case, error)
	GetByCode(code string) (*casesDatamodel.Case, error)
	List(filters ListFilters) ([]*casesDatamodel.Case, int64, error)
	Delete(id int64) error
	GetHistory(caseID int64) ([]*casesDatamodel.History, error)
}

type DiseaseResolverAPI interface {
	GetByID(id int64) (*disease.Disease, error)
}

type Service struct {
	repo     RepositoryAPI
	diseases DiseaseResolverAPI
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, diseases DiseaseResolverAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		diseases: diseases,
		bus:      bus,
		logger:   logger,
	}
}

// Create registers a case, allocates its verification code and writes the
// first history entry in the same transaction. Code collisions trigger
// regeneration up to maxCodeAttempts.
func (s *Service) Create(actor *auth.User, dto CreateCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.diseases.GetByID(dto.DiseaseID); err != nil {
		return nil, internal.ErrDiseaseNotFound
	}

	status := dto.Status
	if status == "" {
		status = StatusSuspected
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GeneratePatientCode()
		if err != nil {
			return nil, internal.NewInternalError("failed to generate patient code", err)
		}

		record := &casesDatamodel.Case{
			DiseaseID:        dto.DiseaseID,
			UserID:           actor.ID,
			PatientCode:      code,
			PatientName:      dto.PatientName,
			PatientDOB:       dto.PatientDOB,
			PatientIDNumber:  dto.PatientIDNumber,
			PatientGender:    dto.PatientGender,
			SymptomsReported: dto.SymptomsReported,
			SymptomOnsetDate: dto.SymptomOnsetDate,
			DiagnosisDate:    dto.DiagnosisDate,
			Status:           status,
			Province:         dto.Province,
			Municipality:     dto.Municipality,
			Commune:          dto.Commune,
			Latitude:         dto.Latitude,
			Longitude:        dto.Longitude,
			Notes:            dto.Notes,
		}

		notes := "Case registered"
		entry := &casesDatamodel.History{
			UserID:    actor.ID,
			NewStatus: status,
			Changes:   marshalChanges(creationDiff(record)),
			Notes:     &notes,
		}

		err = s.repo.CreateWithHistory(record, entry)
		if err == nil {
			s.publish(events.NewCaseEvent(events.EventTypeCaseCreated, record.ID, actor.ID, record.PatientCode, nil))
			s.logger.Info("case created", "case_id", record.ID, "patient_code", record.PatientCode, "disease_id", record.DiseaseID)
			return FromDataModel(record), nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("patient code collision, regenerating", "attempt", attempt+1)
			continue
		}
		s.logger.Error("failed to create case", "error", err)
		return nil, internal.NewInternalError("failed to create case", err)
	}

	return nil, internal.ErrCodeGeneration
}

func (s *Service) GetByID(id int64) (*Case, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCaseNotFound
		}
		return nil, internal.NewInternalError("failed to get case", err)
	}
	return FromDataModel(record), nil
}

func (s *Service) List(filters ListFilters) ([]*Case, int64, error) {
	if err := filters.Normalize(); err != nil {
		return nil, 0, err
	}

	records, total, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list cases", "error", err)
		return nil, 0, internal.NewInternalError("failed to list cases", err)
	}

	result := make([]*Case, 0, len(records))
	for _, record := range records {
		result = append(result, FromDataModel(record))
	}
	return result, total, nil
}

// Update merges the non-nil DTO fields into the case and appends a history
// entry carrying the field diff, both in one transaction. An update that
// changes nothing writes no history.
func (s *Service) Update(actor *auth.User, id int64, dto UpdateCaseDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCaseNotFound
		}
		return nil, internal.NewInternalError("failed to get case", err)
	}

	if dto.Empty() {
		return FromDataModel(record), nil
	}

	previousStatus := record.Status
	diff := applyUpdate(record, dto)
	if len(diff) == 0 {
		return FromDataModel(record), nil
	}

	entry := &casesDatamodel.History{
		CaseID:         record.ID,
		UserID:         actor.ID,
		PreviousStatus: &previousStatus,
		NewStatus:      record.Status,
		Changes:        marshalChanges(diff),
		Notes:          dto.StatusNotes,
	}

	if err := s.repo.UpdateWithHistory(record, entry); err != nil {
		s.logger.Error("failed to update case", "error", err, "case_id", id)
		return nil, internal.NewInternalError("failed to update case", err)
	}

	eventChanges := make(map[string]interface{}, len(diff))
	for field, change := range diff {
		eventChanges[field] = change.New
	}
	s.publish(events.NewCaseEvent(events.EventTypeCaseUpdated, record.ID, actor.ID, record.PatientCode, eventChanges))

	return FromDataModel(record), nil
}

// Delete soft-deletes the case. History entries are retained for
// traceability.
func (s *Service) Delete(actor *auth.User, id int64) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrCaseNotFound
		}
		return internal.NewInternalError("failed to get case", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete case", "error", err, "case_id", id)
		return internal.NewInternalError("failed to delete case", err)
	}

	s.publish(events.NewCaseEvent(events.EventTypeCaseDeleted, record.ID, actor.ID, record.PatientCode, nil))
	s.logger.Info("case deleted", "case_id", id, "actor_id", actor.ID)
	return nil
}

// History lists the case's audit entries in insertion order.
func (s *Service) History(caseID int64) ([]*HistoryEntry, error) {
	if _, err := s.repo.GetByID(caseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCaseNotFound
		}
		return nil, internal.NewInternalError("failed to get case", err)
	}

	records, err := s.repo.GetHistory(caseID)
	if err != nil {
		s.logger.Error("failed to get case history", "error", err, "case_id", caseID)
		return nil, internal.NewInternalError("failed to get case history", err)
	}

	entries := make([]*HistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, historyFromDataModel(record))
	}
	return entries, nil
}

// VerifyByCode resolves a verification code to the restricted public
// projection. The full record never crosses this path.
func (s *Service) VerifyByCode(code string) (*PublicView, error) {
	record, err := s.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCodeNotFound
		}
		return nil, internal.NewInternalError("failed to verify code", err)
	}

	diseaseName := "N/A"
	if d, err := s.diseases.GetByID(record.DiseaseID); err == nil {
		diseaseName = d.Name
	}

	return &PublicView{
		ID:       record.ID,
		Code:     record.PatientCode,
		Status:   record.Status,
		Disease:  diseaseName,
		Initials: MaskName(record.PatientName),
		Date:     record.DiagnosisDate,
		Verified: true,
	}, nil
}

func (s *Service) publish(event events.BaseEvent) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(context.Background(), event)
}

// applyUpdate merges non-nil DTO fields into the record and returns the
// field-level diff of what actually changed.
func applyUpdate(record *casesDatamodel.Case, dto UpdateCaseDTO) map[string]FieldChange {
	diff := make(map[string]FieldChange)

	setInt64 := func(field string, target *int64, value *int64) {
		if value != nil && *value != *target {
			diff[field] = FieldChange{Old: *target, New: *value}
			*target = *value
		}
	}
	setString := func(field string, target *string, value *string) {
		if value != nil && *value != *target {
			diff[field] = FieldChange{Old: *target, New: *value}
			*target = *value
		}
	}
	setTime := func(field string, target *time.Time, value *time.Time) {
		if value != nil && !value.Equal(*target) {
			diff[field] = FieldChange{Old: *target, New: *value}
			*target = *value
		}
	}
	setStringPtr := func(field string, target **string, value *string) {
		if value == nil {
			return
		}
		if *target == nil || **target != *value {
			var old interface{}
			if *target != nil {
				old = **target
			}
			diff[field] = FieldChange{Old: old, New: *value}
			*target = value
		}
	}
	setFloatPtr := func(field string, target **float64, value *float64) {
		if value == nil {
			return
		}
		if *target == nil || **target != *value {
			var old interface{}
			if *target != nil {
				old = **target
			}
			diff[field] = FieldChange{Old: old, New: *value}
			*target = value
		}
	}

	setInt64("disease_id", &record.DiseaseID, dto.DiseaseID)
	setString("patient_name", &record.PatientName, dto.PatientName)
	setTime("patient_dob", &record.PatientDOB, dto.PatientDOB)
	setStringPtr("patient_id_number", &record.PatientIDNumber, dto.PatientIDNumber)
	setString("patient_gender", &record.PatientGender, dto.PatientGender)
	setString("symptoms_reported", &record.SymptomsReported, dto.SymptomsReported)
	setTime("symptom_onset_date", &record.SymptomOnsetDate, dto.SymptomOnsetDate)
	setTime("diagnosis_date", &record.DiagnosisDate, dto.DiagnosisDate)
	setString("status", &record.Status, dto.Status)
	setString("province", &record.Province, dto.Province)
	setString("municipality", &record.Municipality, dto.Municipality)
	setStringPtr("commune", &record.Commune, dto.Commune)
	setFloatPtr("latitude", &record.Latitude, dto.Latitude)
	setFloatPtr("longitude", &record.Longitude, dto.Longitude)
	setStringPtr("notes", &record.Notes, dto.Notes)

	return diff
}

// creationDiff records every populated field as newly set.
func creationDiff(record *casesDatamodel.Case) map[string]FieldChange {
	diff := map[string]FieldChange{
		"disease_id":         {New: record.DiseaseID},
		"patient_name":       {New: record.PatientName},
		"patient_dob":        {New: record.PatientDOB},
		"patient_gender":     {New: record.PatientGender},
		"symptoms_reported":  {New: record.SymptomsReported},
		"symptom_onset_date": {New: record.SymptomOnsetDate},
		"diagnosis_date":     {New: record.DiagnosisDate},
		"status":             {New: record.Status},
		"province":           {New: record.Province},
		"municipality":       {New: record.Municipality},
	}
	if record.PatientIDNumber != nil {
		diff["patient_id_number"] = FieldChange{New: *record.PatientIDNumber}
	}
	if record.Commune != nil {
		diff["commune"] = FieldChange{New: *record.Commune}
	}
	if record.Latitude != nil {
		diff["latitude"] = FieldChange{New: *record.Latitude}
	}
	if record.Longitude != nil {
		diff["longitude"] = FieldChange{New: *record.Longitude}
	}
	if record.Notes != nil {
		diff["notes"] = FieldChange{New: *record.Notes}
	}
	return diff
}

func marshalChanges(diff map[string]FieldChange) string {
	if len(diff) == 0 {
		return ""
	}
	raw, err := json.Marshal(diff)
	if err != nil {
		return ""
	}
	return string(raw)
}

func historyFromDataModel(record *casesDatamodel.History) *HistoryEntry {
	entry := &HistoryEntry{
		ID:             record.ID,
		CaseID:         record.CaseID,
		UserID:         record.UserID,
		PreviousStatus: record.PreviousStatus,
		NewStatus:      record.NewStatus,
		Notes:          record.Notes,
		CreatedAt:      record.CreatedAt,
	}
	if record.Changes != "" {
		var changes map[string]FieldChange
		if err := json.Unmarshal([]byte(record.Changes), &changes); err == nil {
			entry.Changes = changes
		}
	}
	return entry
}
