package alert

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	alertDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/alert"
)

type ServiceAPI interface {
	List() ([]*Alert, error)
	ListPublic() ([]*Alert, error)
	GetByID(id int64) (*Alert, error)
	Create(actor *auth.User, dto CreateAlertDTO) (*Alert, error)
	Update(id int64, dto UpdateAlertDTO) (*Alert, error)
	Delete(id int64) error
}

type RepositoryAPI interface {
	GetAll() ([]*alertDatamodel.Alert, error)
	GetByID(id int64) (*alertDatamodel.Alert, error)
	Create(a *alertDatamodel.Alert) error
	Update(a *alertDatamodel.Alert) error
	Delete(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns every alert for authenticated callers.
func (s *Service) List() ([]*Alert, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list alerts", "error", err)
		return nil, internal.NewInternalError("failed to list alerts", err)
	}

	alerts := make([]*Alert, 0, len(records))
	for _, record := range records {
		alerts = append(alerts, FromDataModel(record))
	}
	return alerts, nil
}

// ListPublic returns only active, unexpired alerts. This is the whole of
// what the unauthenticated surface sees.
func (s *Service) ListPublic() ([]*Alert, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list public alerts", "error", err)
		return nil, internal.NewInternalError("failed to list alerts", err)
	}

	now := s.now()
	alerts := make([]*Alert, 0, len(records))
	for _, record := range records {
		a := FromDataModel(record)
		if a.Current(now) {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

func (s *Service) GetByID(id int64) (*Alert, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAlertNotFound
		}
		return nil, internal.NewInternalError("failed to get alert", err)
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(actor *auth.User, dto CreateAlertDTO) (*Alert, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	severity := dto.Severity
	if severity == "" {
		severity = SeverityMedium
	}

	record := &alertDatamodel.Alert{
		DiseaseID:    dto.DiseaseID,
		Title:        dto.Title,
		Message:      dto.Message,
		Severity:     severity,
		AffectedArea: dto.AffectedArea,
		IsActive:     true,
		ExpiresAt:    dto.ExpiresAt,
		CreatedBy:    actor.ID,
	}
	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create alert", "error", err)
		return nil, internal.NewInternalError("failed to create alert", err)
	}

	s.logger.Info("alert created", "alert_id", record.ID, "severity", severity, "created_by", actor.ID)
	return FromDataModel(record), nil
}

func (s *Service) Update(id int64, dto UpdateAlertDTO) (*Alert, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAlertNotFound
		}
		return nil, internal.NewInternalError("failed to get alert", err)
	}

	if dto.DiseaseID != nil {
		record.DiseaseID = dto.DiseaseID
	}
	if dto.Title != nil {
		record.Title = *dto.Title
	}
	if dto.Message != nil {
		record.Message = *dto.Message
	}
	if dto.Severity != nil {
		record.Severity = *dto.Severity
	}
	if dto.AffectedArea != nil {
		record.AffectedArea = dto.AffectedArea
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}
	if dto.ExpiresAt != nil {
		record.ExpiresAt = dto.ExpiresAt
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update alert", "error", err, "alert_id", id)
		return nil, internal.NewInternalError("failed to update alert", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrAlertNotFound
		}
		return internal.NewInternalError("failed to get alert", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete alert", "error", err, "alert_id", id)
		return internal.NewInternalError("failed to delete alert", err)
	}

	s.logger.Info("alert deleted", "alert_id", id)
	return nil
}
