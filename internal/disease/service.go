package disease

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	diseaseDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/disease"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns registry entries. Inactive diseases stay hidden unless the
// caller asks for them, retired entries keep old case reports resolvable.
func (s *Service) List(includeInactive bool) ([]*Disease, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list diseases", "error", err)
		return nil, internal.NewInternalError("failed to list diseases", err)
	}

	diseases := make([]*Disease, 0, len(records))
	for _, record := range records {
		if !record.IsActive && !includeInactive {
			continue
		}
		diseases = append(diseases, FromDataModel(record))
	}
	return diseases, nil
}

func (s *Service) GetByID(id int64) (*Disease, error) {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDiseaseNotFound
		}
		return nil, internal.NewInternalError("failed to get disease", err)
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(dto CreateDiseaseDTO) (*Disease, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByCode(dto.Code); err == nil && existing != nil {
		return nil, internal.NewConflictError("disease code already exists", internal.ErrCodeDiseaseCodeTaken)
	}

	record := &diseaseDatamodel.Disease{
		Name:        dto.Name,
		Code:        dto.Code,
		Description: dto.Description,
		Symptoms:    dto.Symptoms,
		Prevention:  dto.Prevention,
		Treatment:   dto.Treatment,
		IsActive:    true,
	}
	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create disease", "error", err, "code", dto.Code)
		return nil, internal.NewInternalError("failed to create disease", err)
	}

	s.logger.Info("disease created", "disease_id", record.ID, "code", record.Code)
	return FromDataModel(record), nil
}

func (s *Service) Update(id int64, dto UpdateDiseaseDTO) (*Disease, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrDiseaseNotFound
		}
		return nil, internal.NewInternalError("failed to get disease", err)
	}

	if dto.Name != nil {
		record.Name = *dto.Name
	}
	if dto.Description != nil {
		record.Description = *dto.Description
	}
	if dto.Symptoms != nil {
		record.Symptoms = *dto.Symptoms
	}
	if dto.Prevention != nil {
		record.Prevention = *dto.Prevention
	}
	if dto.Treatment != nil {
		record.Treatment = *dto.Treatment
	}
	if dto.IsActive != nil {
		record.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update disease", "error", err, "disease_id", id)
		return nil, internal.NewInternalError("failed to update disease", err)
	}

	return FromDataModel(record), nil
}

// Delete deactivates the disease rather than removing the row, existing
// case reports keep their reference.
func (s *Service) Delete(id int64) error {
	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrDiseaseNotFound
		}
		return internal.NewInternalError("failed to get disease", err)
	}

	record.IsActive = false
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate disease", "error", err, "disease_id", id)
		return internal.NewInternalError("failed to deactivate disease", err)
	}

	s.logger.Info("disease deactivated", "disease_id", id)
	return nil
}
