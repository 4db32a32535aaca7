package content

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	contentDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/content"
)

type ServiceAPI interface {
	List(publishedOnly bool) ([]*EducationalContent, error)
	GetBySlug(slug string, publishedOnly bool) (*EducationalContent, error)
	Create(actor *auth.User, dto CreateContentDTO) (*EducationalContent, error)
	Update(id int64, dto UpdateContentDTO) (*EducationalContent, error)
	Delete(id int64) error
}

type RepositoryAPI interface {
	GetAll() ([]*contentDatamodel.EducationalContent, error)
	GetByID(id int64) (*contentDatamodel.EducationalContent, error)
	GetBySlug(slug string) (*contentDatamodel.EducationalContent, error)
	Create(c *contentDatamodel.EducationalContent) error
	Update(c *contentDatamodel.EducationalContent) error
	Delete(id int64) error
}

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

// List returns content; the public surface sees published pieces only.
func (s *Service) List(publishedOnly bool) ([]*EducationalContent, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list content", "error", err)
		return nil, internal.NewInternalError("failed to list content", err)
	}

	result := make([]*EducationalContent, 0, len(records))
	for _, record := range records {
		if publishedOnly && !record.IsPublished {
			continue
		}
		result = append(result, FromDataModel(record))
	}
	return result, nil
}

func (s *Service) GetBySlug(slug string, publishedOnly bool) (*EducationalContent, error) {
	record, err := s.repo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrContentNotFound
		}
		return nil, internal.NewInternalError("failed to get content", err)
	}
	if publishedOnly && !record.IsPublished {
		return nil, internal.ErrContentNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) Create(actor *auth.User, dto CreateContentDTO) (*EducationalContent, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	slug := dto.Slug
	if slug == "" {
		slug = Slugify(dto.Title)
	}
	if existing, err := s.repo.GetBySlug(slug); err == nil && existing != nil {
		return nil, internal.NewConflictError("content slug already exists", internal.ErrCodeSlugTaken)
	}

	contentType := dto.Type
	if contentType == "" {
		contentType = TypeArticle
	}

	record := &contentDatamodel.EducationalContent{
		DiseaseID:   dto.DiseaseID,
		Title:       dto.Title,
		Slug:        slug,
		Content:     dto.Content,
		Type:        contentType,
		ImageURL:    dto.ImageURL,
		IsPublished: dto.Publish,
		AuthorID:    actor.ID,
	}
	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to create content", "error", err, "slug", slug)
		return nil, internal.NewInternalError("failed to create content", err)
	}

	s.logger.Info("content created", "content_id", record.ID, "slug", slug)
	return FromDataModel(record), nil
}

func (s *Service) Update(id int64, dto UpdateContentDTO) (*EducationalContent, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrContentNotFound
		}
		return nil, internal.NewInternalError("failed to get content", err)
	}

	if dto.DiseaseID != nil {
		record.DiseaseID = dto.DiseaseID
	}
	if dto.Title != nil {
		record.Title = *dto.Title
	}
	if dto.Content != nil {
		record.Content = *dto.Content
	}
	if dto.Type != nil {
		record.Type = *dto.Type
	}
	if dto.ImageURL != nil {
		record.ImageURL = dto.ImageURL
	}
	if dto.IsPublished != nil {
		record.IsPublished = *dto.IsPublished
	}

	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update content", "error", err, "content_id", id)
		return nil, internal.NewInternalError("failed to update content", err)
	}

	return FromDataModel(record), nil
}

func (s *Service) Delete(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrContentNotFound
		}
		return internal.NewInternalError("failed to get content", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete content", "error", err, "content_id", id)
		return internal.NewInternalError("failed to delete content", err)
	}
	return nil
}
