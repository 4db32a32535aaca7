package postgres

import (
	"gorm.io/gorm"

	"github.com/endemicwatch/endemic-monitoring/internal/content"
	contentDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/content"
)

// ContentRepository implements content.RepositoryAPI using GORM
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) content.RepositoryAPI {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) GetAll() ([]*contentDatamodel.EducationalContent, error) {
	var items []*contentDatamodel.EducationalContent
	err := r.db.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *ContentRepository) GetByID(id int64) (*contentDatamodel.EducationalContent, error) {
	var c contentDatamodel.EducationalContent
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepository) GetBySlug(slug string) (*contentDatamodel.EducationalContent, error) {
	var c contentDatamodel.EducationalContent
	err := r.db.Where("slug = ?", slug).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContentRepository) Create(c *contentDatamodel.EducationalContent) error {
	return r.db.Create(c).Error
}

func (r *ContentRepository) Update(c *contentDatamodel.EducationalContent) error {
	return r.db.Save(c).Error
}

func (r *ContentRepository) Delete(id int64) error {
	return r.db.Delete(&contentDatamodel.EducationalContent{}, id).Error
}
