package postgres

import (
	"gorm.io/gorm"

	diseaseDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/disease"
	"github.com/endemicwatch/endemic-monitoring/internal/disease"
)

// DiseaseRepository implements disease.RepositoryAPI using GORM
type DiseaseRepository struct {
	db *gorm.DB
}

func NewDiseaseRepository(db *gorm.DB) disease.RepositoryAPI {
	return &DiseaseRepository{db: db}
}

func (r *DiseaseRepository) GetAll() ([]*diseaseDatamodel.Disease, error) {
	var diseases []*diseaseDatamodel.Disease
	err := r.db.Order("name ASC").Find(&diseases).Error
	return diseases, err
}

func (r *DiseaseRepository) GetByID(id int64) (*diseaseDatamodel.Disease, error) {
	var d diseaseDatamodel.Disease
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiseaseRepository) GetByCode(code string) (*diseaseDatamodel.Disease, error) {
	var d diseaseDatamodel.Disease
	err := r.db.Where("code = ?", code).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiseaseRepository) Create(d *diseaseDatamodel.Disease) error {
	return r.db.Create(d).Error
}

func (r *DiseaseRepository) Update(d *diseaseDatamodel.Disease) error {
	return r.db.Save(d).Error
}

func (r *DiseaseRepository) Delete(id int64) error {
	return r.db.Delete(&diseaseDatamodel.Disease{}, id).Error
}
