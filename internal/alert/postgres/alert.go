package postgres

import (
	"gorm.io/gorm"

	"github.com/endemicwatch/endemic-monitoring/internal/alert"
	alertDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/alert"
)

// AlertRepository implements alert.RepositoryAPI using GORM
type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) alert.RepositoryAPI {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) GetAll() ([]*alertDatamodel.Alert, error) {
	var alerts []*alertDatamodel.Alert
	err := r.db.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepository) GetByID(id int64) (*alertDatamodel.Alert, error) {
	var a alertDatamodel.Alert
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AlertRepository) Create(a *alertDatamodel.Alert) error {
	return r.db.Create(a).Error
}

func (r *AlertRepository) Update(a *alertDatamodel.Alert) error {
	return r.db.Save(a).Error
}

func (r *AlertRepository) Delete(id int64) error {
	return r.db.Delete(&alertDatamodel.Alert{}, id).Error
}
