package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/endemicwatch/endemic-monitoring/internal/cases"
	casesDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/cases"
)

// CaseRepository implements cases.RepositoryAPI using GORM
type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) cases.RepositoryAPI {
	return &CaseRepository{db: db}
}

// CreateWithHistory inserts the case and its first history entry in one
// transaction. The entry's case id is filled from the inserted row.
func (r *CaseRepository) CreateWithHistory(c *casesDatamodel.Case, entry *casesDatamodel.History) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		entry.CaseID = c.ID
		return tx.Create(entry).Error
	})
}

// UpdateWithHistory saves the case and appends the history entry in one
// transaction; both succeed or neither is visible.
func (r *CaseRepository) UpdateWithHistory(c *casesDatamodel.Case, entry *casesDatamodel.History) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		c.UpdatedAt = time.Now()
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *CaseRepository) GetByID(id int64) (*casesDatamodel.Case, error) {
	var c casesDatamodel.Case
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) GetByCode(code string) (*casesDatamodel.Case, error) {
	var c casesDatamodel.Case
	err := r.db.Where("patient_code = ?", code).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) List(filters cases.ListFilters) ([]*casesDatamodel.Case, int64, error) {
	query := r.db.Model(&casesDatamodel.Case{})

	if filters.DiseaseID != 0 {
		query = query.Where("disease_id = ?", filters.DiseaseID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Province != "" {
		query = query.Where("province = ?", filters.Province)
	}
	if filters.StartDate != nil {
		query = query.Where("diagnosis_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("diagnosis_date <= ?", *filters.EndDate)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("patient_name LIKE ? OR patient_code LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*casesDatamodel.Case
	err := query.Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&records).Error
	return records, total, err
}

// Delete soft-deletes the case; history rows stay untouched.
func (r *CaseRepository) Delete(id int64) error {
	return r.db.Delete(&casesDatamodel.Case{}, id).Error
}

func (r *CaseRepository) GetHistory(caseID int64) ([]*casesDatamodel.History, error) {
	var entries []*casesDatamodel.History
	err := r.db.Where("case_id = ?", caseID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}
