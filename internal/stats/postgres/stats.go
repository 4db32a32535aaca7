package postgres

import (
	"time"

	"gorm.io/gorm"

	alertDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/alert"
	casesDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/cases"
	diseaseDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/disease"
	"github.com/endemicwatch/endemic-monitoring/internal/stats"
)

// StatsRepository computes aggregates straight from the case, alert and
// disease tables.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) stats.RepositoryAPI {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountCasesByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&casesDatamodel.Case{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

func (r *StatsRepository) CountActiveAlerts() (int64, error) {
	var count int64
	err := r.db.Model(&alertDatamodel.Alert{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *StatsRepository) CountActiveDiseases() (int64, error) {
	var count int64
	err := r.db.Model(&diseaseDatamodel.Disease{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *StatsRepository) GroupCasesByStatus() ([]stats.GroupCount, error) {
	var groups []stats.GroupCount
	err := r.db.Model(&casesDatamodel.Case{}).
		Select("status as key, COUNT(*) as count").
		Group("status").
		Order("count DESC").
		Scan(&groups).Error
	return groups, err
}

func (r *StatsRepository) GroupCasesByDisease() ([]stats.GroupCount, error) {
	var groups []stats.GroupCount
	err := r.db.Model(&casesDatamodel.Case{}).
		Select("diseases.name as key, COUNT(cases.id) as count").
		Joins("JOIN diseases ON diseases.id = cases.disease_id").
		Group("diseases.name").
		Order("count DESC").
		Scan(&groups).Error
	return groups, err
}

func (r *StatsRepository) GroupCasesByProvince() ([]stats.GroupCount, error) {
	var groups []stats.GroupCount
	err := r.db.Model(&casesDatamodel.Case{}).
		Select("province as key, COUNT(*) as count").
		Group("province").
		Order("count DESC").
		Scan(&groups).Error
	return groups, err
}

func (r *StatsRepository) CasesTimeline(since time.Time) ([]stats.TimelinePoint, error) {
	var points []stats.TimelinePoint
	err := r.db.Model(&casesDatamodel.Case{}).
		Select("diagnosis_date as date, COUNT(*) as count").
		Where("diagnosis_date >= ?", since).
		Group("diagnosis_date").
		Order("diagnosis_date ASC").
		Scan(&points).Error
	return points, err
}
