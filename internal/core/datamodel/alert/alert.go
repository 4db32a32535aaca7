package alert

import "time"

type Alert struct {
	ID           int64      `gorm:"primaryKey"`
	DiseaseID    *int64     `gorm:"column:disease_id;index"`
	Title        string     `gorm:"column:title;not null"`
	Message      string     `gorm:"column:message;not null"`
	Severity     string     `gorm:"column:severity;default:medium"`
	AffectedArea *string    `gorm:"column:affected_area"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	CreatedBy    int64      `gorm:"column:created_by;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Alert) TableName() string {
	return "alerts"
}
