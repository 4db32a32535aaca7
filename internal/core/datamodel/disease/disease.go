package disease

import "time"

type Disease struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Code        string    `gorm:"column:code;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	Symptoms    string    `gorm:"column:symptoms"`
	Prevention  string    `gorm:"column:prevention"`
	Treatment   string    `gorm:"column:treatment"`
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Disease) TableName() string {
	return "diseases"
}
