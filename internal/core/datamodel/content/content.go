package content

import "time"

type EducationalContent struct {
	ID          int64     `gorm:"primaryKey"`
	DiseaseID   *int64    `gorm:"column:disease_id;index"`
	Title       string    `gorm:"column:title;not null"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Content     string    `gorm:"column:content;not null"`
	Type        string    `gorm:"column:type;default:article"`
	ImageURL    *string   `gorm:"column:image_url"`
	IsPublished bool      `gorm:"column:is_published;default:false"`
	AuthorID    int64     `gorm:"column:author_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (EducationalContent) TableName() string {
	return "educational_contents"
}
