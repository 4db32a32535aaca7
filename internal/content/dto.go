package content

import (
	"github.com/endemicwatch/endemic-monitoring/internal/core/common/validation"
)

type CreateContentDTO struct {
	DiseaseID *int64  `json:"disease_id,omitempty"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug,omitempty"`
	Content   string  `json:"content"`
	Type      string  `json:"type,omitempty"`
	ImageURL  *string `json:"image_url,omitempty"`
	Publish   bool    `json:"publish,omitempty"`
}

func (d CreateContentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("content", d.Content).Required()
	v.Field("type", d.Type).OneOf(TypeArticle, TypeVideo, TypeInfographic, TypeFAQ)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateContentDTO is a partial update; nil fields stay untouched.
type UpdateContentDTO struct {
	DiseaseID   *int64  `json:"disease_id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Type        *string `json:"type,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

func (d UpdateContentDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", *d.Title).Required().MaxLength(255)
	}
	if d.Content != nil {
		v.Field("content", *d.Content).Required()
	}
	if d.Type != nil {
		v.Field("type", *d.Type).Required().OneOf(TypeArticle, TypeVideo, TypeInfographic, TypeFAQ)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
