package content

import (
	"strings"
	"time"
	"unicode"

	contentDatamodel "github.com/endemicwatch/endemic-monitoring/internal/core/datamodel/content"
)

// Content types.
const (
	TypeArticle     = "article"
	TypeVideo       = "video"
	TypeInfographic = "infographic"
	TypeFAQ         = "faq"
)

// EducationalContent is a published health education piece.
type EducationalContent struct {
	ID          int64     `json:"id"`
	DiseaseID   *int64    `json:"disease_id,omitempty"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsPublished bool      `json:"is_published"`
	AuthorID    int64     `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Slugify lowercases the title and collapses everything non-alphanumeric
// to single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func FromDataModel(c *contentDatamodel.EducationalContent) *EducationalContent {
	return &EducationalContent{
		ID:          c.ID,
		DiseaseID:   c.DiseaseID,
		Title:       c.Title,
		Slug:        c.Slug,
		Content:     c.Content,
		Type:        c.Type,
		ImageURL:    c.ImageURL,
		IsPublished: c.IsPublished,
		AuthorID:    c.AuthorID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
