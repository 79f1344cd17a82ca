package domain

import (
	"regexp"
	"strings"

	"github.com/tair/foodgram/pkg/apperror"
)

// Palette lists the colors a tag may use
var Palette = []string{
	"#EE6363",
	"#FFA500",
	"#FFFF00",
	"#90EE90",
	"#6495ED",
	"#000080",
	"#9370DB",
}

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Tag labels recipes. Admin-managed reference data.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7;uniqueIndex;not null"`
	Slug  string `json:"slug" gorm:"size:50;uniqueIndex;not null"`
}

// TableName specifies the table name
func (Tag) TableName() string {
	return "tags"
}

// Validate checks name, slug and palette membership
func (t *Tag) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	t.Slug = strings.TrimSpace(t.Slug)
	t.Color = strings.ToUpper(strings.TrimSpace(t.Color))

	switch {
	case t.Name == "" || len(t.Name) > 50:
		return apperror.Validation("tag name is required and must be at most 50 characters")
	case t.Slug == "" || len(t.Slug) > 50 || !slugPattern.MatchString(t.Slug):
		return apperror.Validation("tag slug must be 1-50 characters of letters, digits, - or _")
	}
	for _, c := range Palette {
		if c == t.Color {
			return nil
		}
	}
	return apperror.Validation("tag color %q is not in the palette", t.Color)
}
