package models

import (
	"strings"
	"time"
)

// Category is a brand (no parent) or a sub-brand (parent is a brand).
type Category struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string     `json:"name" gorm:"type:varchar(100);not null;index"`
	Slug      string     `json:"slug" gorm:"type:varchar(120);index"`
	ParentID  *string    `json:"parentId" gorm:"type:varchar(36);index"`
	// NameKey and ParentKey back the sibling uniqueness index. ParentKey is
	// "" for brands because NULLs never collide in a unique index.
	NameKey   string     `json:"-" gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_categories_sibling_name,priority:2"`
	ParentKey string     `json:"-" gorm:"type:varchar(36);not null;default:'';uniqueIndex:idx_categories_sibling_name,priority:1"`
	Parent    *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children  []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products  []Product  `json:"-" gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// IsRoot reports whether the category is a top-level brand.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryNameKey folds a name for sibling comparison. The folding happens
// here rather than in SQL because SQLite's LOWER only handles ASCII.
func CategoryNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetKeys fills NameKey and ParentKey from Name and ParentID.
func (c *Category) SetKeys() {
	c.NameKey = CategoryNameKey(c.Name)
	c.ParentKey = ""
	if c.ParentID != nil {
		c.ParentKey = *c.ParentID
	}
}

// CategoryListing is the flat two-level view served to the storefront.
type CategoryListing struct {
	MainCategories []Category `json:"mainCategories"`
	SubCategories  []Category `json:"subCategories"`
}
