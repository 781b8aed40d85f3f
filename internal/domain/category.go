package domain

// Category Model, a node of the category tree
type Category struct {
	ID       uint       `gorm:"primaryKey" json:"id"`                      // Primary key
	ParentID *uint      `gorm:"index" json:"parent_id,omitempty"`          // Nil for top-level categories
	Name     string     `gorm:"size:100;uniqueIndex;not null" json:"name"` // Unique name
	Slug     string     `gorm:"size:120;uniqueIndex;not null" json:"slug"` // URL friendly name
	Schema   string     `gorm:"type:text" json:"schema,omitempty"`         // Expected request fields, e.g. "Origin,MFI"
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// IsTopLevel reports whether the category has no parent.
func (c Category) IsTopLevel() bool {
	return c.ParentID == nil
}
