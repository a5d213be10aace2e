package model

import "time"

// Category groups tasks and carries a display color.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id" db:"id"`
	Name      string    `gorm:"not null" json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryInput holds the fields accepted by createCategory.
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryPatch lists the fields updateCategory replaces. Nil fields stay as they are.
type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// DefaultCategories is seeded into an empty store. The clients offer exactly
// these ids as their fixed category choices.
var DefaultCategories = []Category{
	{ID: 1, Name: "Personal", Color: "#22c55e"},
	{ID: 2, Name: "Work", Color: "#3b82f6"},
	{ID: 3, Name: "School", Color: "#eab308"},
	{ID: 4, Name: "Hobby", Color: "#a855f7"},
}
