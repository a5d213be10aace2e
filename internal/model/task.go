package model

import "time"

// Task represents a single to-do item. Category is always loaded alongside it.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id" db:"id"`
	Title       string    `gorm:"not null" json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Completed   bool      `gorm:"not null;default:false" json:"completed" db:"completed"`
	CategoryID  uint      `gorm:"not null;index" json:"categoryId" db:"category_id"`
	Category    Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TaskInput holds the fields accepted by createTask.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  uint   `json:"categoryId"`
}

// TaskPatch lists the fields updateTask replaces. Nil fields stay as they are.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	CategoryID  *uint   `json:"categoryId,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.CategoryID == nil
}
