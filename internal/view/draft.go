package view

import (
	"strconv"
	"strings"

	"task-manager/internal/model"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "categoryId"
)

// CategoryOption is one entry of the new-task category picker.
type CategoryOption struct {
	ID    uint
	Label string
}

// Categories lists the picker entries. ID 0 is the placeholder and is never a
// valid choice.
var Categories = []CategoryOption{
	{ID: 0, Label: "Select a category"},
	{ID: 1, Label: "Personal"},
	{ID: 2, Label: "Work"},
	{ID: 3, Label: "School"},
	{ID: 4, Label: "Hobby"},
}

// Draft is the new-task form. It is a value: Reduce returns a new Draft.
type Draft struct {
	Title       string
	Description string
	CategoryID  uint
}

// Action is something that happens to a draft.
type Action interface {
	isAction()
}

// FieldChanged sets one field from raw input.
type FieldChanged struct {
	Field string
	Value string
}

// Reset clears the draft.
type Reset struct{}

func (FieldChanged) isAction() {}
func (Reset) isAction()        {}

// Reduce applies a to d. Unknown fields leave the draft as it was.
func Reduce(d Draft, a Action) Draft {
	switch a := a.(type) {
	case FieldChanged:
		switch a.Field {
		case FieldTitle:
			d.Title = a.Value
		case FieldDescription:
			d.Description = a.Value
		case FieldCategory:
			d.CategoryID = parseCategory(a.Value)
		}
		return d
	case Reset:
		return Draft{}
	default:
		return d
	}
}

// parseCategory maps picker input to an option id. Anything not offered is 0.
func parseCategory(value string) uint {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	for _, opt := range Categories {
		if uint64(opt.ID) == n {
			return opt.ID
		}
	}
	return 0
}

// Validate reports the first missing field.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return model.Invalid(FieldTitle, "is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return model.Invalid(FieldDescription, "is required")
	}
	if d.CategoryID == 0 {
		return model.Invalid(FieldCategory, "is required")
	}
	return nil
}

func (d Draft) Input() model.TaskInput {
	return model.TaskInput{
		Title:       d.Title,
		Description: d.Description,
		CategoryID:  d.CategoryID,
	}
}
