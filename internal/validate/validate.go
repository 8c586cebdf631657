// Package validate checks required fields before a mutation is sent.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/planner-dashboard/backend/internal/storage/models"
)

// Kind classifies a validation failure.
type Kind string

// FieldRequired is reported when a mandatory field is empty.
const FieldRequired Kind = "FIELD_REQUIRED"

// ErrFieldRequired matches any FIELD_REQUIRED ValidationError with errors.Is.
var ErrFieldRequired = errors.New("field required")

// ValidationError names the field that failed validation.
type ValidationError struct {
	Kind   Kind
	Entity string
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", strings.ToLower(e.Entity), e.Field)
}

// Is lets errors.Is(err, ErrFieldRequired) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrFieldRequired && e.Kind == FieldRequired
}

func required(entity, field string) error {
	return &ValidationError{Kind: FieldRequired, Entity: entity, Field: field}
}

// Calendar requires a name.
func Calendar(c models.Calendar) error {
	if strings.TrimSpace(c.Name) == "" {
		return required("Calendar", "name")
	}
	return nil
}

// Category requires a name.
func Category(c models.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return required("Category", "name")
	}
	return nil
}

// Event requires a name and both dates.
func Event(e models.Event) error {
	switch {
	case strings.TrimSpace(e.Name) == "":
		return required("Event", "name")
	case e.StartDate.IsZero():
		return required("Event", "startDate")
	case e.EndDate.IsZero():
		return required("Event", "endDate")
	}
	return nil
}

// Task requires a name.
func Task(t models.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return required("Task", "name")
	}
	return nil
}

// Note requires a description.
func Note(n models.Note) error {
	if strings.TrimSpace(n.Description) == "" {
		return required("Note", "description")
	}
	return nil
}

// ID requires a non-empty identifier, used before updates.
func ID(entity, id string) error {
	if strings.TrimSpace(id) == "" {
		return required(entity, "id")
	}
	return nil
}
