package task

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// fieldLabels are the human names used in messages, keyed by JSON field.
var fieldLabels = map[string]string{
	"title":          "Title",
	"description":    "Description",
	"status":         "Status",
	"priority":       "Priority",
	"dueDate":        "Due date",
	"estimatedHours": "Estimated hours",
	"actualHours":    "Actual hours",
}

// ValidationError maps JSON field names to messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func message(field string, fe validator.FieldError) string {
	label := fieldLabels[field]
	if label == "" {
		label = field
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s can't exceed %s characters", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return label + " is required"
		}
		return fmt.Sprintf("%s must be ≥ %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid: %s", label, fe.Tag())
	}
}

func collect(s any, verr *ValidationError) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), message(fe.Field(), fe))
	}
	return nil
}

// Validate checks the structural rules every stored task must satisfy.
func Validate(t *Task) error {
	verr := &ValidationError{}
	if strings.TrimSpace(t.Title) == "" {
		verr.add("title", "Title is required")
	}
	if err := collect(t, verr); err != nil {
		return err
	}
	return verr.orNil()
}

// ValidateDraft is Validate plus the rules applied when a user creates or
// edits a task: the due date may not be in the past.
func ValidateDraft(t *Task, now time.Time) error {
	verr := &ValidationError{}
	if strings.TrimSpace(t.Title) == "" {
		verr.add("title", "Title is required")
	}
	if t.DueDate != nil && t.DueDate.Before(now) {
		verr.add("dueDate", "Due date must be in the future")
	}
	if err := collect(t, verr); err != nil {
		return err
	}
	return verr.orNil()
}

func ValidatePatch(p *Patch, now time.Time) error {
	verr := &ValidationError{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		verr.add("title", "Title is required")
	}
	if p.DueDate != nil && p.DueDate.Before(now) {
		verr.add("dueDate", "Due date must be in the future")
	}
	if err := collect(p, verr); err != nil {
		return err
	}
	return verr.orNil()
}
