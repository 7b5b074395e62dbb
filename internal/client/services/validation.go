package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
)

// Field names an editable user field.
type Field string

const (
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldEmail     Field = "email"
)

// Rule names a failed validation rule.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleFormat   Rule = "format"
)

type FieldError struct {
	Rule    Rule
	Message string
}

// ValidationError lists every failing field of a draft. Nothing was sent.
type ValidationError struct {
	Fields map[Field]FieldError
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[Field(k)].Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// emailPattern is a coarse shape check, not RFC 5322. "Non-space" covers
// Unicode spaces too (NBSP, em space, BOM), not only ASCII whitespace.
var emailPattern = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)

const (
	tagNotBlank   = "not_blank"
	tagLooseEmail = "loose_email"
)

// draftRules carries the validation tags of an edit draft. Names come from
// the json tags so they line up with Field.
type draftRules struct {
	FirstName string `json:"first_name" validate:"not_blank"`
	LastName  string `json:"last_name" validate:"not_blank"`
	Email     string `json:"email" validate:"not_blank,loose_email"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(tagLooseEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

var fieldLabels = map[Field]string{
	FieldFirstName: "First name",
	FieldLastName:  "Last name",
	FieldEmail:     "Email",
}

// Validate checks the draft fields and returns the failing ones.
// An empty result means the draft may be submitted.
func Validate(f models.UserFields) map[Field]FieldError {
	errs := make(map[Field]FieldError)

	err := validate.Struct(draftRules{FirstName: f.FirstName, LastName: f.LastName, Email: f.Email})
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs
	}

	for _, fe := range verrs {
		field := Field(fe.Field())
		errs[field] = toFieldError(field, fe.Tag())
	}
	return errs
}

func toFieldError(field Field, tag string) FieldError {
	label := fieldLabels[field]
	switch tag {
	case tagLooseEmail:
		return FieldError{Rule: RuleFormat, Message: label + " is invalid"}
	default:
		return FieldError{Rule: RuleRequired, Message: label + " is required"}
	}
}
