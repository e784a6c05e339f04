// Package validator accumulates field-level payload errors.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/blog-backend/errs"
)

// Messages shared by every payload.
const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
	MsgNull     = "This field may not be null."
)

type Validator struct {
	Errors map[string][]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string][]string)}
}

func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(key, message string) {
	v.Errors[key] = append(v.Errors[key], message)
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Err returns a validation error carrying the collected messages, or nil.
func (v *Validator) Err() error {
	if v.IsValid() {
		return nil
	}
	return errs.NewValidationError(v.Errors)
}

// RequiredString checks a string field that must be present and non-blank.
func (v *Validator) RequiredString(value *string, key string) {
	switch {
	case value == nil:
		v.AddError(key, MsgRequired)
	case strings.TrimSpace(*value) == "":
		v.AddError(key, MsgBlank)
	}
}

// NotBlank checks an optional string field that, when supplied, must be non-blank.
func (v *Validator) NotBlank(value *string, key string) {
	if value != nil && strings.TrimSpace(*value) == "" {
		v.AddError(key, MsgBlank)
	}
}

// MaxLength counts characters, not bytes.
func (v *Validator) MaxLength(value *string, max int, key string) {
	if value != nil && utf8.RuneCountInString(*value) > max {
		v.AddError(key, MaxLengthMessage(max))
	}
}

func (v *Validator) MinLength(value string, min int, key string) {
	if utf8.RuneCountInString(value) < min {
		v.AddError(key, MinLengthMessage(min))
	}
}

func MaxLengthMessage(max int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", max)
}

func MinLengthMessage(min int) string {
	return fmt.Sprintf("Ensure this field has at least %d characters.", min)
}
