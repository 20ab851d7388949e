// Package form validates attachment submissions. Each variant is an explicit
// validation function returning either a Submission or an ordered list of
// field errors; it has no dependency on the HTTP layer.
package form

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"attachapi/internal/classifier"
)

// Variant selects which fields a form requires.
type Variant string

const (
	// VariantRequired requires a file; description is optional.
	VariantRequired Variant = "required"
	// VariantOptional admits an empty submission but rejects a description without a file.
	VariantOptional Variant = "optional"
	// VariantTagged is VariantRequired plus a required tag.
	VariantTagged Variant = "tagged"
)

const (
	FieldDescription = "description"
	FieldAttachment  = "attachment"
	FieldTag         = "tag"

	MaxDescriptionLength = 256

	MsgRequired       = "This field is required."
	MsgNoFileSelected = "No file selected"
)

var ErrUnknownVariant = errors.New("unknown form variant")

// ParseVariant maps a query value to a Variant. An empty string yields def.
func ParseVariant(s string, def Variant) (Variant, error) {
	if s == "" {
		return def, nil
	}
	switch v := Variant(s); v {
	case VariantRequired, VariantOptional, VariantTagged:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// File is an uploaded file as seen by the form.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Input is the raw submission. File is nil when no file was sent.
type Input struct {
	Description string
	Tag         string
	File        *File
}

// HasDescription reports whether a description was submitted. Whitespace counts.
func (in Input) HasDescription() bool {
	return in.Description != ""
}

func (in Input) hasFile() bool {
	return in.File != nil && in.File.Name != ""
}

// Submission is a validated form. File is nil only for an empty optional form.
type Submission struct {
	Description *string
	Tag         *string
	File        *File
}

// Empty reports whether nothing was submitted, in which case no record is created.
func (s *Submission) Empty() bool {
	return s.File == nil
}

// FieldError is a message attached to one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is an ordered list of field errors.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// For returns the messages recorded for field.
func (e Errors) For(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type requiredFields struct {
	Description string `form:"description" validate:"max=256"`
	Attachment  string `form:"attachment" validate:"required"`
}

type optionalFields struct {
	Description string `form:"description" validate:"max=256"`
	Attachment  string `form:"attachment"`
}

type taggedFields struct {
	Description string `form:"description" validate:"max=256"`
	Attachment  string `form:"attachment" validate:"required"`
	Tag         string `form:"tag" validate:"required"`
}

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
}

// Validate checks in against variant v.
func Validate(v Variant, in Input) (*Submission, error) {
	description := strings.TrimSpace(in.Description)
	tag := strings.TrimSpace(in.Tag)
	fileName := ""
	if in.hasFile() {
		fileName = in.File.Name
	}

	var fields any
	switch v {
	case VariantRequired:
		fields = requiredFields{Description: description, Attachment: fileName}
	case VariantOptional:
		fields = optionalFields{Description: description, Attachment: fileName}
	case VariantTagged:
		fields = taggedFields{Description: description, Attachment: fileName, Tag: tag}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}

	collected := map[string][]string{}
	if err := validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate form: %w", err)
		}
		for _, fe := range verrs {
			collected[fe.Field()] = append(collected[fe.Field()], message(fe))
		}
	}

	if fileName != "" {
		if _, _, err := classifier.Classify(fileName); err != nil {
			collected[FieldAttachment] = append(collected[FieldAttachment], err.Error())
		}
	} else if v == VariantOptional && in.HasDescription() {
		collected[FieldAttachment] = append(collected[FieldAttachment], MsgNoFileSelected)
	}

	if len(collected) > 0 {
		var errs Errors
		for _, field := range []string{FieldDescription, FieldAttachment, FieldTag} {
			for _, msg := range collected[field] {
				errs = append(errs, FieldError{Field: field, Message: msg})
			}
		}
		return nil, errs
	}

	sub := &Submission{}
	if fileName != "" {
		sub.File = in.File
	}
	if description != "" {
		sub.Description = &description
	}
	if v == VariantTagged {
		sub.Tag = &tag
	}
	return sub, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		n := 0
		if s, ok := fe.Value().(string); ok {
			n = len([]rune(s))
		}
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).", fe.Param(), n)
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
