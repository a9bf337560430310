package config

import (
	"embed"
	"fmt"
	"regexp"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaFS embed.FS

// ValidationError represents a preference validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validator validates preferences against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new preferences validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Preferences")),
	}, nil
}

// Validate validates the given preferences.
func (v *Validator) Validate(prefs *Preferences) error {
	var errs ValidationErrors

	value := v.schema.Unify(v.ctx.Encode(prefs))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		for _, e := range cueerrors.Errors(err) {
			errs = append(errs, ValidationError{
				Field:   fieldFromPath(e.Path()),
				Message: e.Error(),
			})
		}
	}

	for field, pattern := range map[string]string{
		"lowpolyRegex":  prefs.LowpolyRegex,
		"highpolyRegex": prefs.HighpolyRegex,
	} {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if prefs.CollisionPrefix != "" && prefs.CollisionPrefix == prefs.ExportPrefix {
		errs = append(errs, ValidationError{
			Field:   "collisionPrefix",
			Message: "must differ from exportPrefix",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateFile loads and validates a preferences file at the given path.
func (v *Validator) ValidateFile(path string) error {
	prefs, err := NewLoader().Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	return v.Validate(prefs)
}

func fieldFromPath(path []string) string {
	if len(path) == 0 {
		return "preferences"
	}
	return strings.Join(path, ".")
}
