package config

import (
	"fmt"
	"os"
	"strings"
)

// ValidationError represents a specific problem with one config field.
type ValidationError struct {
	// Field is the config key that failed validation (e.g. "creationOptions[1]").
	Field string

	// Message describes what's wrong with the field value.
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a decoded Config and returns every problem found
// (empty list = valid configuration).
//
// Checks performed:
//   - creationOptions entries are KEY=VALUE with a non-empty key
//   - palette and nodataColor are not blank
//   - catalogPath is set and is not an existing directory
//   - classes colours are not blank
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	for i, opt := range cfg.CreationOptions {
		key, _, ok := strings.Cut(opt, "=")
		if !ok || strings.TrimSpace(key) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("creationOptions[%d]", i),
				Message: fmt.Sprintf("%q must have the form KEY=VALUE", opt),
			})
		}
	}

	if strings.TrimSpace(cfg.Palette) == "" {
		errs = append(errs, ValidationError{Field: "palette", Message: "must not be empty"})
	}
	if strings.TrimSpace(cfg.NodataColor) == "" {
		errs = append(errs, ValidationError{Field: "nodataColor", Message: "must not be empty"})
	}

	if cfg.CatalogPath == "" {
		errs = append(errs, ValidationError{Field: "catalogPath", Message: "must not be empty"})
	} else if fi, err := os.Stat(cfg.CatalogPath); err == nil && fi.IsDir() {
		errs = append(errs, ValidationError{
			Field:   "catalogPath",
			Message: fmt.Sprintf("%s is a directory", cfg.CatalogPath),
		})
	}

	for value, colour := range cfg.Classes {
		if strings.TrimSpace(colour) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("classes[%d]", value),
				Message: "colour must not be empty",
			})
		}
	}

	return errs
}

// asErrors converts validation results to a slice of error for errors.Join.
func asErrors(errs []ValidationError) []error {
	out := make([]error, 0, len(errs))
	for i := range errs {
		out = append(out, &errs[i])
	}
	return out
}
