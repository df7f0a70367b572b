// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/cardexhq/cardex/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure with structured detail.
type FieldError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the struct field name that failed validation.
func (e *FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the parameter for the validation tag (e.g. "5" for "min=5").
func (e *FieldError) Param() string { return e.param }

// Error returns a human-readable message.
func (e *FieldError) Error() string { return e.message }

// CardValidationError aggregates every field failure for one card.
type CardValidationError struct {
	errors []FieldError
}

// Errors returns the individual field failures.
func (ve *CardValidationError) Errors() []FieldError {
	return ve.errors
}

// Error implements the error interface with a combined message.
func (ve *CardValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "card validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// Thread-safe; the instance caches struct metadata across calls.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateCard checks that a normalized card is importable: required fields
// present, at least one print, and every print carries the fields the print
// hash is derived from. Failures come back as a validation fault, which the
// retry layer treats as terminal.
func ValidateCard(card *models.UniversalCard) error {
	if card == nil {
		return models.NewImportError(models.FaultValidation, errors.New("card is nil"))
	}

	var fieldErrors []FieldError

	if err := GetValidator().Struct(card); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return models.NewImportError(models.FaultValidation, err)
		}
		for _, fe := range validationErrs {
			fieldErrors = append(fieldErrors, FieldError{
				field:   fe.Field(),
				tag:     fe.Tag(),
				param:   fe.Param(),
				message: translateError(fe),
			})
		}
	}

	if len(card.Prints) == 0 {
		fieldErrors = append(fieldErrors, FieldError{
			field:   "Prints",
			tag:     "min",
			param:   "1",
			message: "card must carry at least one print",
		})
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return models.NewImportError(models.FaultValidation, &CardValidationError{errors: fieldErrors})
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"url":      "%s must be a valid URL",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"min":   "%s must have at least %s elements",
	"max":   "%s must have at most %s elements",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
