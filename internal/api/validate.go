package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(func(level validator.StructLevel) {
		source := level.Current().Interface().(model.Source)
		if !source.UseLocalFiles && source.URLs().Empty() {
			level.ReportError(source.TripUpdateURL, "trip_update_url", "TripUpdateURL", "one_url", "")
		}
	}, model.Source{})

	return validate
}

// ValidateSource checks a source the way it will be sent: trimmed, with URLs
// cleared for local-files sources.
func ValidateSource(source model.Source) error {
	return describe(validate.Struct(source.Normalized()))
}

func ValidateURLs(urls model.SourceURLs) error {
	urls = urls.Trimmed()
	if urls.Empty() {
		return validationFailure("at least one feed URL is required")
	}
	return describe(validate.Struct(urls))
}

func describe(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return validationFailure(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldError.Field()))
		case "http_url":
			messages = append(messages, fmt.Sprintf("%s must be an absolute http(s) URL", fieldError.Field()))
		case "one_url":
			messages = append(messages, "at least one feed URL is required unless local files are used")
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid (%s)", fieldError.Field(), fieldError.Tag()))
		}
	}
	return validationFailure(strings.Join(messages, "; "))
}
