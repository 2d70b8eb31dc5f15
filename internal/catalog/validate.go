package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	nameMinLen        = 2
	nameMaxLen        = 100
	descriptionMaxLen = 500
)

// colorPattern accepts 6- or 3-digit hex colors, e.g. #1A2B3C or #FFF.
var colorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return FieldError("name", "name is required")
	}
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return FieldError("name", fmt.Sprintf("name must be between %d and %d characters", nameMinLen, nameMaxLen))
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > descriptionMaxLen {
		return FieldError("description", fmt.Sprintf("description cannot exceed %d characters", descriptionMaxLen))
	}
	return nil
}

func validateColor(color string) error {
	if color == "" {
		return nil
	}
	if !colorPattern.MatchString(color) {
		return FieldError("color", "color must be a valid hex code")
	}
	return nil
}

func validateNonNegative(field string, value float64) error {
	if value < 0 {
		return FieldError(field, field+" cannot be negative")
	}
	return nil
}
