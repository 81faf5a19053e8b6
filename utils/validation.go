package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/Govind-619/ScentSphere/models"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeString strips HTML tags and escapes what is left
func SanitizeString(input string) string {
	return html.EscapeString(htmlTagRegex.ReplaceAllString(strings.TrimSpace(input), ""))
}

// ValidateEmail checks the email format
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidateShippingInfo checks the fields required to deliver an order
func ValidateShippingInfo(info models.ShippingInfo) error {
	var errs FieldValidationErrors
	if len(strings.TrimSpace(info.FullName)) < 2 {
		errs = append(errs, FieldValidationError{Field: "full_name", Message: "is required"})
	}
	if !phoneRegex.MatchString(strings.TrimSpace(info.Phone)) {
		errs = append(errs, FieldValidationError{Field: "phone", Message: "must be a valid phone number"})
	}
	if strings.TrimSpace(info.Line1) == "" {
		errs = append(errs, FieldValidationError{Field: "line1", Message: "is required"})
	}
	if strings.TrimSpace(info.City) == "" {
		errs = append(errs, FieldValidationError{Field: "city", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanShippingInfo trims and sanitizes every free-text field. Place names are title cased.
func CleanShippingInfo(info models.ShippingInfo) models.ShippingInfo {
	return models.ShippingInfo{
		FullName:   SanitizeString(info.FullName),
		Phone:      strings.TrimSpace(info.Phone),
		Line1:      SanitizeString(info.Line1),
		Line2:      SanitizeString(info.Line2),
		City:       placeName(SanitizeString(info.City)),
		State:      placeName(SanitizeString(info.State)),
		PostalCode: SanitizeString(info.PostalCode),
		Country:    placeName(SanitizeString(info.Country)),
		Notes:      SanitizeString(info.Notes),
	}
}

// placeJoiners stay lowercase inside a place name
var placeJoiners = map[string]bool{"and": true, "of": true, "da": true, "de": true, "la": true, "the": true}

// placeName capitalises each word of a city, state or country. Hyphenated
// parts are capitalised separately and short all-caps codes such as UAE or
// NCR are kept as typed.
func placeName(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len([]rune(word)) <= 3 && word == strings.ToUpper(word) && strings.ToLower(word) != word {
			continue
		}
		if i > 0 && placeJoiners[strings.ToLower(word)] {
			words[i] = strings.ToLower(word)
			continue
		}
		parts := strings.Split(word, "-")
		for j, part := range parts {
			runes := []rune(strings.ToLower(part))
			if len(runes) > 0 {
				runes[0] = unicode.ToUpper(runes[0])
			}
			parts[j] = string(runes)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}
