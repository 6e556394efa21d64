package domain

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate

	sanitizerOnce sync.Once
	sanitizerInst *bluemonday.Policy
)

// getValidator lazily initializes the shared validator instance.
func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

func getSanitizer() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		sanitizerInst = bluemonday.StrictPolicy()
	})
	return sanitizerInst
}

// SanitizeString strips HTML from user-supplied text and trims whitespace.
func SanitizeString(input string) string {
	return strings.TrimSpace(getSanitizer().Sanitize(input))
}

// sanitizeItem scrubs the string fields of a typed section item in place.
func sanitizeItem(item any) {
	switch v := item.(type) {
	case *SkillItem:
		v.Name = SanitizeString(v.Name)
		v.Level = SanitizeString(v.Level)
	case *ExperienceItem:
		v.Name = SanitizeString(v.Name)
		v.Description = SanitizeString(v.Description)
	case *EducationItem:
		v.Institution = SanitizeString(v.Institution)
		v.Degree = SanitizeString(v.Degree)
		v.Description = SanitizeString(v.Description)
		v.StartDate = strings.TrimSpace(v.StartDate)
		v.EndDate = strings.TrimSpace(v.EndDate)
	case *LanguageItem:
		v.Name = SanitizeString(v.Name)
		v.Level = SanitizeString(v.Level)
	case *ProjectItem:
		v.Name = SanitizeString(v.Name)
		v.Description = SanitizeString(v.Description)
		v.StartDate = strings.TrimSpace(v.StartDate)
		v.EndDate = strings.TrimSpace(v.EndDate)
		for i, tech := range v.Technologies {
			v.Technologies[i] = SanitizeString(tech)
		}
	case *CertificationItem:
		v.Name = SanitizeString(v.Name)
		v.Organization = SanitizeString(v.Organization)
		v.IssueDate = strings.TrimSpace(v.IssueDate)
		v.ExpiryDate = strings.TrimSpace(v.ExpiryDate)
	}
}

// ValidateStruct runs tag validation and maps the first failure into the
// project's ValidationError shape.
func ValidateStruct(model any) error {
	if err := getValidator().Struct(model); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return NewValidationError(fe.Field(), formatValidationMessage(fe))
		}
		return err
	}
	return nil
}

func formatValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "field is required"
	case "max":
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "datetime":
		return fmt.Sprintf("must match date format %s", err.Param())
	case "email":
		return "must be a valid email address"
	default:
		return err.Error()
	}
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmailFormat checks the identity's shape before any store lookup.
func ValidateEmailFormat(email string) error {
	if !emailRegex.MatchString(email) {
		return NewValidationError("email", "invalid email format")
	}
	return nil
}

const passwordSymbols = "@$!%*?&#._-"

// ValidatePassword enforces the registration complexity policy: at least 8
// characters with one uppercase letter, one digit and one symbol.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return NewValidationError("password", "password must be at least 8 characters long")
	}
	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	if !hasUpper || !hasDigit || !hasSymbol {
		return NewValidationError("password",
			"password must contain at least one uppercase letter, one number and one special character")
	}
	return nil
}

// ValidateMinimumAge parses a YYYY-MM-DD birth date and checks the age at the
// reference time. Month and day are compared so the threshold lands exactly
// on the birthday.
func ValidateMinimumAge(dateOfBirth string, minYears int, now time.Time) error {
	birth, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return NewValidationError("dateBirth", "invalid date of birth (expected YYYY-MM-DD)")
	}

	years := now.Year() - birth.Year()
	if int(now.Month()) < int(birth.Month()) ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}

	if years < minYears {
		return NewValidationError("dateBirth",
			fmt.Sprintf("you must be at least %d years old to register", minYears))
	}
	return nil
}
