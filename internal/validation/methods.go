package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	apperrors "hoaportal/internal/errors"
)

// Validator collects field errors. The first message recorded for a field wins.
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; exists {
		return
	}
	v.Errors[field] = message
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns nil when valid, otherwise a validation DomainError carrying the fields.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return apperrors.ValidationFields(v.Errors)
}

// Email validates email format
func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

// Phone validates phone number format. Blank is allowed; use Required first when it is not.
func (v *Validator) Phone(field, phone string) {
	if phone == "" {
		return
	}
	v.Check(phoneRegex.MatchString(phone), field, "must be a valid phone number")
}

// Required checks if a string is not blank
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MinLength checks if a string has at least n characters
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(value) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// OneOf checks membership in a closed set. Blank is allowed.
func (v *Validator) OneOf(field, value string, allowed []string) {
	if value == "" {
		return
	}
	v.Check(slices.Contains(allowed, value), field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// NonNegative checks n >= 0
func (v *Validator) NonNegative(field string, n int) {
	v.Check(n >= 0, field, "must not be negative")
}

// BlockLot validates a block or lot designation. Blank clears the value.
func (v *Validator) BlockLot(field, value string) {
	if value == "" {
		return
	}
	v.Check(blockLotRegex.MatchString(value), field, "must be 1-10 letters, digits or dashes")
}

// UnitNumber validates a unit number. Blank clears the value.
func (v *Validator) UnitNumber(field, value string) {
	if value == "" {
		return
	}
	v.Check(unitNumberRegex.MatchString(value), field, "must be 1-10 letters, digits, dashes, # or spaces")
}

// LicensePlate validates an upper-cased plate.
func (v *Validator) LicensePlate(field, plate string) {
	v.Check(plateRegex.MatchString(plate), field, "must be 2-10 letters, digits, dashes or spaces")
}

// Between checks lo <= n <= hi
func (v *Validator) Between(field string, n, lo, hi int) {
	v.Check(n >= lo && n <= hi, field, fmt.Sprintf("must be between %d and %d", lo, hi))
}

// Positive checks n > 0
func (v *Validator) Positive(field string, n float64) {
	v.Check(n > 0, field, "must be greater than zero")
}

// Digits checks that value is exactly n ASCII digits
func (v *Validator) Digits(field, value string, n int) {
	v.Check(len(value) == n && numericRegex.MatchString(value), field, fmt.Sprintf("must be %d digits", n))
}

// Password validates password strength
func (v *Validator) Password(field, password string) {
	v.MinLength(field, password, MinPasswordLength)
	v.MaxLength(field, password, MaxPasswordLength)

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	v.Check(hasUpper, field, "must contain at least one uppercase letter")
	v.Check(hasLower, field, "must contain at least one lowercase letter")
	v.Check(hasNumber, field, "must contain at least one number")
	v.Check(hasSpecial, field, "must contain at least one special character")
}

// Timezone checks that value names an IANA time zone. Blank is allowed.
func (v *Validator) Timezone(field, value string) {
	if value == "" {
		return
	}
	_, err := time.LoadLocation(value)
	v.Check(err == nil, field, "must be a valid time zone")
}

// Date checks a YYYY-MM-DD calendar date. Blank is allowed.
func (v *Validator) Date(field, value string) {
	if value == "" {
		return
	}
	_, err := time.Parse(DateLayout, value)
	v.Check(err == nil, field, "must be a date in YYYY-MM-DD format")
}
