package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	phoneRegex    = regexp.MustCompile(`^01[0-9]{9}$`)      // Egyptian mobile: 01 + 9 digits
	usernameRegex = regexp.MustCompile(`^[\w.@+-]{1,150}$`) // Letters, digits and @/./+/-/_

	minTarget   = decimal.NewFromInt(100) // Smallest accepted campaign target
	minDonation = decimal.NewFromInt(1)   // Smallest accepted donation
	maxAmount   = decimal.New(1, 8)       // decimal(10,2) upper bound (exclusive)
	fieldCheck  = validator.New()         // Shared tag validator for email syntax
)

const (
	minExponent    = -20 // Smallest accepted decimal exponent; 1e-20 has far more than 2 places
	maxExponent    = 10  // Largest accepted decimal exponent; 1e10 is beyond decimal(10,2)
	maxTitleLen    = 255
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// ValidateCampaign checks a campaign's fields in a fixed order and reports the first violation.
// The start-date rule is skipped when checkStart is false, i.e. an update that leaves
// the start date untouched.
func ValidateCampaign(c Campaign, today time.Time, checkStart bool) error {
	if strings.TrimSpace(c.Title) == "" {
		return invalid("title", "This field may not be blank.")
	}
	if utf8.RuneCountInString(c.Title) > maxTitleLen {
		return invalid("title", "Ensure this field has no more than 255 characters.")
	}
	if strings.TrimSpace(c.Description) == "" {
		return invalid("description", "This field may not be blank.")
	}
	if checkStart && Day(c.StartDate).Before(Day(today)) {
		return invalid("", "Start date must be in the future.")
	}
	if !Day(c.EndDate).After(Day(c.StartDate)) {
		return invalid("", "End date must be after start date.")
	}
	if err := validateAmountScale("target_amount", c.TargetAmount); err != nil {
		return err
	}
	if c.TargetAmount.LessThan(minTarget) {
		return invalid("", "Target amount must be at least $100.")
	}
	return validateAmountPrecision("target_amount", c.TargetAmount)
}

// ValidateDonationAmount checks the donated amount; campaign existence is checked by the store
func ValidateDonationAmount(amount decimal.Decimal) error {
	if err := validateAmountScale("amount", amount); err != nil {
		return err
	}
	if amount.LessThan(minDonation) {
		return invalid("amount", "Ensure this value is greater than or equal to 1.0.")
	}
	return validateAmountPrecision("amount", amount)
}

// validateAmountScale rejects exponents far outside decimal(10,2) before any
// comparison, since comparing rescales both operands to the smaller exponent.
func validateAmountScale(field string, amount decimal.Decimal) error {
	switch exp := amount.Exponent(); {
	case exp < minExponent:
		return invalid(field, "Ensure that there are no more than 2 decimal places.")
	case exp > maxExponent:
		return invalid(field, "Ensure that there are no more than 10 digits in total.")
	}
	return nil
}

// validateAmountPrecision enforces the decimal(10,2) column shape
func validateAmountPrecision(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return invalid(field, "Ensure that there are no more than 2 decimal places.")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return invalid(field, "Ensure that there are no more than 10 digits in total.")
	}
	return nil
}

// ValidateUser checks registration fields; uniqueness is enforced by the store
func ValidateUser(username, email, phone, password string) error {
	if username == "" {
		return invalid("username", "The Username is required")
	}
	if email == "" {
		return invalid("email", "The Email is required")
	}
	if phone == "" {
		return invalid("phone", "The Phone is required")
	}
	if !usernameRegex.MatchString(username) {
		return invalid("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if err := fieldCheck.Var(email, "email"); err != nil {
		return invalid("email", "Enter a valid email address.")
	}
	if !phoneRegex.MatchString(phone) {
		return invalid("phone", "Please enter a valid Egyptian phone number (11 digits starting with 01)")
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return invalid("password", "Password must be 8-72 characters")
	}
	return nil
}

// NormalizeEmail lowercases the domain part of an email address
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
