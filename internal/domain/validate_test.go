package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func validCampaign() Campaign {
	return Campaign{
		Title:        "Clean water",
		Description:  "Wells for three villages",
		TargetAmount: dec("500"),
		StartDate:    Day(testToday).AddDate(0, 0, 1),
		EndDate:      Day(testToday).AddDate(0, 0, 31),
	}
}

func requireValidationError(t *testing.T, err error, contains string) {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Contains(t, ve.Error(), contains)
}

func TestValidateCampaign_Valid(t *testing.T) {
	assert.NoError(t, ValidateCampaign(validCampaign(), testToday, true))
}

func TestValidateCampaign_StartToday(t *testing.T) {
	c := validCampaign()
	c.StartDate = Day(testToday)

	assert.NoError(t, ValidateCampaign(c, testToday, true))
}

func TestValidateCampaign_StartInPast(t *testing.T) {
	c := validCampaign()
	c.StartDate = Day(testToday).AddDate(0, 0, -1)

	requireValidationError(t, ValidateCampaign(c, testToday, true), "Start date must be in the future")
}

func TestValidateCampaign_StartInPastSkippedOnUntouchedUpdate(t *testing.T) {
	c := validCampaign()
	c.StartDate = Day(testToday).AddDate(0, 0, -10)

	assert.NoError(t, ValidateCampaign(c, testToday, false))
}

func TestValidateCampaign_EndNotAfterStart(t *testing.T) {
	c := validCampaign()
	c.EndDate = c.StartDate

	requireValidationError(t, ValidateCampaign(c, testToday, true), "End date must be after start date")

	c.EndDate = c.StartDate.AddDate(0, 0, -3)
	requireValidationError(t, ValidateCampaign(c, testToday, true), "End date must be after start date")
}

func TestValidateCampaign_TargetTooSmall(t *testing.T) {
	c := validCampaign()
	c.TargetAmount = dec("99.99")

	requireValidationError(t, ValidateCampaign(c, testToday, true), "at least $100")

	c.TargetAmount = dec("100")
	assert.NoError(t, ValidateCampaign(c, testToday, true))
}

func TestValidateCampaign_StopsAtFirstFailure(t *testing.T) {
	// every rule is broken; the start-date rule is checked first
	c := validCampaign()
	c.StartDate = Day(testToday).AddDate(0, 0, -1)
	c.EndDate = c.StartDate
	c.TargetAmount = dec("5")

	requireValidationError(t, ValidateCampaign(c, testToday, true), "Start date")
}

func TestValidateCampaign_Fields(t *testing.T) {
	c := validCampaign()
	c.Title = "  "
	requireValidationError(t, ValidateCampaign(c, testToday, true), "title")

	c = validCampaign()
	c.Title = strings.Repeat("x", 256)
	requireValidationError(t, ValidateCampaign(c, testToday, true), "255")

	c = validCampaign()
	c.Description = ""
	requireValidationError(t, ValidateCampaign(c, testToday, true), "description")

	c = validCampaign()
	c.TargetAmount = dec("100.005")
	requireValidationError(t, ValidateCampaign(c, testToday, true), "2 decimal places")

	c = validCampaign()
	c.TargetAmount = dec("100000000")
	requireValidationError(t, ValidateCampaign(c, testToday, true), "10 digits")
}

func TestValidateDonationAmount(t *testing.T) {
	assert.NoError(t, ValidateDonationAmount(dec("1")))
	assert.NoError(t, ValidateDonationAmount(dec("1.00")))
	assert.NoError(t, ValidateDonationAmount(dec("250.75")))

	requireValidationError(t, ValidateDonationAmount(dec("0.99")), "greater than or equal to 1.0")
	requireValidationError(t, ValidateDonationAmount(dec("0")), "amount")
	requireValidationError(t, ValidateDonationAmount(dec("-5")), "amount")
	requireValidationError(t, ValidateDonationAmount(dec("1.001")), "2 decimal places")
}

func TestValidateAmounts_ExtremeExponents(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"tiny exponent", "1e-2000000000", "2 decimal places"},
		{"huge exponent", "1e2000000000", "10 digits"},
		{"just past the smallest exponent", "100000000000000000000000e-21", "2 decimal places"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := dec(tt.amount)
			start := time.Now()

			requireValidationError(t, ValidateDonationAmount(amount), tt.want)
			c := validCampaign()
			c.TargetAmount = amount
			requireValidationError(t, ValidateCampaign(c, testToday, true), tt.want)

			assert.Less(t, time.Since(start), time.Second)
		})
	}

	// Exponent notation inside the accepted range still validates normally
	c := validCampaign()
	c.TargetAmount = dec("5e2")
	assert.NoError(t, ValidateCampaign(c, testToday, true))
	assert.NoError(t, ValidateDonationAmount(dec("2500e-2")))
}

func TestValidateUser(t *testing.T) {
	assert.NoError(t, ValidateUser("alice", "a@x.com", "01123456789", "s3cretpass"))

	tests := []struct {
		name     string
		username string
		email    string
		phone    string
		password string
		field    string
	}{
		{"missing username", "", "a@x.com", "01123456789", "s3cretpass", "username"},
		{"missing email", "alice", "", "01123456789", "s3cretpass", "email"},
		{"missing phone", "alice", "a@x.com", "", "s3cretpass", "phone"},
		{"bad username", "al ice", "a@x.com", "01123456789", "s3cretpass", "username"},
		{"bad email", "alice", "not-an-email", "01123456789", "s3cretpass", "email"},
		{"phone too short", "alice", "a@x.com", "0112345678", "s3cretpass", "phone"},
		{"phone too long", "alice", "a@x.com", "011234567890", "s3cretpass", "phone"},
		{"phone wrong prefix", "alice", "a@x.com", "02123456789", "s3cretpass", "phone"},
		{"phone with letters", "alice", "a@x.com", "0112345678a", "s3cretpass", "phone"},
		{"short password", "alice", "a@x.com", "01123456789", "short", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUser(tt.username, tt.email, tt.phone, tt.password)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Alice@example.com", NormalizeEmail(" Alice@EXAMPLE.com "))
	assert.Equal(t, "plain", NormalizeEmail("plain"))
}
