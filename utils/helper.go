package utils

import (
	"errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

func defaultPhoneRegion() string {
	region := strings.TrimSpace(os.Getenv("PHONE_REGION"))
	if region == "" {
		return "US"
	}
	return region
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}
	if !libphonenumber.IsValidNumber(p) {
		return errors.New("invalid phone number")
	}
	return nil
}

// NormalizePhone returns the E.164 form of a phone number when it parses in
// the configured default region; otherwise the input is returned unchanged.
// Inquiry forms accept free-text numbers, so this never rejects.
func NormalizePhone(phoneNumber string) string {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return ""
	}
	p, err := libphonenumber.Parse(phoneNumber, defaultPhoneRegion())
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return phoneNumber
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}

// ProcessValidationErrors flattens binding failures into a field -> rule map
// for the error response. Non-validator errors come back under "request".
func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorResponse["request"] = err.Error()
		return errorResponse
	}

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}
