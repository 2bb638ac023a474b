package utils

import (
	"fmt"
	"regexp"
)

var (
	accountNumberRegex = regexp.MustCompile(`^[ABENSTWY][0-9]{8}A$`)
	licenceRefRegex    = regexp.MustCompile(`^[0-9A-Z/]+$`)
	controlCharsRegex  = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateAccountNumber validates a billing account number (region letter, 8 digits, trailing A)
func ValidateAccountNumber(accountNumber string) error {
	if !accountNumberRegex.MatchString(accountNumber) {
		return fmt.Errorf("invalid billing account number: %s", accountNumber)
	}
	return nil
}

// ValidateLicenceRef validates a licence reference such as 01/123/R01
func ValidateLicenceRef(ref string) error {
	if ref == "" || !licenceRefRegex.MatchString(ref) {
		return fmt.Errorf("invalid licence reference: %q", ref)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlCharsRegex.ReplaceAllString(s, "")
}
