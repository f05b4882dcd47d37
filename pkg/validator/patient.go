package validator

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the only date format accepted from chat users.
const DateLayout = "2006-01-02"

var (
	nameRegex   = regexp.MustCompile(`^[A-Za-z ]{2,50}$`)
	emailRegex  = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	mobileRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// ValidateName accepts letters and spaces, 2 to 50 characters after trimming.
func ValidateName(name string) bool {
	return nameRegex.MatchString(strings.TrimSpace(name))
}

// ValidateEmail accepts a single '@' followed by a domain containing a dot.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidateMobile accepts exactly 10 digits with a leading 6, 7, 8 or 9.
func ValidateMobile(mobile string) bool {
	return mobileRegex.MatchString(strings.TrimSpace(mobile))
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
