package validation

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// OneOf checks value against a fixed list. Empty values are left to Required.
func OneOf(field, value string, allowed []string, v Violations) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_choice"
}

// Email checks a bare address (no display name). Empty values are left to Required.
func Email(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	a, err := mail.ParseAddress(value)
	if err != nil || a.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		v.Add(field, "invalid_email")
	}
}

// MinLength counts runes after trimming spaces.
func MinLength(field, value string, n int, code string, v Violations) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		v.Add(field, code)
	}
}

// Pattern records code when a non-empty value does not match re.
func Pattern(field, value string, re *regexp.Regexp, code string, v Violations) {
	if value != "" && !re.MatchString(value) {
		v.Add(field, code)
	}
}

var (
	// ContactPattern accepts digits with common phone punctuation.
	ContactPattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	tenDigits      = regexp.MustCompile(`^[0-9]{10}$`)
)

// TenDigits requires exactly ten digits.
func TenDigits(field, value string, v Violations) {
	Pattern(field, value, tenDigits, "contact_10_digits", v)
}

// StrongPassword requires lower, upper, digit and a special character.
func StrongPassword(field, value string, v Violations) {
	var lower, upper, digit, special bool
	for _, r := range value {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	if !(lower && upper && digit && special) {
		v.Add(field, "password_weak")
	}
}

func Match(field, a, b string, v Violations) {
	if a != b {
		v.Add(field, "password_mismatch")
	}
}

// PastDate checks a YYYY-MM-DD value that is not after today.
func PastDate(field, value string, now time.Time, v Violations) {
	if value == "" {
		return
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		v.Add(field, "invalid_date")
		return
	}
	y, m, day := now.Date()
	if d.After(time.Date(y, m, day, 0, 0, 0, 0, time.UTC)) {
		v.Add(field, "date_in_future")
	}
}

// Date checks YYYY-MM-DD syntax only.
func Date(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		v.Add(field, "invalid_date")
	}
}
