package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequiredAndNumbers(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	PositiveFloat("amount", 0, v)
	PositiveInt("quantity", -1, v)
	assert.Equal(t, Violations{
		"name":     "required",
		"amount":   "must_be_positive",
		"quantity": "must_be_positive",
	}, v)
}

func TestOneOf(t *testing.T) {
	v := Violations{}
	OneOf("unit", "mg", []string{"mg", "ml"}, v)
	OneOf("empty", "", []string{"mg"}, v)
	assert.True(t, v.Empty())

	OneOf("unit", "litre", []string{"mg", "ml"}, v)
	assert.Equal(t, "invalid_choice", v["unit"])
}

func TestEmail(t *testing.T) {
	for in, ok := range map[string]bool{
		"jane@example.com":        true,
		"":                        true,
		"jane":                    false,
		"Jane <jane@example.com>": false,
		"jane@localhost":          false,
	} {
		v := Violations{}
		Email("email", in, v)
		assert.Equal(t, ok, v.Empty(), in)
	}
}

func TestAddKeepsFirst(t *testing.T) {
	v := Violations{}
	Required("email", "", v)
	Email("email", "nope", v)
	assert.Equal(t, "required", v["email"])
}

func TestPasswordRules(t *testing.T) {
	v := Violations{}
	StrongPassword("password", "Secret1!", v)
	MinLength("password", "Secret1!", 8, "password_min_8", v)
	Match("confirm", "Secret1!", "Secret1!", v)
	assert.True(t, v.Empty())

	v = Violations{}
	StrongPassword("password", "secret11", v)
	Match("confirm", "a", "b", v)
	MinLength("name", "J", 2, "too_short", v)
	assert.Equal(t, "password_weak", v["password"])
	assert.Equal(t, "password_mismatch", v["confirm"])
	assert.Equal(t, "too_short", v["name"])
}

func TestContact(t *testing.T) {
	v := Violations{}
	TenDigits("contactNo", "0771234567", v)
	Pattern("phone", "+94 (77) 123-4567", ContactPattern, "invalid_contact", v)
	assert.True(t, v.Empty())

	TenDigits("contactNo", "077123456", v)
	Pattern("phone", "call me", ContactPattern, "invalid_contact", v)
	assert.Equal(t, "contact_10_digits", v["contactNo"])
	assert.Equal(t, "invalid_contact", v["phone"])
}

func TestDates(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	v := Violations{}
	PastDate("dob", "2024-05-10", now, v)
	PastDate("dob", "1990-01-31", now, v)
	Date("expirationDate", "2030-12-31", v)
	assert.True(t, v.Empty())

	PastDate("dob", "2024-05-11", now, v)
	PastDate("other", "31/01/1990", now, v)
	Date("expirationDate", "2030-13-01", v)
	assert.Equal(t, "date_in_future", v["dob"])
	assert.Equal(t, "invalid_date", v["other"])
	assert.Equal(t, "invalid_date", v["expirationDate"])
}
