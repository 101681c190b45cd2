package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/customer-service/internal/core/domain"
)

func validPayload() domain.CustomerPayload {
	return domain.CustomerPayload{
		FirstName:   "John",
		LastName:    "Doe",
		Address:     "1 Main Street",
		PhoneNumber: "+31612345678",
		Email:       "john.doe@example.com",
	}
}

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{
		"+31612345678",
		"31612345678",
		"0612345678",
		"+31 6 1234 5678",
		"06-1234-5678",
		"(06) 1234 5678",
	}
	for _, p := range valid {
		assert.True(t, domain.ValidPhoneNumber(p), "expected %q to be valid", p)
	}

	invalid := []string{
		"",
		"   ",
		"abc",
		"123",
		"+0123456789", // international numbers can't start with 0
		"0012345678",
		"06 1234",
	}
	for _, p := range invalid {
		assert.False(t, domain.ValidPhoneNumber(p), "expected %q to be invalid", p)
	}
}

func TestValidateCustomerAcceptsValidPayload(t *testing.T) {
	p := validPayload()
	assert.Empty(t, domain.ValidateCustomer(&p))
}

func TestValidateCustomerRequiredFields(t *testing.T) {
	p := domain.CustomerPayload{}
	errs := domain.ValidateCustomer(&p)

	fields := make(map[string]string)
	for _, e := range errs {
		fields[e.Field] = e.Message
	}

	assert.Equal(t, "First name is required", fields["firstName"])
	assert.Equal(t, "Last name is required", fields["lastName"])
	assert.Equal(t, "Phone number is required", fields["phoneNumber"])
	assert.Equal(t, "Email is required", fields["email"])
	// Address is optional
	assert.NotContains(t, fields, "address")
}

func TestValidateCustomerLengthLimits(t *testing.T) {
	p := validPayload()
	p.FirstName = strings.Repeat("a", 51)
	p.LastName = strings.Repeat("b", 51)
	p.Address = strings.Repeat("c", 256)

	errs := domain.ValidateCustomer(&p)
	require.Len(t, errs, 3)
}

func TestValidateCustomerLengthLimitsCountCharacters(t *testing.T) {
	// 30 two-byte runes stay well within the 50-character limit even
	// though the byte length exceeds it.
	p := validPayload()
	p.FirstName = strings.Repeat("é", 30)
	assert.Empty(t, domain.ValidateCustomer(&p))

	p.FirstName = strings.Repeat("é", 51)
	errs := domain.ValidateCustomer(&p)
	require.Len(t, errs, 1)
	assert.Equal(t, "firstName", errs[0].Field)
	assert.Equal(t, "First name can't be longer than 50 characters", errs[0].Message)
}

func TestValidateCustomerFormats(t *testing.T) {
	p := validPayload()
	p.PhoneNumber = "not-a-phone"
	p.Email = "not-an-email"

	errs := domain.ValidateCustomer(&p)
	require.Len(t, errs, 2)
	assert.Equal(t, "phoneNumber", errs[0].Field)
	assert.Equal(t, "Phone number format is invalid", errs[0].Message)
	assert.Equal(t, "email", errs[1].Field)
	assert.Equal(t, "Email format is invalid", errs[1].Message)
}
