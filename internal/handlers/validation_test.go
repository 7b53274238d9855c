package handlers

import (
	"testing"

	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() registerRequest {
	return registerRequest{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "5551234567",
		Password: "secret1",
		State:    "Karnataka",
		City:     "Bengaluru",
		Country:  "India",
		Pincode:  "560001",
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	req := validRegistration()
	assert.NoError(t, validateRequest(&req))

	tests := []struct {
		field   string
		mutate  func(*registerRequest)
		message string
	}{
		{"name", func(r *registerRequest) { r.Name = "Jo" }, "Name must be at least 3 characters"},
		{"name", func(r *registerRequest) { r.Name = "Jane D03" }, "Name must contain only alphabets and spaces"},
		{"email", func(r *registerRequest) { r.Email = "jane@" }, "Invalid email format"},
		{"phone", func(r *registerRequest) { r.Phone = "12345" }, "Phone must be 10-15 digits"},
		{"phone", func(r *registerRequest) { r.Phone = "+15551234567" }, "Phone must be 10-15 digits"},
		{"password", func(r *registerRequest) { r.Password = "abc1" }, "Password must be at least 6 characters"},
		{"password", func(r *registerRequest) { r.Password = "abcdefg" }, "Password must contain at least one digit"},
		{"address", func(r *registerRequest) { r.Address = string(make([]byte, 151)) }, "Address cannot exceed 150 characters"},
		{"country", func(r *registerRequest) { r.Country = "" }, "Country is required"},
		{"pincode", func(r *registerRequest) { r.Pincode = "12a4" }, "Pincode must be 4-10 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(&req)

			var verr *services.ValidationError
			require.ErrorAs(t, validateRequest(&req), &verr)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
			assert.Equal(t, tt.message, verr.Errors[0].Message)
		})
	}
}

func TestValidateUpdateRequestIgnoresEmptyFields(t *testing.T) {
	assert.NoError(t, validateRequest(&updateRequest{}))

	var verr *services.ValidationError
	require.ErrorAs(t, validateRequest(&updateRequest{Role: "root", Pincode: "1"}), &verr)
	fields := []string{verr.Errors[0].Field, verr.Errors[1].Field}
	assert.ElementsMatch(t, []string{"role", "pincode"}, fields)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Email already exists", capitalize("email already exists"))
	assert.Equal(t, "", capitalize(""))
}
