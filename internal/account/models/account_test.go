package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"signup/internal/validation"
)

func ptr(s string) *string { return &s }

func validRequest() RegistrationRequest {
	return RegistrationRequest{
		Username: ptr("user1"),
		Email:    ptr("user1@mail.com"),
		Password: ptr("P4ssword"),
	}
}

func TestRegistrationRequestValidate(t *testing.T) {
	t.Run("valid request has no errors", func(t *testing.T) {
		assert.True(t, validRequest().Validate().Empty())
	})

	t.Run("null fields report required keys", func(t *testing.T) {
		errs := RegistrationRequest{}.Validate()
		assert.Equal(t, validation.Errors{
			FieldUsername: KeyUsernameNull,
			FieldEmail:    KeyEmailNull,
			FieldPassword: KeyPasswordNull,
		}, errs)
	})

	t.Run("three independent failures report first rule of each", func(t *testing.T) {
		req := RegistrationRequest{Username: ptr("a"), Email: ptr("email.com"), Password: nil}
		errs := req.Validate()
		assert.Len(t, errs, 3)
		assert.Equal(t, KeyUsernameSize, errs[FieldUsername])
		assert.Equal(t, KeyEmailNotValid, errs[FieldEmail])
		assert.Equal(t, KeyPasswordNull, errs[FieldPassword])
	})

	t.Run("whitespace username of valid length is accepted", func(t *testing.T) {
		req := validRequest()
		req.Username = ptr("    ")
		assert.True(t, req.Validate().Empty())
	})

	t.Run("username length boundaries", func(t *testing.T) {
		cases := map[int]bool{3: true, 4: false, 32: false, 33: true}
		for length, wantErr := range cases {
			req := validRequest()
			req.Username = ptr(strings.Repeat("a", length))
			_, got := req.Validate()[FieldUsername]
			assert.Equal(t, wantErr, got, "length %d", length)
		}
	})
}
