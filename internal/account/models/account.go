package models

import (
	"time"

	"github.com/google/uuid"

	"signup/internal/validation"
)

// Account is a registered user. Accounts start inactive until the activation
// token is redeemed.
type Account struct {
	ID              uuid.UUID
	Username        string
	Email           string
	PasswordHash    string
	ActivationToken string
	IsActive        bool
	CreatedAt       time.Time
}

// Field names as reported in validation errors.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Message keys produced by registration.
const (
	KeyUsernameNull       = "username_null"
	KeyUsernameSize       = "username_size"
	KeyUsernameInUse      = "username_in_use"
	KeyEmailNull          = "email_null"
	KeyEmailNotValid      = "email_not_valid"
	KeyEmailInUse         = "email_in_use"
	KeyPasswordNull       = "password_null"
	KeyUserCreatedSuccess = "user_created_success"
)

// Username length bounds, inclusive.
const (
	UsernameMinLength = 4
	UsernameMaxLength = 32
)

// RegistrationRequest carries raw, unvalidated input. Nil means the field was
// absent or null.
type RegistrationRequest struct {
	Username *string
	Email    *string
	Password *string
}

// Fields returns the ordered rule chains for a registration.
func (r RegistrationRequest) Fields() []validation.Field {
	return []validation.Field{
		{
			Name:  FieldUsername,
			Value: r.Username,
			Rules: []validation.Rule{
				validation.Required(KeyUsernameNull),
				validation.Length(UsernameMinLength, UsernameMaxLength, KeyUsernameSize),
			},
		},
		{
			Name:  FieldEmail,
			Value: r.Email,
			Rules: []validation.Rule{
				validation.Required(KeyEmailNull),
				validation.Email(KeyEmailNotValid),
			},
		},
		{
			Name:  FieldPassword,
			Value: r.Password,
			Rules: []validation.Rule{
				validation.Required(KeyPasswordNull),
			},
		},
	}
}

// Validate runs the registration rule chains.
func (r RegistrationRequest) Validate() validation.Errors {
	return validation.Validate(r.Fields()...)
}
