package handler

import "signup/internal/account/models"

// registerRequest is the POST /register body. Pointers keep absent and null
// fields distinguishable from empty strings.
type registerRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (r registerRequest) toModel() models.RegistrationRequest {
	return models.RegistrationRequest{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type validationErrorResponse struct {
	ValidationError map[string]string `json:"validationError"`
}
