// Package account wires account registration: the orchestrating service and
// its HTTP handler.
package account

import (
	"log/slog"

	"golang.org/x/text/language"

	"signup/internal/account/handler"
	"signup/internal/account/service"
)

// Service exposes account registration.
type Service = service.Service

// Handler wires HTTP endpoints to the account service.
type Handler = handler.Handler

// Option configures the account service.
type Option = service.Option

// NewService constructs the registration service with required dependencies.
func NewService(
	accounts service.AccountStore,
	tokens service.TokenStore,
	hasher service.Hasher,
	composer service.Composer,
	mailer service.Mailer,
	translator service.Translator,
	opts ...Option,
) (*Service, error) {
	return service.New(accounts, tokens, hasher, composer, mailer, translator, opts...)
}

// NewHandler constructs the HTTP handler for the public registration route.
func NewHandler(s *Service, logger *slog.Logger, fallback language.Tag) *Handler {
	return handler.New(s, logger, fallback)
}
