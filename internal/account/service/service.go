package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"signup/internal/account/metrics"
	"signup/internal/account/models"
	"signup/internal/account/secrets"
	"signup/internal/audit"
	"signup/internal/mail"
	"signup/internal/platform/device"
	"signup/internal/validation"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

// Internal failure causes. Errors returned by Register wrap exactly one.
var (
	ErrCredentialHashing = errors.New("credential hashing failed")
	ErrPersistence       = errors.New("account persistence failed")
	ErrEmailDispatch     = errors.New("activation email dispatch failed")
)

const defaultActivationTTL = 24 * time.Hour

var tracer = otel.Tracer("signup/internal/account/service")

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}

type TokenStore interface {
	Save(ctx context.Context, token string, accountID uuid.UUID, ttl time.Duration) error
}

type Hasher interface {
	Hash(secret string) (string, error)
}

type Composer interface {
	Activation(tag language.Tag, to, username, token string) (mail.Message, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Translator interface {
	T(tag language.Tag, key string, data map[string]any) string
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates account registration: validation, hashing,
// persistence and the activation email.
type Service struct {
	accounts   AccountStore
	tokens     TokenStore
	hasher     Hasher
	composer   Composer
	mailer     Mailer
	translator Translator

	logger           *slog.Logger
	metrics          *metrics.Metrics
	auditPublisher   AuditPublisher
	uniqueIdentities bool
	activationTTL    time.Duration
	newToken         func() (string, error)
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithUniqueIdentities rejects registrations whose email or username is
// already taken. The check is a lookup before insert and does not hold under
// concurrent registrations of the same identity.
func WithUniqueIdentities(enabled bool) Option {
	return func(s *Service) {
		s.uniqueIdentities = enabled
	}
}

// WithActivationTTL sets how long an activation token stays redeemable.
func WithActivationTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.activationTTL = ttl
		}
	}
}

// WithTokenGenerator replaces the activation token source.
func WithTokenGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.newToken = gen
		}
	}
}

// New constructs a Service. Every collaborator is required.
func New(
	accounts AccountStore,
	tokens TokenStore,
	hasher Hasher,
	composer Composer,
	mailer Mailer,
	translator Translator,
	opts ...Option,
) (*Service, error) {
	switch {
	case accounts == nil:
		return nil, errors.New("account store is required")
	case tokens == nil:
		return nil, errors.New("token store is required")
	case hasher == nil:
		return nil, errors.New("hasher is required")
	case composer == nil:
		return nil, errors.New("mail composer is required")
	case mailer == nil:
		return nil, errors.New("mailer is required")
	case translator == nil:
		return nil, errors.New("translator is required")
	}
	s := &Service{
		accounts:      accounts,
		tokens:        tokens,
		hasher:        hasher,
		composer:      composer,
		mailer:        mailer,
		translator:    translator,
		logger:        slog.New(slog.DiscardHandler),
		activationTTL: defaultActivationTTL,
		newToken:      secrets.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register runs the registration pipeline for req, localizing user-facing
// messages for tag. Validation failures are an Outcome, not an error; a
// returned error is always internal and wraps ErrCredentialHashing,
// ErrPersistence or ErrEmailDispatch.
//
// The account is persisted before the email is sent. A failed send leaves
// the account in place.
func (s *Service) Register(ctx context.Context, req models.RegistrationRequest, tag language.Tag) (*Outcome, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "account.Register")
	defer span.End()
	span.SetAttributes(attribute.String("locale", tag.String()))
	defer s.observeRegister(start)

	if errs := req.Validate(); !errs.Empty() {
		return s.reject(ctx, tag, errs), nil
	}
	username, email, password := *req.Username, *req.Email, *req.Password

	if s.uniqueIdentities {
		errs, err := s.identitiesInUse(ctx, username, email)
		if err != nil {
			return nil, s.fail(ctx, ErrPersistence, "failed to check identity availability", err)
		}
		if !errs.Empty() {
			return s.reject(ctx, tag, errs), nil
		}
	}

	account, err := s.newAccount(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	_, persistSpan := tracer.Start(ctx, "account.persist")
	err = s.accounts.Create(ctx, account)
	if err == nil {
		err = s.tokens.Save(ctx, account.ActivationToken, account.ID, s.activationTTL)
	}
	persistSpan.End()
	if err != nil {
		return nil, s.fail(ctx, ErrPersistence, "failed to persist account", err, "account_id", account.ID)
	}

	if err := s.sendActivation(ctx, tag, account); err != nil {
		return nil, err
	}

	s.emitAudit(ctx, audit.ActionAccountRegistered, account, "")
	s.incrementRegistration(metrics.OutcomeCreated)
	s.logger.InfoContext(ctx, "account registered",
		"account_id", account.ID,
		"locale", tag.String(),
		"request_id", requestcontext.RequestID(ctx),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Outcome{
		Kind:    OutcomeSuccess,
		Message: s.translator.T(tag, models.KeyUserCreatedSuccess, nil),
	}, nil
}

func (s *Service) newAccount(ctx context.Context, username, email, password string) (*models.Account, error) {
	_, span := tracer.Start(ctx, "account.hash")
	defer span.End()

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, s.fail(ctx, ErrCredentialHashing, "failed to hash password", err)
	}
	token, err := s.newToken()
	if err != nil {
		return nil, s.fail(ctx, ErrCredentialHashing, "failed to generate activation token", err)
	}
	return &models.Account{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		PasswordHash:    hash,
		ActivationToken: token,
		IsActive:        false,
		CreatedAt:       requestcontext.Now(ctx),
	}, nil
}

func (s *Service) sendActivation(ctx context.Context, tag language.Tag, account *models.Account) error {
	ctx, span := tracer.Start(ctx, "account.sendActivation")
	defer span.End()

	msg, err := s.composer.Activation(tag, account.Email, account.Username, account.ActivationToken)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		span.RecordError(err)
		s.incrementMail(false)
		s.emitAudit(ctx, audit.ActionActivationMailFailed, account, err.Error())
		return s.fail(ctx, ErrEmailDispatch, "failed to send activation email", err, "account_id", account.ID)
	}
	s.incrementMail(true)
	s.emitAudit(ctx, audit.ActionActivationMailSent, account, "")
	return nil
}

// identitiesInUse reports taken identities as validation errors.
func (s *Service) identitiesInUse(ctx context.Context, username, email string) (validation.Errors, error) {
	errs := validation.Errors{}
	if _, err := s.accounts.FindByUsername(ctx, username); err == nil {
		errs[models.FieldUsername] = models.KeyUsernameInUse
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		errs[models.FieldEmail] = models.KeyEmailInUse
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}
	return errs, nil
}

func (s *Service) reject(ctx context.Context, tag language.Tag, errs validation.Errors) *Outcome {
	localized := make(map[string]string, len(errs))
	for field, key := range errs {
		localized[field] = s.translator.T(tag, key, nil)
	}
	s.incrementRegistration(metrics.OutcomeRejected)
	s.logger.InfoContext(ctx, "registration rejected",
		"fields", len(errs),
		"locale", tag.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &Outcome{Kind: OutcomeValidationFailed, ValidationErrors: localized}
}

// fail logs cause and returns an internal error wrapping kind and cause.
func (s *Service) fail(ctx context.Context, kind error, msg string, cause error, attrs ...any) error {
	err := fmt.Errorf("%w: %w", kind, cause)
	s.incrementRegistration(metrics.OutcomeFailed)
	args := append([]any{"error", cause, "request_id", requestcontext.RequestID(ctx)}, attrs...)
	s.logger.ErrorContext(ctx, msg, args...)
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) emitAudit(ctx context.Context, action audit.Action, account *models.Account, reason string) {
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Action:    action,
		Timestamp: requestcontext.Now(ctx),
		AccountID: account.ID.String(),
		Username:  account.Username,
		Email:     account.Email,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		Reason:    reason,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", action,
			"account_id", account.ID,
			"error", err,
		)
	}
}

func (s *Service) incrementRegistration(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementRegistration(outcome)
	}
}

func (s *Service) incrementMail(sent bool) {
	if s.metrics == nil {
		return
	}
	if sent {
		s.metrics.IncrementMailSent()
	} else {
		s.metrics.IncrementMailFailed()
	}
}

func (s *Service) observeRegister(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRegister(start)
	}
}
