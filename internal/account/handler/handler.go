package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"signup/internal/account/models"
	"signup/internal/account/service"
	"signup/pkg/platform/httputil"
	"signup/pkg/requestcontext"
)

// Service defines the registration operation the handler depends on.
type Service interface {
	Register(ctx context.Context, req models.RegistrationRequest, tag language.Tag) (*service.Outcome, error)
}

// Handler serves the account registration endpoint.
type Handler struct {
	logger   *slog.Logger
	accounts Service
	fallback language.Tag
}

// New creates a Handler. fallback is used when no locale was negotiated for
// the request.
func New(accounts Service, logger *slog.Logger, fallback language.Tag) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{logger: logger, accounts: accounts, fallback: fallback}
}

// Register registers the account routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[registerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tag, ok := requestcontext.Locale(ctx)
	if !ok {
		tag = h.fallback
	}

	outcome, err := h.accounts.Register(ctx, req.toModel(), tag)
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	switch outcome.Kind {
	case service.OutcomeValidationFailed:
		httputil.WriteJSON(w, http.StatusBadRequest, validationErrorResponse{ValidationError: outcome.ValidationErrors})
	default:
		httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: outcome.Message})
	}
}
