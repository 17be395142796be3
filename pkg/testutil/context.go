package testutil

import (
	"net/http"

	"golang.org/x/text/language"

	"signup/pkg/requestcontext"
)

// WithLocale binds a negotiated locale to the request, as the i18n
// middleware would.
func WithLocale(req *http.Request, tag language.Tag) *http.Request {
	return req.WithContext(requestcontext.WithLocale(req.Context(), tag))
}

// WithRequestID binds a request ID to the request.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
