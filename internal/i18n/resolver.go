package i18n

import (
	"net/http"

	"golang.org/x/text/language"

	"signup/pkg/requestcontext"
)

// Resolve negotiates an Accept-Language value against the supported
// languages. Empty, malformed, or unsupported values yield the default.
func (c *Catalog) Resolve(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.fallback
	}
	return c.supported[idx]
}

// Resolver picks the language for a request.
type Resolver interface {
	Resolve(acceptLanguage string) language.Tag
}

// Middleware binds the negotiated language to the request context and
// advertises it in Content-Language.
func Middleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := resolver.Resolve(r.Header.Get("Accept-Language"))
			w.Header().Set("Content-Language", tag.String())
			ctx := requestcontext.WithLocale(r.Context(), tag)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
