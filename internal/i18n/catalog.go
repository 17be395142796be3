// Package i18n loads the message catalogs and negotiates a language per
// request.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

// Catalog renders message keys for the supported languages. It is built once
// at startup and is read-only afterwards, so it is safe for concurrent use.
type Catalog struct {
	bundle    *i18n.Bundle
	fallback  language.Tag
	supported []language.Tag
	matcher   language.Matcher
	logger    *slog.Logger
}

// Option configures a Catalog.
type Option func(c *Catalog)

// WithLogger reports missing keys to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// NewCatalog loads the embedded catalogs with defaultLocale as the fallback
// language. defaultLocale must be one of the embedded languages.
func NewCatalog(defaultLocale string, opts ...Option) (*Catalog, error) {
	return newCatalog(localeFS, "locales", defaultLocale, opts...)
}

func newCatalog(fsys fs.FS, dir, defaultLocale string, opts ...Option) (*Catalog, error) {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid default locale %q: %w", defaultLocale, err)
	}

	bundle := i18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(fsys, path.Join(dir, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("i18n: list catalogs: %w", err)
	}
	// The fallback goes first so the matcher returns it when nothing matches.
	supported := []language.Tag{fallback}
	found := false
	for _, file := range files {
		mf, err := bundle.LoadMessageFileFS(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("i18n: load %s: %w", file, err)
		}
		switch {
		case mf.Tag == fallback:
			found = true
		case !slices.Contains(supported, mf.Tag):
			supported = append(supported, mf.Tag)
		}
	}
	if !found {
		return nil, fmt.Errorf("i18n: no catalog for default locale %q", defaultLocale)
	}

	c := &Catalog{
		bundle:    bundle,
		fallback:  fallback,
		supported: supported,
		matcher:   language.NewMatcher(supported),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Default returns the fallback language.
func (c *Catalog) Default() language.Tag {
	return c.fallback
}

// Supported lists the languages with a catalog, fallback first.
func (c *Catalog) Supported() []language.Tag {
	return append([]language.Tag(nil), c.supported...)
}

// T renders key for tag. A key missing in tag falls back to the default
// language, then to the key itself.
func (c *Catalog) T(tag language.Tag, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	cfg := &i18n.LocalizeConfig{MessageID: key, TemplateData: data}
	msg, err := i18n.NewLocalizer(c.bundle, tag.String()).Localize(cfg)
	var notFound *i18n.MessageNotFoundErr
	if errors.As(err, &notFound) && tag != c.fallback {
		msg, err = i18n.NewLocalizer(c.bundle, c.fallback.String()).Localize(cfg)
	}
	if err != nil || msg == "" {
		c.logger.Warn("i18n: message not found",
			"key", key,
			"locale", tag.String(),
			"error", err,
		)
		return key
	}
	return msg
}
