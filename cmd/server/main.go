package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"signup/internal/account"
	"signup/internal/account/secrets"
	"signup/internal/i18n"
	"signup/internal/platform/config"
	"signup/internal/platform/httpserver"
	"signup/internal/platform/logger"
	"signup/internal/platform/metrics"
	httptransport "signup/internal/transport/http"
)

// main dispatches to the serve and migrate commands. Business logic lives in
// the internal service packages.
func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "signup:", err)
		os.Exit(1)
	}
}

// serve wires dependencies, exposes the HTTP router and runs until SIGINT or
// SIGTERM.
func serve(cfg config.Config) error {
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := i18n.NewCatalog(cfg.DefaultLocale, i18n.WithLogger(log))
	if err != nil {
		return err
	}
	reg := metrics.NewRegistry()

	infra, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer infra.close()

	svc, err := account.NewService(
		infra.accounts,
		infra.tokens,
		secrets.NewHasher(cfg.BcryptCost),
		infra.composer(cfg, catalog),
		infra.mailer,
		catalog,
		infra.serviceOptions(cfg, log, reg)...,
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:   log,
		Locales:  catalog,
		Modules:  []httptransport.RouteRegistrar{account.NewHandler(svc, log, catalog.Default())},
		Registry: reg,
		Checks:   infra.checks,
	})
	srv := httpserver.New(cfg.Addr, router)

	log.InfoContext(ctx, "starting signup",
		"addr", cfg.Addr,
		"store", cfg.Store,
		"mail_driver", cfg.Mail.Driver,
		"default_locale", catalog.Default().String(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.ShutdownTimeout, log)
	})
	if infra.auditWorker != nil {
		g.Go(func() error {
			return infra.auditWorker.Run(gctx)
		})
	}
	return g.Wait()
}
