package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"signup/internal/account"
	accountmetrics "signup/internal/account/metrics"
	"signup/internal/account/service"
	"signup/internal/account/store"
	"signup/internal/account/store/token"
	"signup/internal/audit"
	"signup/internal/i18n"
	"signup/internal/mail"
	"signup/internal/platform/config"
	"signup/internal/platform/postgres"
	"signup/internal/platform/redis"
	httptransport "signup/internal/transport/http"
)

const auditQueueSize = 1024

// infra holds the backing services chosen by configuration.
type infra struct {
	accounts    service.AccountStore
	tokens      service.TokenStore
	mailer      service.Mailer
	audit       *audit.Publisher
	auditWorker *audit.Worker
	checks      []httptransport.HealthCheck
	closers     []func()
}

func buildInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}
	if err := in.buildAccountStore(ctx, cfg, log); err != nil {
		in.close()
		return nil, err
	}
	if err := in.buildTokenStore(ctx, cfg, log); err != nil {
		in.close()
		return nil, err
	}
	if err := in.buildAudit(ctx, cfg, log); err != nil {
		in.close()
		return nil, err
	}
	in.buildMailer(cfg, log)
	return in, nil
}

func (in *infra) buildAccountStore(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.Store != config.StorePostgres {
		in.accounts = store.NewInMemory()
		log.WarnContext(ctx, "using in-memory account store")
		return nil
	}
	if cfg.Migrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	in.accounts = store.NewPostgres(pool)
	in.closers = append(in.closers, pool.Close)
	in.checks = append(in.checks, httptransport.HealthCheck{Name: "postgres", Check: pool.Ping})
	return nil
}

func (in *infra) buildTokenStore(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if client == nil {
		in.tokens = token.NewInMemory()
		log.WarnContext(ctx, "REDIS_URL not set, activation tokens kept in memory")
		return nil
	}
	in.tokens = token.NewRedis(client.Client)
	in.closers = append(in.closers, func() { _ = client.Close() })
	in.checks = append(in.checks, httptransport.HealthCheck{Name: "redis", Check: client.Health})
	return nil
}

func (in *infra) buildAudit(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if len(cfg.KafkaBrokers) == 0 {
		in.audit = audit.NewPublisher(audit.NewLogSink(log))
		return nil
	}
	sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		return err
	}
	in.closers = append(in.closers, sink.Close)
	if err := sink.EnsureTopic(ctx, 1); err != nil {
		return fmt.Errorf("audit topic: %w", err)
	}
	queue := make(chan audit.Event, auditQueueSize)
	in.audit = audit.NewPublisher(sink, audit.WithQueue(queue))
	in.auditWorker = audit.NewWorker(sink, queue, log)
	in.checks = append(in.checks, httptransport.HealthCheck{Name: "kafka", Check: sink.Health})
	return nil
}

func (in *infra) buildMailer(cfg config.Config, log *slog.Logger) {
	if cfg.Mail.Driver == config.MailLog {
		in.mailer = mail.NewRecorder(log)
		return
	}
	in.mailer = mail.NewSMTP(cfg.Mail.SMTPAddr,
		mail.WithAuth(cfg.Mail.SMTPUsername, cfg.Mail.SMTPPassword),
		mail.WithInsecureTLS(cfg.Mail.InsecureTLS),
	)
}

func (in *infra) composer(cfg config.Config, catalog *i18n.Catalog) *mail.Composer {
	return mail.NewComposer(cfg.Mail.From, catalog)
}

func (in *infra) serviceOptions(cfg config.Config, log *slog.Logger, reg prometheus.Registerer) []account.Option {
	return []account.Option{
		service.WithLogger(log),
		service.WithMetrics(accountmetrics.New(reg)),
		service.WithAuditPublisher(in.audit),
		service.WithUniqueIdentities(cfg.UniqueIdentities),
		service.WithActivationTTL(cfg.ActivationTTL),
	}
}

// close releases resources in reverse acquisition order.
func (in *infra) close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
}
