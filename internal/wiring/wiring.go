package wiring

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lokvista_admin/internal/adapters/gemini"
	"lokvista_admin/internal/adapters/mailer"
	"lokvista_admin/internal/adapters/notifyhttp"
	redisad "lokvista_admin/internal/adapters/redis"
	"lokvista_admin/internal/domain"
	"lokvista_admin/internal/shared"
	mongostore "lokvista_admin/internal/storage/mongo"
	mysqlrepo "lokvista_admin/internal/storage/mysql"
)

// Deps are the collaborators shared by the binaries. Optional ones are nil
// when not configured.
type Deps struct {
	Store     *mongostore.Store
	Audit     domain.DecisionLog
	Cache     domain.Cache
	Mailer    domain.Notifier // in-process dispatcher
	Notifier  domain.Notifier // what workflows call; Mailer or the HTTP client
	Describer domain.DescriptionGenerator
	closers   []func(context.Context) error
}

// Open connects the document store (required) and every optional
// collaborator the config names.
func Open(ctx context.Context, cfg shared.Config) (*Deps, error) {
	d := &Deps{}

	cli, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}
	d.closers = append(d.closers, func(ctx context.Context) error { return cli.Disconnect(ctx) })
	d.Store = mongostore.New(cli, cli.Database(cfg.MongoDB), cfg.MongoTransactions)
	if err := d.Store.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure indexes failed")
	}
	log.Info().Str("db", cfg.MongoDB).Bool("transactions", cfg.MongoTransactions).Msg("document store ok")

	if cfg.MySQLDSN != "" {
		db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Warn().Err(err).Msg("mysql unavailable; decision log disabled")
		} else {
			d.Audit = mysqlrepo.New(db)
			d.closers = append(d.closers, func(context.Context) error { return db.Close() })
			log.Info().Msg("decision log ok")
		}
	} else {
		log.Warn().Msg("MYSQL_DSN is empty; decision log disabled")
	}

	if cfg.RedisAddr != "" {
		c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; caching disabled")
			_ = c.Close()
		} else {
			d.Cache = c
			d.closers = append(d.closers, func(context.Context) error { return c.Close() })
		}
	}

	if cfg.UserEmail != "" {
		m, err := mailer.New(mailer.Config{
			Host:         cfg.SMTPHost,
			Port:         cfg.SMTPPort,
			User:         cfg.UserEmail,
			Password:     cfg.SMTPPassword,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RefreshToken: cfg.RefreshToken,
			RPS:          cfg.MailRPS,
		})
		if err != nil {
			log.Warn().Err(err).Msg("mailer disabled")
		} else {
			d.Mailer = m
		}
	}

	switch cfg.NotifyMode {
	case "http":
		c, err := notifyhttp.New(cfg.NotifyBaseURL, cfg.NotifyToken, int(cfg.MailRPS)+1)
		if err != nil {
			log.Warn().Err(err).Msg("remote dispatcher disabled")
		} else {
			d.Notifier = c
		}
	default:
		d.Notifier = d.Mailer
	}

	if cfg.GeminiAPIKey != "" {
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("description generator disabled")
		} else {
			d.Describer = g
		}
	}
	return d, nil
}

// Close releases connections in reverse order of opening.
func (d *Deps) Close(ctx context.Context) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

var (
	_ domain.PlaceRepository = (*mongostore.Store)(nil)
	_ domain.HotelRepository = (*mongostore.Store)(nil)
	_ domain.DecisionLog     = (*mysqlrepo.Repo)(nil)
)
