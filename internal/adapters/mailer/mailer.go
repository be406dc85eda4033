package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	User     string // also the sender address
	Password string

	// XOAUTH2 is used instead of Password when ClientID is set.
	ClientID     string
	ClientSecret string
	RefreshToken string

	RPS     float64
	Timeout time.Duration
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer is the notification dispatcher. It sends one plain-text email per
// decision and implements domain.Notifier.
type Mailer struct {
	send    sender
	from    string
	lim     *rate.Limiter
	timeout time.Duration
}

func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.User == "" {
		return nil, errors.New("mailer: SMTP_HOST and USER_EMAIL are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.ClientID != "" {
		d.Auth = &xoauth2{user: cfg.User, ts: googleTokenSource(cfg.ClientID, cfg.ClientSecret, cfg.RefreshToken)}
	}
	return newMailer(d, cfg), nil
}

func newMailer(s sender, cfg Config) *Mailer {
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Mailer{
		send:    s,
		from:    `"LokVista Team" <` + cfg.User + `>`,
		lim:     rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		timeout: cfg.Timeout,
	}
}

func (m *Mailer) NotifyContributor(ctx context.Context, n domain.Notification) error {
	return m.deliver(ctx, n.To, PlaceEmail(n.EntityName, n.Approved, n.Reason))
}

func (m *Mailer) NotifyHotelOwner(ctx context.Context, n domain.Notification) error {
	return m.deliver(ctx, n.To, HotelEmail(n.EntityName, n.Approved, n.Reason))
}

func (m *Mailer) deliver(ctx context.Context, to string, e Email) (err error) {
	start := time.Now()
	defer func() {
		observability.ObserveNotification("smtp", e.Template, err)
		observability.ObserveExternal("smtp", e.Template, statusOf(err), time.Since(start))
	}()

	if to == "" {
		return fmt.Errorf("%w: recipient is empty", domain.ErrInvalidInput)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.lim.Wait(ctx); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.Body)

	done := make(chan error, 1)
	go func() { done <- m.send.DialAndSend(msg) }()

	select {
	case <-ctx.Done():
		log.Warn().Str("to", to).Str("template", e.Template).Err(ctx.Err()).Msg("email send abandoned")
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send %s email: %w", e.Template, err)
		}
		log.Info().Str("to", to).Str("template", e.Template).Msg("email sent")
		return nil
	}
}

func statusOf(err error) int {
	if err != nil {
		return 0
	}
	return 250
}
