// Package nats publishes notifications to a NATS subject.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/core/domain"
)

const defaultSubject = "postboard.notifications"

// Config captures the settings for the NATS connection.
type Config struct {
	URL     string
	Subject string
	Name    string
}

// Connect dials NATS with reconnects enabled. Disconnects are logged, not fatal.
func Connect(cfg Config, log zerolog.Logger) (*nats.Conn, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url,
		nats.Name(cfg.Name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// Publisher is a notification sink on top of a NATS connection.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	if subject == "" {
		subject = defaultSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

func (p *Publisher) Name() string { return "nats" }

// Broadcast publishes n as JSON. Core NATS gives no delivery acknowledgement.
func (p *Publisher) Broadcast(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn == nil || p.conn.IsClosed() {
		return nats.ErrConnectionClosed
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", p.subject, err)
	}
	return nil
}

// Ping reports whether the connection is usable; used by the readiness probe.
func Ping(ctx context.Context, conn *nats.Conn) error {
	if conn == nil || !conn.IsConnected() {
		return nats.ErrConnectionClosed
	}
	return conn.FlushWithContext(ctx)
}
