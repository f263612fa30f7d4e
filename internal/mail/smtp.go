package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// ErrNotConfigured is returned by DisabledTransport
var ErrNotConfigured = errors.New("mail transport is not configured")

// DisabledTransport stands in when no SMTP host or receiver is set
type DisabledTransport struct{}

func (DisabledTransport) Verify(context.Context) error { return ErrNotConfigured }

func (DisabledTransport) Send(context.Context, *Message) error { return ErrNotConfigured }

// SMTPConfig holds the SMTP connection settings
type SMTPConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Timeout time.Duration
}

// SMTPTransport sends mail over SMTP. Port 465 uses implicit TLS,
// any other port negotiates STARTTLS when offered.
type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates an SMTP transport from cfg
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) client() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(t.cfg.Port),
		gomail.WithTimeout(t.cfg.Timeout),
	}
	if t.cfg.Port == 465 {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if t.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(t.cfg.User),
			gomail.WithPassword(t.cfg.Pass),
		)
	}

	c, err := gomail.NewClient(t.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return c, nil
}

// Verify dials and authenticates, then hangs up
func (t *SMTPTransport) Verify(ctx context.Context) error {
	c, err := t.client()
	if err != nil {
		return err
	}
	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s:%d: %w", t.cfg.Host, t.cfg.Port, err)
	}
	return c.Close()
}

func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return err
	}

	c, err := t.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, m)
}

func buildMsg(msg *Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()

	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("invalid sender: %w", err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid receiver: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	for _, img := range msg.Inline {
		err := m.EmbedReader(img.Filename, bytes.NewReader(img.Data),
			gomail.WithFileContentID(img.CID),
			gomail.WithFileContentType(gomail.ContentType(img.ContentType)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", img.Filename, err)
		}
	}
	return m, nil
}
