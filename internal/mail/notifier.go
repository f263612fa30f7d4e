package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vse-rental/storefront/internal/models"
)

// ErrMissingFields is returned when name or phone is empty
var ErrMissingFields = errors.New("missing required fields")

// Transport delivers composed messages
type Transport interface {
	// Verify checks that the mail server is reachable and accepts the credentials
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg *Message) error
}

// Notifier turns email payloads into messages and hands them to a Transport
type Notifier struct {
	transport Transport
	fetcher   ImageFetcher
	fromName  string
	from      string
	to        string
	logger    *slog.Logger
}

// NewNotifier creates a notifier that mails from and to the given addresses
func NewNotifier(transport Transport, fetcher ImageFetcher, fromName, from, to string, logger *slog.Logger) *Notifier {
	return &Notifier{
		transport: transport,
		fetcher:   fetcher,
		fromName:  fromName,
		from:      from,
		to:        to,
		logger:    logger,
	}
}

// Send composes and delivers the notice for payload. Verify runs before
// every send and neither step is retried.
func (n *Notifier) Send(ctx context.Context, payload models.EmailPayload) error {
	msg, err := n.Compose(ctx, payload)
	if err != nil {
		return err
	}

	if err := n.transport.Verify(ctx); err != nil {
		return fmt.Errorf("failed to verify mail transport: %w", err)
	}
	n.logger.Debug("Mail transport verified")

	if err := n.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("Email sent",
		slog.String("kind", string(payload.ResolvedKind())),
		slog.String("subject", msg.Subject),
		slog.Int("inline_images", len(msg.Inline)),
	)
	return nil
}

// Notify lets the dispatcher deliver mail in-process
func (n *Notifier) Notify(ctx context.Context, payload models.EmailPayload) error {
	return n.Send(ctx, payload)
}

// Compose builds the message for payload without sending it
func (n *Notifier) Compose(ctx context.Context, payload models.EmailPayload) (*Message, error) {
	if payload.Name == "" || payload.Phone == "" {
		return nil, ErrMissingFields
	}

	kind := payload.ResolvedKind()
	v := newView(payload)

	msg := &Message{
		FromName: n.fromName,
		From:     n.from,
		To:       n.to,
	}

	if kind == models.KindOrder && payload.Image != "" && n.fetcher != nil {
		img, err := n.fetcher.Fetch(ctx, payload.Image)
		if err != nil {
			// link fallback
			n.logger.Warn("Failed to embed product image",
				slog.String("image", payload.Image),
				slog.String("error", err.Error()),
			)
		} else {
			img.CID = "product-" + uuid.NewString()
			msg.Inline = append(msg.Inline, img)
			v.ImageSrc = cidURL(img.CID)
		}
	}

	out, err := render(kind, v)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", kind, err)
	}
	msg.Subject = out.subject
	msg.Text = out.text
	msg.HTML = out.html
	return msg, nil
}
