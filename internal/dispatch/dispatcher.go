package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/vse-rental/storefront/internal/clients"
	"github.com/vse-rental/storefront/internal/models"
)

// Step names the stage of the pipeline that failed
type Step string

const (
	StepIngestion Step = "ingestion"
	StepMail      Step = "mail"
)

// Ingestor appends submission rows to the spreadsheet sink
type Ingestor interface {
	Ingest(ctx context.Context, records []models.IngestionRecord) error
}

// Notifier delivers the email notice for a submission
type Notifier interface {
	Notify(ctx context.Context, payload models.EmailPayload) error
}

// TransportError reports which step of a dispatch failed. StatusCode is the
// upstream HTTP status when one was received and zero otherwise.
type TransportError struct {
	Step       Step
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s step failed: %s", e.Step, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Dispatcher sends a submission to the sink and then to the notifier.
// Steps run in order, at most once each, with no retry and no rollback.
type Dispatcher struct {
	ingestor   Ingestor
	notifier   Notifier
	logger     *slog.Logger
	onComplete func(models.Submission)
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithCompletion registers fn to run after both steps succeed
func WithCompletion(fn func(models.Submission)) Option {
	return func(d *Dispatcher) {
		d.onComplete = fn
	}
}

// NewDispatcher creates a dispatcher that ingests before notifying
func NewDispatcher(ingestor Ingestor, notifier Notifier, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ingestor: ingestor,
		notifier: notifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs ingestion and then mail. A failed ingestion skips mail;
// a failed mail leaves the ingested row in place.
func (d *Dispatcher) Dispatch(ctx context.Context, sub models.Submission) error {
	log := d.logger.With(
		slog.String("order_id", sub.OrderID),
		slog.String("kind", string(sub.Kind)),
	)

	if err := d.ingestor.Ingest(ctx, []models.IngestionRecord{sub.IngestionRecord()}); err != nil {
		log.Error("Ingestion failed", slog.String("error", err.Error()))
		return newTransportError(StepIngestion, errors.Wrap(err, "ingest submission"))
	}
	log.Debug("Submission ingested")

	if err := d.notifier.Notify(ctx, sub.EmailPayload()); err != nil {
		log.Error("Notification failed after ingestion", slog.String("error", err.Error()))
		return newTransportError(StepMail, errors.Wrap(err, "notify"))
	}

	log.Info("Submission dispatched")

	if d.onComplete != nil {
		d.onComplete(sub)
	}
	return nil
}

func newTransportError(step Step, err error) *TransportError {
	te := &TransportError{Step: step, Message: err.Error(), Err: err}

	var statusErr *clients.StatusError
	if errors.As(err, &statusErr) {
		te.StatusCode = statusErr.StatusCode
		te.Message = statusErr.Message
		if te.Message == "" {
			te.Message = statusErr.Error()
		}
	}
	return te
}
