package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/submission"
)

// FieldError describes one rejected contact field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError is returned before any network call when the contact
// details are incomplete
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		switch f.Rule {
		case "required":
			parts = append(parts, f.Field+" is required")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", f.Field, f.Param))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", f.Field, f.Param))
		default:
			parts = append(parts, f.Field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// Dispatcher delivers a built submission
type Dispatcher interface {
	Dispatch(ctx context.Context, sub models.Submission) error
}

// CheckoutService turns the current cart plus contact details into a
// dispatched submission
type CheckoutService struct {
	carts      *CartService
	builder    *submission.Builder
	dispatcher Dispatcher
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(carts *CartService, builder *submission.Builder, dispatcher Dispatcher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		builder:    builder,
		dispatcher: dispatcher,
		validate:   NewValidator(),
		logger:     logger,
	}
}

// NewValidator returns a validator that reports json field names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Checkout validates contact, dispatches the submission for the cart and
// removes the submitted items on success. Items added while the dispatch
// runs stay in the cart. An empty cart produces a contact request.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string, contact models.Contact) (models.Submission, error) {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Description = strings.TrimSpace(contact.Description)

	if err := s.validateContact(contact); err != nil {
		return models.Submission{}, err
	}

	cart, err := s.carts.LoadCart(ctx, cartID)
	if err != nil {
		return models.Submission{}, err
	}

	sub := s.builder.Build(cart, contact)

	log := s.logger.With(
		slog.String("cart_id", cartID),
		slog.String("order_id", sub.OrderID),
		slog.String("kind", string(sub.Kind)),
	)
	log.Info("Dispatching submission", slog.Int("items", len(cart.Items)))

	if err := s.dispatcher.Dispatch(ctx, sub); err != nil {
		return models.Submission{}, err
	}

	if err := s.carts.ClearSubmitted(ctx, cartID, cart.Items); err != nil {
		// the submission already went out, so the shopper still sees success
		log.Error("Failed to clear cart after checkout", slog.String("error", err.Error()))
	}

	return sub, nil
}

func (s *CheckoutService) validateContact(contact models.Contact) error {
	err := s.validate.Struct(contact)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
