package models

import "time"

// SubmissionKind discriminates a general inquiry from an order
type SubmissionKind string

const (
	KindContact SubmissionKind = "contact"
	KindOrder   SubmissionKind = "order"
)

// Contact holds the shopper's callback details
type Contact struct {
	Name        string `json:"name" validate:"required,min=2"`
	Phone       string `json:"phone" validate:"required,min=5"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// OrderSummary is the consolidated view of a non-empty cart
type OrderSummary struct {
	ProductNames string // "2 x Speaker, Projector"
	Prices       string // "200.00, 50.00"
	Image        string // image of the first cart item
	Time         string // human readable creation time
}

// Submission is one write-once attempt to reach the shop owner.
// Order is nil exactly when Kind is KindContact.
type Submission struct {
	Kind      SubmissionKind
	OrderID   string
	Contact   Contact
	CreatedAt time.Time
	Order     *OrderSummary
}

// IngestionRecord is the row shape accepted by the spreadsheet endpoint
type IngestionRecord struct {
	OrderID      string `json:"order_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	ProductNames string `json:"product_names,omitempty"`
	Prices       string `json:"prices,omitempty"`
	Image        string `json:"image,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// EmailPayload is the body of POST /api/send-email.
// Kind is optional on input; older callers signal contact mode by
// leaving every product field empty.
type EmailPayload struct {
	Kind        SubmissionKind `json:"kind,omitempty"`
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	ProductName string         `json:"productName,omitempty"`
	Price       string         `json:"price,omitempty"`
	Time        string         `json:"time,omitempty"`
	Image       string         `json:"image,omitempty"`
	Description string         `json:"description,omitempty"`
}

// ResolvedKind returns Kind, inferring it from the product fields when unset
func (p EmailPayload) ResolvedKind() SubmissionKind {
	switch p.Kind {
	case KindContact, KindOrder:
		return p.Kind
	}
	if p.ProductName != "" || p.Price != "" || p.Time != "" || p.Image != "" {
		return KindOrder
	}
	return KindContact
}

// IngestionRecord derives the spreadsheet row for s
func (s Submission) IngestionRecord() IngestionRecord {
	rec := IngestionRecord{
		OrderID:   s.OrderID,
		Name:      s.Contact.Name,
		Phone:     s.Contact.Phone,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.Kind == KindOrder && s.Order != nil {
		rec.ProductNames = s.Order.ProductNames
		rec.Prices = s.Order.Prices
		rec.Image = s.Order.Image
	}
	return rec
}

// EmailPayload derives the notification payload for s
func (s Submission) EmailPayload() EmailPayload {
	p := EmailPayload{
		Kind:        s.Kind,
		Name:        s.Contact.Name,
		Phone:       s.Contact.Phone,
		Description: s.Contact.Description,
	}
	if s.Kind == KindOrder && s.Order != nil {
		p.ProductName = s.Order.ProductNames
		p.Price = s.Order.Prices
		p.Time = s.Order.Time
		p.Image = s.Order.Image
	}
	return p
}

// CheckoutResponse is returned by POST /api/checkout
type CheckoutResponse struct {
	Message string         `json:"message"`
	OrderID string         `json:"orderId"`
	Kind    SubmissionKind `json:"kind"`
}

// ErrorResponse is the JSON error body used by every endpoint
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse is a bare success body
type MessageResponse struct {
	Message string `json:"message"`
}
