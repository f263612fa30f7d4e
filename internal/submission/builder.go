package submission

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vse-rental/storefront/internal/models"
)

// DisplayTimeLayout is how order times appear in the notification email
const DisplayTimeLayout = "02.01.2006, 15:04:05"

// Builder turns a cart and contact details into a Submission
type Builder struct {
	ids      OrderIDGenerator
	now      func() time.Time
	location *time.Location
}

// Option configures a Builder
type Option func(*Builder)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLocation sets the zone used for the human readable order time
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) { b.location = loc }
}

// NewBuilder creates a builder using ids for order identifiers
func NewBuilder(ids OrderIDGenerator, opts ...Option) *Builder {
	b := &Builder{
		ids:      ids,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build decides the submission kind once: an empty cart is a contact
// inquiry, anything else is an order summarizing the cart
func (b *Builder) Build(cart *models.Cart, contact models.Contact) models.Submission {
	now := b.now()

	s := models.Submission{
		Kind:      models.KindContact,
		OrderID:   b.ids.NewOrderID(now),
		Contact:   contact,
		CreatedAt: now.UTC(),
	}

	if cart == nil || cart.IsEmpty() {
		return s
	}

	summary := Summarize(cart.Items)
	summary.Time = now.In(b.location).Format(DisplayTimeLayout)

	s.Kind = models.KindOrder
	s.Order = &summary
	return s
}

type group struct {
	name     string
	quantity int
	total    decimal.Decimal
}

// Summarize groups items by display name, in first-seen order. Items with
// different ids but the same name collapse into one line.
func Summarize(items []models.CartItem) models.OrderSummary {
	groups := make([]*group, 0, len(items))
	byName := make(map[string]*group, len(items))

	for _, item := range items {
		g, ok := byName[item.Name]
		if !ok {
			g = &group{name: item.Name, total: decimal.Zero}
			byName[item.Name] = g
			groups = append(groups, g)
		}
		g.quantity += item.Quantity
		g.total = g.total.Add(item.Subtotal())
	}

	names := make([]string, 0, len(groups))
	prices := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.quantity > 1 {
			names = append(names, strconv.Itoa(g.quantity)+" x "+g.name)
		} else {
			names = append(names, g.name)
		}
		prices = append(prices, g.total.StringFixed(2))
	}

	summary := models.OrderSummary{
		ProductNames: strings.Join(names, ", "),
		Prices:       strings.Join(prices, ", "),
	}
	if len(items) > 0 {
		summary.Image = items[0].Image
	}
	return summary
}
