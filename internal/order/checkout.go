package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/domain/cart"
	"github.com/example/snack-storefront/internal/domain/fulfilment"
	"github.com/google/uuid"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoProducts      = errors.New("no products selected")
	ErrUnknownProduct  = errors.New("unknown product")
	ErrMissingCustomer = errors.New("customer name is required")
)

// Publisher sends events to the message bus
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type CheckoutInput struct {
	SessionID string
	Items     []cart.LineItem
	Mode      fulfilment.Mode
	Customer  CustomerInfo
}

// Result is what the customer needs to complete the order in the chat app
type Result struct {
	OrderRef string `json:"order_ref"`
	Message  string `json:"message"`
	URL      string `json:"url"`
}

type QuickOrderInput struct {
	SessionID    string
	CustomerName string
	ProductIDs   []string
}

type Service struct {
	composer  Composer
	handoff   Handoff
	catalog   *catalog.Catalog
	publisher Publisher
	now       func() time.Time
	newRef    func() string
}

// NewService wires the checkout flow. publisher may be nil.
func NewService(composer Composer, handoff Handoff, cat *catalog.Catalog, publisher Publisher) *Service {
	return &Service{
		composer:  composer,
		handoff:   handoff,
		catalog:   cat,
		publisher: publisher,
		now:       time.Now,
		newRef:    func() string { return uuid.New().String() },
	}
}

// Checkout gates, composes and links an order. The cart is left untouched.
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*Result, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := in.Customer.Validate(); err != nil {
		return nil, err
	}

	message := s.composer.Compose(in.Items, in.Mode, in.Customer)
	link, err := s.handoff.URL(message)
	if err != nil {
		return nil, err
	}

	ref := s.newRef()
	items := make([]HandedOffItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = HandedOffItem{
			ProductID:   item.ProductID,
			Name:        item.Name,
			WeightLabel: item.WeightOption.Label,
			Quantity:    item.Quantity,
			Price:       item.WeightOption.Price,
		}
	}
	s.publish(ctx, ref, EventCheckoutHandedOff, CheckoutHandedOff{
		OrderRef:        ref,
		SessionID:       in.SessionID,
		Items:           items,
		Subtotal:        cart.Subtotal(in.Items),
		Currency:        s.composer.Currency,
		FulfilmentID:    in.Mode.ID,
		FulfilmentLabel: in.Mode.Label,
		HandedOffAt:     s.now().UTC(),
	})

	log.Printf("[Checkout] Order %s handed off (%d lines, subtotal %d)", ref, len(in.Items), cart.Subtotal(in.Items))
	return &Result{OrderRef: ref, Message: message, URL: link}, nil
}

// QuickOrder links a short order built straight from catalog products, bypassing the cart
func (s *Service) QuickOrder(ctx context.Context, in QuickOrderInput) (*Result, error) {
	if len(in.ProductIDs) == 0 {
		return nil, ErrNoProducts
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, ErrMissingCustomer
	}

	products := make([]catalog.Product, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		p, ok := s.catalog.Product(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
		}
		products = append(products, p)
	}

	message := s.composer.QuickOrder(in.CustomerName, products)
	link, err := s.handoff.URL(message)
	if err != nil {
		return nil, err
	}

	ref := s.newRef()
	s.publish(ctx, ref, EventQuickOrderSent, QuickOrderSent{
		OrderRef:   ref,
		SessionID:  in.SessionID,
		ProductIDs: append([]string(nil), in.ProductIDs...),
		SentAt:     s.now().UTC(),
	})

	log.Printf("[Checkout] Quick order %s handed off (%d products)", ref, len(products))
	return &Result{OrderRef: ref, Message: message, URL: link}, nil
}

// publish failures are logged; the customer still gets their link
func (s *Service) publish(ctx context.Context, ref, eventType string, payload any) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Checkout] Failed to marshal %s: %v", eventType, err)
		return
	}
	env := Envelope{
		ID:            uuid.New().String(),
		AggregateID:   ref,
		AggregateType: AggregateType,
		EventType:     eventType,
		Data:          data,
		Timestamp:     s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ref, env); err != nil {
		log.Printf("[Checkout] Failed to publish %s for %s: %v", eventType, ref, err)
	}
}
