package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/snack-storefront/internal/email"
	"github.com/example/snack-storefront/internal/order"
)

// Mailer sends the staff digest
type Mailer interface {
	SendHandoffDigest(to string, digest email.Digest) error
}

// Handler processes events for sending notifications
type Handler struct {
	mailer   Mailer
	shopName string
	notifyTo string
}

// NewHandler creates a new notification handler that mails digests to notifyTo
func NewHandler(mailer Mailer, shopName, notifyTo string) *Handler {
	return &Handler{
		mailer:   mailer,
		shopName: shopName,
		notifyTo: notifyTo,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Envelope
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	// Only checkout handoffs carry a basket worth announcing
	if event.EventType == order.EventCheckoutHandedOff {
		return h.handleCheckoutHandedOff(event)
	}

	return nil
}

func (h *Handler) handleCheckoutHandedOff(event order.Envelope) error {
	var e order.CheckoutHandedOff
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal CheckoutHandedOff event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing CheckoutHandedOff event for order %s", e.OrderRef)

	items := make([]email.DigestItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.DigestItem{
			Name:        item.Name,
			WeightLabel: item.WeightLabel,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	digest := email.Digest{
		ShopName:   h.shopName,
		OrderRef:   e.OrderRef,
		Fulfilment: e.FulfilmentLabel,
		Currency:   e.Currency,
		Subtotal:   e.Subtotal,
		Items:      items,
	}
	if err := h.mailer.SendHandoffDigest(h.notifyTo, digest); err != nil {
		log.Printf("[Notifier] Failed to send digest to %s: %v", h.notifyTo, err)
		return err
	}

	log.Printf("[Notifier] Digest sent to %s for order %s", h.notifyTo, e.OrderRef)
	return nil
}
