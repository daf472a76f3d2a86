package order

import (
	"encoding/json"
	"time"

	"github.com/example/snack-storefront/internal/domain/fulfilment"
)

const (
	EventCheckoutHandedOff = "CheckoutHandedOff"
	EventQuickOrderSent    = "QuickOrderSent"

	AggregateType = "order"
)

// Envelope is the wire format of every event published to the message bus
type Envelope struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
}

type HandedOffItem struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	WeightLabel string `json:"weight_label"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
}

// CheckoutHandedOff records that an order message left for the chat app.
// It carries no customer details.
type CheckoutHandedOff struct {
	OrderRef        string          `json:"order_ref"`
	SessionID       string          `json:"session_id"`
	Items           []HandedOffItem `json:"items"`
	Subtotal        int             `json:"subtotal"`
	Currency        string          `json:"currency"`
	FulfilmentID    fulfilment.ID   `json:"fulfilment_id"`
	FulfilmentLabel string          `json:"fulfilment_label"`
	HandedOffAt     time.Time       `json:"handed_off_at"`
}

type QuickOrderSent struct {
	OrderRef   string    `json:"order_ref"`
	SessionID  string    `json:"session_id"`
	ProductIDs []string  `json:"product_ids"`
	SentAt     time.Time `json:"sent_at"`
}
