package cart

import (
	"time"

	"github.com/example/snack-storefront/internal/domain/fulfilment"
)

const (
	EventItemAdded             = "ItemAddedToCart"
	EventQuantityUpdated       = "CartItemQuantityUpdated"
	EventItemRemoved           = "ItemRemovedFromCart"
	EventCartCleared           = "CartCleared"
	EventFulfilmentModeChanged = "FulfilmentModeChanged"
)

// Event tells listeners what a mutation did. Item is zero for cart-wide events.
type Event struct {
	Type           string        `json:"type"`
	CartKey        string        `json:"cart_key"`
	Item           LineItem      `json:"item"`
	Merged         bool          `json:"merged,omitempty"`
	FulfilmentMode fulfilment.ID `json:"fulfilment_mode,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// Listener is called synchronously after the store has released its lock
type Listener func(Event)
