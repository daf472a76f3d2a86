package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/domain/fulfilment"
	"github.com/example/snack-storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

// DefaultNamespace prefixes every persisted cart key
const DefaultNamespace = "roshan-grams-cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrInvalidWeight   = errors.New("weight label is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
)

// LineItem is one product+weight entry. Name, weight and image are snapshots taken when the
// item was first added; later catalog changes do not affect them.
type LineItem struct {
	ID           string               `json:"id"`
	ProductID    string               `json:"productId"`
	Name         string               `json:"name"`
	WeightOption catalog.WeightOption `json:"weightOption"`
	Quantity     int                  `json:"quantity"`
	Image        string               `json:"image"`
}

// Total returns quantity × unit price
func (li LineItem) Total() int {
	return li.Quantity * li.WeightOption.Price
}

type AddItemInput struct {
	ProductID    string
	Name         string
	WeightOption catalog.WeightOption
	Quantity     int
	Image        string
}

func (in AddItemInput) validate() error {
	if in.ProductID == "" {
		return ErrInvalidProduct
	}
	if in.WeightOption.Label == "" {
		return ErrInvalidWeight
	}
	if in.WeightOption.Price < 0 {
		return ErrInvalidPrice
	}
	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// IDGenerator produces a line item id. Ids only need to be unique within one cart.
type IDGenerator func(productID, weightLabel string) string

// NewLineItemID derives an id from the product and weight plus a random suffix
func NewLineItemID(productID, weightLabel string) string {
	return productID + "-" + weightLabel + "-" + uuid.New().String()
}

// Key returns the slot key for a session's cart
func Key(namespace, sessionID string) string {
	return namespace + ":" + sessionID
}

// Subtotal sums quantity × price over items
func Subtotal(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Total()
	}
	return total
}

type Option func(*Store)

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns one cart: its line items and the selected fulfilment mode.
// Items are written to the slot after every mutation; the fulfilment mode lives only in memory.
type Store struct {
	mu        sync.Mutex
	slot      store.Slot
	key       string
	items     []LineItem
	mode      fulfilment.Mode
	newID     IDGenerator
	now       func() time.Time
	listeners []Listener
}

// NewStore creates a cart bound to key and rehydrates it from the slot.
// A missing or unreadable payload yields an empty cart.
func NewStore(ctx context.Context, slot store.Slot, key string, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		key:   key,
		mode:  fulfilment.Default(),
		newID: NewLineItemID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []LineItem {
	data, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		log.Printf("[Cart] Failed to read cart %s, starting empty: %v", s.key, err)
		return nil
	}
	if !ok {
		return nil
	}

	items, err := Decode(data)
	if err != nil {
		log.Printf("[Cart] Discarding unreadable cart %s: %v", s.key, err)
		return nil
	}
	return items
}

// persist must be called with s.mu held
func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.items, s.now())
	if err != nil {
		log.Printf("[Cart] Failed to encode cart %s: %v", s.key, err)
		return
	}
	if err := s.slot.Put(ctx, s.key, data); err != nil {
		log.Printf("[Cart] Failed to persist cart %s: %v", s.key, err)
	}
}

func (s *Store) emit(ev Event) {
	ev.CartKey = s.key
	ev.OccurredAt = s.now()
	for _, l := range s.listeners {
		l(ev)
	}
}

func (s *Store) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Key returns the slot key this cart is persisted under
func (s *Store) Key() string {
	return s.key
}

// AddItem adds quantity of a product weight. An existing line with the same product id and
// weight label has its quantity increased instead of a second line being created.
func (s *Store) AddItem(ctx context.Context, in AddItemInput) (LineItem, error) {
	if err := in.validate(); err != nil {
		return LineItem{}, err
	}

	s.mu.Lock()
	merged := false
	var item LineItem
	for i := range s.items {
		if s.items[i].ProductID == in.ProductID && s.items[i].WeightOption.Label == in.WeightOption.Label {
			s.items[i].Quantity += in.Quantity
			item = s.items[i]
			merged = true
			break
		}
	}
	if !merged {
		item = LineItem{
			ID:           s.newID(in.ProductID, in.WeightOption.Label),
			ProductID:    in.ProductID,
			Name:         in.Name,
			WeightOption: in.WeightOption,
			Quantity:     in.Quantity,
			Image:        in.Image,
		}
		s.items = append(s.items, item)
	}
	s.persist(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventItemAdded, Item: item, Merged: merged})
	return item, nil
}

// UpdateQuantity sets a line's quantity. quantity <= 0 removes the line.
// It reports whether the line existed; an unknown id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[i].Quantity = quantity
	item := s.items[i]
	s.persist(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventQuantityUpdated, Item: item})
	return true
}

// RemoveItem deletes a line and reports whether it existed
func (s *Store) RemoveItem(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	item := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	s.emit(Event{Type: EventItemRemoved, Item: item})
	return true
}

// Clear empties the cart and erases its persisted payload
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	if err := s.slot.Delete(ctx, s.key); err != nil {
		log.Printf("[Cart] Failed to erase cart %s: %v", s.key, err)
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventCartCleared})
}

// Items returns a copy of the lines in insertion order
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]LineItem, 0, len(s.items)), s.items...)
}

// Item looks up a line by id
func (s *Store) Item(id string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

func (s *Store) Subtotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

// ItemCount returns the total number of units across all lines
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// View is a consistent read of a cart's lines and fulfilment mode
type View struct {
	Items []LineItem
	Mode  fulfilment.Mode
}

// View returns the lines and selected mode under a single lock
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Items: append(make([]LineItem, 0, len(s.items)), s.items...),
		Mode:  s.mode,
	}
}

func (s *Store) FulfilmentMode() fulfilment.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetFulfilmentMode selects a mode by id. Unknown ids leave the current selection and return false.
func (s *Store) SetFulfilmentMode(id fulfilment.ID) bool {
	mode, ok := fulfilment.Lookup(id)
	if !ok {
		return false
	}

	s.mu.Lock()
	changed := s.mode.ID != mode.ID
	s.mode = mode
	s.mu.Unlock()

	if changed {
		s.emit(Event{Type: EventFulfilmentModeChanged, FulfilmentMode: mode.ID})
	}
	return true
}
