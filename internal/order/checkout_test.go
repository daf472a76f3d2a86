package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/domain/fulfilment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	Key   string
	Event Envelope
}

type mockPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, published{Key: key, Event: event.(Envelope)})
	return nil
}

var checkoutTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, pub Publisher) *Service {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	svc := NewService(NewComposer("", ""), NewHandoff("", "94771234567"), cat, pub)
	svc.now = func() time.Time { return checkoutTime }
	svc.newRef = func() string { return "ref-1" }
	return svc
}

// ============================================
// Checkout Tests
// ============================================

func TestCheckout_Success(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, pub)
	mode := mustMode(t, fulfilment.PreorderCOD)

	res, err := svc.Checkout(context.Background(), CheckoutInput{
		SessionID: "sess-1",
		Items:     testItems(),
		Mode:      mode,
		Customer:  testCustomer(),
	})

	require.NoError(t, err)
	assert.Equal(t, "ref-1", res.OrderRef)
	assert.Equal(t, NewComposer("", "").Compose(testItems(), mode, testCustomer()), res.Message)

	parsed, err := url.Parse(res.URL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", parsed.Host)
	assert.Equal(t, "/94771234567", parsed.Path)
	assert.Equal(t, res.Message, parsed.Query().Get("text"))
	assert.NotContains(t, res.URL, "+")
}

func TestCheckout_PublishesEventWithoutCustomerDetails(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, pub)

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		SessionID: "sess-1",
		Items:     testItems(),
		Mode:      mustMode(t, fulfilment.PreorderCOD),
		Customer:  testCustomer(),
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	env := pub.events[0].Event
	assert.Equal(t, "ref-1", pub.events[0].Key)
	assert.Equal(t, EventCheckoutHandedOff, env.EventType)
	assert.Equal(t, AggregateType, env.AggregateType)
	assert.Equal(t, "ref-1", env.AggregateID)

	var e CheckoutHandedOff
	require.NoError(t, json.Unmarshal(env.Data, &e))
	assert.Equal(t, "sess-1", e.SessionID)
	assert.Equal(t, 3640, e.Subtotal)
	assert.Equal(t, "LKR", e.Currency)
	assert.Equal(t, fulfilment.PreorderCOD, e.FulfilmentID)
	assert.Equal(t, checkoutTime, e.HandedOffAt)
	require.Len(t, e.Items, 2)
	assert.Equal(t, HandedOffItem{ProductID: "masala-gram-250", Name: "Masala Gram", WeightLabel: "250g", Quantity: 3, Price: 650}, e.Items[0])

	for _, secret := range []string{"Nimal", "0771234567", "Colombo 05"} {
		assert.NotContains(t, string(env.Data), secret)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, pub)

	res, err := svc.Checkout(context.Background(), CheckoutInput{Customer: testCustomer(), Mode: fulfilment.Default()})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, res)
	assert.Empty(t, pub.events)
}

func TestCheckout_MissingCustomerFields(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, pub)

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		Items:    testItems(),
		Mode:     fulfilment.Default(),
		Customer: CustomerInfo{Name: "Nimal"},
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"phone", "location"}, verr.Missing)
	assert.Empty(t, pub.events)
}

func TestCheckout_RecipientNotConfigured(t *testing.T) {
	svc := newTestService(t, nil)
	svc.handoff = NewHandoff("", "")

	_, err := svc.Checkout(context.Background(), CheckoutInput{
		Items:    testItems(),
		Mode:     fulfilment.Default(),
		Customer: testCustomer(),
	})

	assert.ErrorIs(t, err, ErrRecipientNotConfigured)
}

func TestCheckout_PublishFailureDoesNotBlockHandoff(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub)

	res, err := svc.Checkout(context.Background(), CheckoutInput{
		Items:    testItems(),
		Mode:     fulfilment.Default(),
		Customer: testCustomer(),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, res.URL)
}

func TestCheckout_NilPublisher(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Checkout(context.Background(), CheckoutInput{
		Items:    testItems(),
		Mode:     fulfilment.Default(),
		Customer: testCustomer(),
	})

	require.NoError(t, err)
	assert.Equal(t, "ref-1", res.OrderRef)
}

// ============================================
// Quick Order Service Tests
// ============================================

func TestServiceQuickOrder(t *testing.T) {
	pub := &mockPublisher{}
	svc := newTestService(t, pub)

	res, err := svc.QuickOrder(context.Background(), QuickOrderInput{
		SessionID:    "sess-1",
		CustomerName: "Kamala",
		ProductIDs:   []string{"spiced-cashews", "bombay-mix"},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Message, "Hi Roshan Grams! Quick Order from Kamala:"))
	assert.Contains(t, res.URL, "https://wa.me/94771234567?text=Hi%20Roshan%20Grams")

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventQuickOrderSent, pub.events[0].Event.EventType)
	var e QuickOrderSent
	require.NoError(t, json.Unmarshal(pub.events[0].Event.Data, &e))
	assert.Equal(t, []string{"spiced-cashews", "bombay-mix"}, e.ProductIDs)
}

func TestServiceQuickOrder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      QuickOrderInput
		wantErr error
	}{
		{"no products", QuickOrderInput{CustomerName: "Kamala"}, ErrNoProducts},
		{"no name", QuickOrderInput{CustomerName: "  ", ProductIDs: []string{"bombay-mix"}}, ErrMissingCustomer},
		{"unknown product", QuickOrderInput{CustomerName: "Kamala", ProductIDs: []string{"bombay-mix", "nope"}}, ErrUnknownProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &mockPublisher{}
			svc := newTestService(t, pub)

			_, err := svc.QuickOrder(context.Background(), tt.in)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, pub.events)
		})
	}
}
