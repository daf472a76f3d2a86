package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/example/snack-storefront/internal/email"
	"github.com/example/snack-storefront/internal/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentDigest struct {
	To     string
	Digest email.Digest
}

type mockMailer struct {
	sent []sentDigest
	err  error
}

func (m *mockMailer) SendHandoffDigest(to string, digest email.Digest) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentDigest{To: to, Digest: digest})
	return nil
}

func envelope(t *testing.T, eventType string, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	value, err := json.Marshal(order.Envelope{
		ID:            "evt-1",
		AggregateID:   "ref-1",
		AggregateType: order.AggregateType,
		EventType:     eventType,
		Data:          data,
		Timestamp:     time.Now(),
	})
	require.NoError(t, err)
	return value
}

func handedOff() order.CheckoutHandedOff {
	return order.CheckoutHandedOff{
		OrderRef:  "ref-1",
		SessionID: "sess-1",
		Items: []order.HandedOffItem{
			{ProductID: "masala-gram-250", Name: "Masala Gram", WeightLabel: "250g", Quantity: 3, Price: 650},
		},
		Subtotal:        1950,
		Currency:        "LKR",
		FulfilmentID:    "preorder_cod",
		FulfilmentLabel: "Pre-Order (COD)",
		HandedOffAt:     time.Now(),
	}
}

func TestHandleEvent_CheckoutHandedOff(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, "Roshan Grams", "staff@example.com")

	err := h.HandleEvent(context.Background(), []byte("ref-1"), envelope(t, order.EventCheckoutHandedOff, handedOff()))

	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "staff@example.com", mailer.sent[0].To)
	assert.Equal(t, email.Digest{
		ShopName:   "Roshan Grams",
		OrderRef:   "ref-1",
		Fulfilment: "Pre-Order (COD)",
		Currency:   "LKR",
		Subtotal:   1950,
		Items:      []email.DigestItem{{Name: "Masala Gram", WeightLabel: "250g", Quantity: 3, Price: 650}},
	}, mailer.sent[0].Digest)
}

func TestHandleEvent_IgnoresOtherEvents(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, "Roshan Grams", "staff@example.com")

	err := h.HandleEvent(context.Background(), nil, envelope(t, order.EventQuickOrderSent, order.QuickOrderSent{OrderRef: "ref-2"}))

	assert.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_Malformed(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, "Roshan Grams", "staff@example.com")

	assert.Error(t, h.HandleEvent(context.Background(), nil, []byte("not json")))

	bad, err := json.Marshal(order.Envelope{EventType: order.EventCheckoutHandedOff, Data: json.RawMessage(`"oops"`)})
	require.NoError(t, err)
	assert.Error(t, h.HandleEvent(context.Background(), nil, bad))

	assert.Empty(t, mailer.sent)
}

func TestHandleEvent_MailerError(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}
	h := NewHandler(mailer, "Roshan Grams", "staff@example.com")

	err := h.HandleEvent(context.Background(), nil, envelope(t, order.EventCheckoutHandedOff, handedOff()))

	assert.EqualError(t, err, "smtp down")
}
