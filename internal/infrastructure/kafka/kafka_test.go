package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

// fakeReader serves queued messages, then cancels the consumer's context
type fakeReader struct {
	queue  []kafka.Message
	errs   []error
	cancel context.CancelFunc
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return kafka.Message{}, err
	}
	if len(f.queue) == 0 {
		f.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) Close() error { return nil }

// ============================================
// Producer Tests
// ============================================

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.Publish(context.Background(), "order-1", map[string]string{"event_type": "CheckoutHandedOff"})

	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("order-1"), w.messages[0].Key)
	assert.JSONEq(t, `{"event_type":"CheckoutHandedOff"}`, string(w.messages[0].Value))
	assert.False(t, w.messages[0].Time.IsZero())
}

func TestProducer_Publish_MarshalError(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.Publish(context.Background(), "k", make(chan int))

	var jsonErr *json.UnsupportedTypeError
	assert.ErrorAs(t, err, &jsonErr)
	assert.Empty(t, w.messages)
}

func TestProducer_Publish_WriteError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), "k", "v")

	assert.EqualError(t, err, "broker down")
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, (&Producer{writer: w}).Close())
	assert.True(t, w.closed)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, ParseBrokers(""))
}

// ============================================
// Consumer Tests
// ============================================

func TestConsumer_Consume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &fakeReader{
		queue: []kafka.Message{
			{Key: []byte("1"), Value: []byte("a")},
			{Key: []byte("2"), Value: []byte("b")},
			{Key: []byte("3"), Value: []byte("c")},
		},
		errs:   []error{errors.New("transient")},
		cancel: cancel,
	}
	c := &Consumer{reader: r}

	var seen []string
	err := c.Consume(ctx, func(ctx context.Context, key, value []byte) error {
		seen = append(seen, string(key)+"="+string(value))
		if string(key) == "2" {
			return errors.New("handler failed")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"1=a", "2=b", "3=c"}, seen)
}

func TestConsumer_Consume_CancelledUpFront(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Consumer{reader: &fakeReader{cancel: cancel}}
	called := false

	err := c.Consume(ctx, func(context.Context, []byte, []byte) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
