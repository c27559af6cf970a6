package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhanu79755/Shopbuy/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("order.placed", "ord-1", "order", "shopbuy", map[string]int64{"total": 1999})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, 1, ev.Version)
	assert.False(t, ev.Timestamp.IsZero())

	var data map[string]int64
	require.NoError(t, ev.UnmarshalData(&data))
	assert.Equal(t, int64(1999), data["total"])
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("x", "1", "y", "shopbuy", make(chan int))
	assert.Error(t, err)
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, logger.Discard())

	ev, err := NewEvent("product.image_updated", "7", "product", "shopbuy", map[string]string{"image": "x"})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-9").WithMetadata("session_id", "s1")

	before := testutil.ToFloat64(publishedTotal.WithLabelValues("shopbuy.product.image_updated", "ok"))
	require.NoError(t, p.Publish(context.Background(), "shopbuy.product.image_updated", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "shopbuy.product.image_updated", msg.Topic)
	assert.Equal(t, "7", string(msg.Key))
	assert.Equal(t, "product.image_updated", header(msg, "event_type"))
	assert.Equal(t, "corr-9", header(msg, "correlation_id"))
	assert.Equal(t, "s1", header(msg, "session_id"))
	assert.Equal(t, ev.Timestamp, msg.Time)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev.EventID, decoded.EventID)
	assert.Equal(t, "s1", decoded.Metadata["session_id"])

	after := testutil.ToFloat64(publishedTotal.WithLabelValues("shopbuy.product.image_updated", "ok"))
	assert.Equal(t, before+1, after)
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := newProducer(w, nil, logger.Discard())

	ev, err := NewEvent("order.placed", "o", "order", "shopbuy", struct{}{})
	require.NoError(t, err)

	err = p.Publish(context.Background(), "shopbuy.order.placed", ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shopbuy.order.placed")
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, nil, logger.Discard()).Close())
	assert.True(t, w.closed)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	assert.Error(t, pingBrokers(context.Background(), nil))
}
