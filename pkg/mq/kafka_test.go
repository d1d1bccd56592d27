package mq

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_UnmarshalPayload(t *testing.T) {
	msg := &Message{Value: []byte(`{"order_id": 7, "session_id": "s1"}`)}

	var payload struct {
		OrderID   uint   `json:"order_id"`
		SessionID string `json:"session_id"`
	}
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, uint(7), payload.OrderID)
	assert.Equal(t, "s1", payload.SessionID)

	bad := &Message{Value: []byte("not json")}
	assert.Error(t, bad.UnmarshalPayload(&payload))
}

func TestDeadLetterPayload(t *testing.T) {
	msg := &Message{
		Topic:  "order.submitted",
		Key:    "s1",
		Value:  []byte(`{}`),
		Offset: 42,
		Time:   time.Now(),
	}

	t.Run("携带失败原因与错误", func(t *testing.T) {
		payload := deadLetterPayload(msg, "handler failed", errors.New("boom"))
		assert.Equal(t, "order.submitted", payload["original_topic"])
		assert.Equal(t, int64(42), payload["original_offset"])
		assert.Equal(t, "handler failed", payload["failure_reason"])
		assert.Equal(t, "boom", payload["failure_error"])
	})

	t.Run("错误为 nil 时不崩溃", func(t *testing.T) {
		payload := deadLetterPayload(msg, "poison message", nil)
		assert.Equal(t, "", payload["failure_error"])
	})
}
