package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/deliveryhub/internal/order/domain"
	"github.com/wyfcoding/deliveryhub/pkg/mq"
)

type fakeConfirmer struct {
	confirmed []uint
	err       error
}

func (f *fakeConfirmer) ConfirmOrder(ctx context.Context, id uint) error {
	if f.err != nil {
		return f.err
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func submittedMessage(t *testing.T, event domain.OrderSubmittedEvent) *mq.Message {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return &mq.Message{Topic: "order.submitted", Key: event.SessionID, Value: data}
}

func TestOrderSubmittedConsumer_Handle(t *testing.T) {
	t.Run("确认提交的订单", func(t *testing.T) {
		confirmer := &fakeConfirmer{}
		c := NewOrderSubmittedConsumer(nil, nil, confirmer)

		msg := submittedMessage(t, domain.OrderSubmittedEvent{OrderID: 7, SessionID: "s1"})
		require.NoError(t, c.handle(context.Background(), msg))
		assert.Equal(t, []uint{7}, confirmer.confirmed)
	})

	t.Run("载荷非法时报错", func(t *testing.T) {
		confirmer := &fakeConfirmer{}
		c := NewOrderSubmittedConsumer(nil, nil, confirmer)

		err := c.handle(context.Background(), &mq.Message{Value: []byte("not json")})
		assert.Error(t, err)
		assert.Empty(t, confirmer.confirmed)
	})

	t.Run("缺少订单号时报错", func(t *testing.T) {
		c := NewOrderSubmittedConsumer(nil, nil, &fakeConfirmer{})

		msg := submittedMessage(t, domain.OrderSubmittedEvent{SessionID: "s1"})
		assert.Error(t, c.handle(context.Background(), msg))
	})

	t.Run("确认失败时报错", func(t *testing.T) {
		confirmer := &fakeConfirmer{err: errors.New("db down")}
		c := NewOrderSubmittedConsumer(nil, nil, confirmer)

		msg := submittedMessage(t, domain.OrderSubmittedEvent{OrderID: 7, SessionID: "s1"})
		assert.Error(t, c.handle(context.Background(), msg))
	})

	t.Run("重复投递跳过", func(t *testing.T) {
		confirmer := &fakeConfirmer{err: domain.ErrInvalidTransition}
		c := NewOrderSubmittedConsumer(nil, nil, confirmer)

		msg := submittedMessage(t, domain.OrderSubmittedEvent{OrderID: 7, SessionID: "s1"})
		assert.NoError(t, c.handle(context.Background(), msg))
	})
}
