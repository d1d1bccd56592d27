package domain

import (
	"context"
	"errors"
)

// ErrCartNotFound 会话无购物车
var ErrCartNotFound = errors.New("cart not found")

// CartRepository 购物车仓储端口
type CartRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// EventPublisher 领域事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
