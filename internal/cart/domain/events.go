package domain

import "time"

// CartItemAddedEvent 购物车加购事件
type CartItemAddedEvent struct {
	SessionID string    `json:"session_id"`
	VendorID  string    `json:"vendor_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	SessionID string    `json:"session_id"`
	ItemID    string    `json:"item_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartQuantityUpdatedEvent 购物车数量调整事件
type CartQuantityUpdatedEvent struct {
	SessionID string    `json:"session_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
