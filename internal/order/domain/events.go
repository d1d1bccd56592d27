package domain

import "time"

// OrderSubmittedEvent 订单提交事件
type OrderSubmittedEvent struct {
	OrderID         uint      `json:"order_id"`
	SessionID       string    `json:"session_id"`
	ItemCount       int       `json:"item_count"`
	RequireDelivery bool      `json:"require_delivery"`
	DistanceKm      float64   `json:"distance_km"`
	DeliveryFee     string    `json:"delivery_fee"`
	Timestamp       time.Time `json:"timestamp"`
}

// OrderConfirmedEvent 订单确认事件
type OrderConfirmedEvent struct {
	OrderID   uint      `json:"order_id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	OrderID   uint      `json:"order_id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
