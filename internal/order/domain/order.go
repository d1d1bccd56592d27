package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 订单状态
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ErrOrderNotFound 订单不存在
var ErrOrderNotFound = errors.New("order not found")

// ErrEmptyOrder 订单无行项目
var ErrEmptyOrder = errors.New("order has no items")

// ErrInvalidTransition 非法状态迁移
var ErrInvalidTransition = errors.New("invalid order status transition")

// Order 已提交订单聚合，持久化购物车投影出的提交载荷
type Order struct {
	gorm.Model
	SessionID string `gorm:"column:session_id;type:varchar(36);index;not null"`
	Status    string `gorm:"column:status;type:varchar(16);index;not null;default:pending"`
	// 取货/送达坐标，载荷缺省时为 (0, 0)
	PickupLat  float64 `gorm:"column:pickup_lat;type:decimal(10,7)"`
	PickupLng  float64 `gorm:"column:pickup_lng;type:decimal(10,7)"`
	DropoffLat float64 `gorm:"column:dropoff_lat;type:decimal(10,7)"`
	DropoffLng float64 `gorm:"column:dropoff_lng;type:decimal(10,7)"`
	// 配送距离（公里）
	DistanceKm      float64 `gorm:"column:distance_km;type:decimal(10,3)"`
	RequireDelivery bool    `gorm:"column:require_delivery;not null"`
	DurationLabel   string  `gorm:"column:duration_label;type:varchar(64)"`
	Origin          string  `gorm:"column:origin;type:varchar(255)"`
	Destination     string  `gorm:"column:destination;type:varchar(255)"`
	AdditionalInfo  string  `gorm:"column:additional_info;type:text"`
	// 配送费，按距离计费
	DeliveryFee decimal.Decimal `gorm:"column:delivery_fee;type:decimal(20,8)"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行项目
type OrderItem struct {
	gorm.Model
	OrderID  uint   `gorm:"column:order_id;index;not null"`
	VendorID string `gorm:"column:vendor_id;type:varchar(36);not null"`
	ItemID   string `gorm:"column:item_id;type:varchar(36);not null"`
	Quantity int    `gorm:"column:quantity;not null"`
}

func (OrderItem) TableName() string { return "order_items" }

// Confirm 确认订单
func (o *Order) Confirm() error {
	if o.Status != StatusPending {
		return ErrInvalidTransition
	}
	o.Status = StatusConfirmed
	return nil
}

// Cancel 取消订单，已确认订单不可取消
func (o *Order) Cancel() error {
	if o.Status != StatusPending {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	return nil
}

// OrderRepository 订单仓储端口
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	ListBySessionID(ctx context.Context, sessionID string) ([]Order, error)
}

// EventPublisher 领域事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
