package application

import (
	"context"
	"time"

	"github.com/wyfcoding/deliveryhub/internal/order/domain"
	"github.com/wyfcoding/deliveryhub/pkg/metrics"
)

// SubmitOrderCommand 订单提交命令，与购物车投影出的载荷同构
type SubmitOrderCommand struct {
	SessionID          string
	Items              []SubmitOrderItem
	PickupCoordinates  [2]float64
	DropoffCoordinates [2]float64
	Distance           float64
	RequireDelivery    bool
	Duration           string
	Origin             string
	Destination        string
	AdditionalInfo     string
}

// SubmitOrderItem 提交行项目
type SubmitOrderItem struct {
	VendorID string
	ItemID   string
	Quantity int
}

// OrderApplicationService 订单应用服务
type OrderApplicationService struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	fees      domain.FeeSchedule
	metrics   *metrics.Metrics
}

// NewOrderApplicationService 创建订单应用服务实例，m 可为 nil
func NewOrderApplicationService(
	repo domain.OrderRepository,
	publisher domain.EventPublisher,
	fees domain.FeeSchedule,
	m *metrics.Metrics,
) *OrderApplicationService {
	return &OrderApplicationService{
		repo:      repo,
		publisher: publisher,
		fees:      fees,
		metrics:   m,
	}
}

// SubmitOrder 受理订单提交：校验、计费、落库、发事件
func (s *OrderApplicationService) SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, domain.OrderItem{
			VendorID: item.VendorID,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}

	order := &domain.Order{
		SessionID:       cmd.SessionID,
		Status:          domain.StatusPending,
		PickupLat:       cmd.PickupCoordinates[0],
		PickupLng:       cmd.PickupCoordinates[1],
		DropoffLat:      cmd.DropoffCoordinates[0],
		DropoffLng:      cmd.DropoffCoordinates[1],
		DistanceKm:      cmd.Distance,
		RequireDelivery: cmd.RequireDelivery,
		DurationLabel:   cmd.Duration,
		Origin:          cmd.Origin,
		Destination:     cmd.Destination,
		AdditionalInfo:  cmd.AdditionalInfo,
		DeliveryFee:     s.fees.Fee(cmd.Distance, cmd.RequireDelivery),
		Items:           items,
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.OrdersTotal.Inc()
	}

	event := domain.OrderSubmittedEvent{
		OrderID:         order.ID,
		SessionID:       order.SessionID,
		ItemCount:       len(order.Items),
		RequireDelivery: order.RequireDelivery,
		DistanceKm:      order.DistanceKm,
		DeliveryFee:     order.DeliveryFee.String(),
		Timestamp:       time.Now(),
	}
	s.publisher.Publish(ctx, "order.submitted", order.SessionID, event)

	return order, nil
}

// ConfirmOrder 确认待确认订单
func (s *OrderApplicationService) ConfirmOrder(ctx context.Context, id uint) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := order.Confirm(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return err
	}

	event := domain.OrderConfirmedEvent{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "order.confirmed", order.SessionID, event)

	return nil
}

// CancelOrder 取消待确认订单
func (s *OrderApplicationService) CancelOrder(ctx context.Context, id uint) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := order.Cancel(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return err
	}

	event := domain.OrderCancelledEvent{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "order.cancelled", order.SessionID, event)

	return nil
}

// GetOrder 查询订单
func (s *OrderApplicationService) GetOrder(ctx context.Context, id uint) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders 查询会话订单列表
func (s *OrderApplicationService) ListOrders(ctx context.Context, sessionID string) ([]domain.Order, error) {
	return s.repo.ListBySessionID(ctx, sessionID)
}
