package application

import (
	"context"
	"time"

	"github.com/wyfcoding/deliveryhub/internal/cart/domain"
)

// AddItemCommand 加购命令
type AddItemCommand struct {
	SessionID   string
	VendorID    string
	ItemID      string
	Quantity    int
	UnitPrice   float64
	DisplayName string
	ImageRef    string
}

// RemoveItemCommand 移除商品命令
type RemoveItemCommand struct {
	SessionID string
	ItemID    string
}

// UpdateQuantityCommand 数量调整命令
type UpdateQuantityCommand struct {
	SessionID string
	ItemID    string
	Quantity  int
}

// ClearCartCommand 清空购物车命令
type ClearCartCommand struct {
	SessionID string
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo      domain.CartRepository
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.CartRepository,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		publisher: publisher,
	}
}

// loadOrCreate 取出会话购物车，不存在时创建空车
func (s *CartCommandService) loadOrCreate(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetBySessionID(ctx, sessionID)
	if err == domain.ErrCartNotFound {
		return domain.NewCart(sessionID), nil
	}
	return cart, err
}

// AddItem 处理加购
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	cart, err := s.loadOrCreate(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	cart.AddItem(cmd.VendorID, cmd.ItemID, cmd.Quantity, domain.ItemDetails{
		UnitPrice:   cmd.UnitPrice,
		DisplayName: cmd.DisplayName,
		ImageRef:    cmd.ImageRef,
	})
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	event := domain.CartItemAddedEvent{
		SessionID: cmd.SessionID,
		VendorID:  cmd.VendorID,
		ItemID:    cmd.ItemID,
		Quantity:  cmd.Quantity,
		UnitPrice: cmd.UnitPrice,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.item.added", cmd.SessionID, event)

	return nil
}

// RemoveItem 处理移除商品。无匹配行时同样落盘并发事件，为 no-op 而非错误
func (s *CartCommandService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) error {
	cart, err := s.loadOrCreate(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	cart.RemoveItem(cmd.ItemID)
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	event := domain.CartItemRemovedEvent{
		SessionID: cmd.SessionID,
		ItemID:    cmd.ItemID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.item.removed", cmd.SessionID, event)

	return nil
}

// UpdateItemQuantity 处理数量调整，数量 <= 0 时等价于移除
func (s *CartCommandService) UpdateItemQuantity(ctx context.Context, cmd UpdateQuantityCommand) error {
	cart, err := s.loadOrCreate(ctx, cmd.SessionID)
	if err != nil {
		return err
	}

	cart.UpdateItemQuantity(cmd.ItemID, cmd.Quantity)
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	event := domain.CartQuantityUpdatedEvent{
		SessionID: cmd.SessionID,
		ItemID:    cmd.ItemID,
		Quantity:  cmd.Quantity,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.quantity.updated", cmd.SessionID, event)

	return nil
}

// SetDeliveryMode 设置配送方式，不影响总金额
func (s *CartCommandService) SetDeliveryMode(ctx context.Context, sessionID string, mode domain.DeliveryMode) error {
	return s.updateMetadata(ctx, sessionID, func(cart *domain.Cart) {
		cart.SetDeliveryMode(mode)
	})
}

// UpdateDistance 设置配送距离（公里）
func (s *CartCommandService) UpdateDistance(ctx context.Context, sessionID string, km float64) error {
	return s.updateMetadata(ctx, sessionID, func(cart *domain.Cart) {
		cart.SetDistance(km)
	})
}

// UpdateDuration 设置预计时长文案
func (s *CartCommandService) UpdateDuration(ctx context.Context, sessionID string, label string) error {
	return s.updateMetadata(ctx, sessionID, func(cart *domain.Cart) {
		cart.SetDuration(label)
	})
}

// SetAdditionalInfo 设置附加说明
func (s *CartCommandService) SetAdditionalInfo(ctx context.Context, sessionID string, text string) error {
	return s.updateMetadata(ctx, sessionID, func(cart *domain.Cart) {
		cart.SetAdditionalInfo(text)
	})
}

func (s *CartCommandService) updateMetadata(ctx context.Context, sessionID string, mutate func(*domain.Cart)) error {
	cart, err := s.loadOrCreate(ctx, sessionID)
	if err != nil {
		return err
	}
	mutate(cart)
	return s.repo.Save(ctx, cart)
}

// ClearCart 处理清空购物车
func (s *CartCommandService) ClearCart(ctx context.Context, cmd ClearCartCommand) error {
	if err := s.repo.Delete(ctx, cmd.SessionID); err != nil {
		return err
	}

	event := domain.CartClearedEvent{
		SessionID: cmd.SessionID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.cleared", cmd.SessionID, event)

	return nil
}
