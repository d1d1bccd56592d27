package application

import (
	"context"

	"github.com/wyfcoding/deliveryhub/internal/cart/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
)

// ResetHook 会话重置回调。清空购物车后触发，
// 协作方（如位置会话）在此处登记自己的重置逻辑，
// 而不是把回调穿透进购物车接口。
type ResetHook func(ctx context.Context, sessionID string)

// CartApplicationService 购物车服务门面，整合命令服务和查询服务
type CartApplicationService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
	resetHooks     []ResetHook
}

// NewCartApplicationService 创建购物车服务门面实例
func NewCartApplicationService(
	repo domain.CartRepository,
	publisher domain.EventPublisher,
) *CartApplicationService {
	return &CartApplicationService{
		commandService: NewCartCommandService(repo, publisher),
		queryService:   NewCartQueryService(repo),
	}
}

// RegisterResetHook 登记会话重置回调，ClearCart 成功后依次触发
func (s *CartApplicationService) RegisterResetHook(hook ResetHook) {
	s.resetHooks = append(s.resetHooks, hook)
}

// GetCart 根据会话 ID 获取购物车
func (s *CartApplicationService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.queryService.GetCart(ctx, sessionID)
}

// GetCartTotal 获取购物车总金额
func (s *CartApplicationService) GetCartTotal(ctx context.Context, sessionID string) (float64, error) {
	return s.queryService.GetCartTotal(ctx, sessionID)
}

// GetCartItemCount 获取购物车行项目数
func (s *CartApplicationService) GetCartItemCount(ctx context.Context, sessionID string) (int, error) {
	return s.queryService.GetCartItemCount(ctx, sessionID)
}

// AddItem 处理加购
func (s *CartApplicationService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	return s.commandService.AddItem(ctx, cmd)
}

// RemoveItem 处理移除商品
func (s *CartApplicationService) RemoveItem(ctx context.Context, sessionID, itemID string) error {
	return s.commandService.RemoveItem(ctx, RemoveItemCommand{
		SessionID: sessionID,
		ItemID:    itemID,
	})
}

// UpdateItemQuantity 处理数量调整
func (s *CartApplicationService) UpdateItemQuantity(ctx context.Context, sessionID, itemID string, qty int) error {
	return s.commandService.UpdateItemQuantity(ctx, UpdateQuantityCommand{
		SessionID: sessionID,
		ItemID:    itemID,
		Quantity:  qty,
	})
}

// SetDeliveryMode 设置配送方式
func (s *CartApplicationService) SetDeliveryMode(ctx context.Context, sessionID string, mode domain.DeliveryMode) error {
	return s.commandService.SetDeliveryMode(ctx, sessionID, mode)
}

// UpdateDistance 设置配送距离（公里）
func (s *CartApplicationService) UpdateDistance(ctx context.Context, sessionID string, km float64) error {
	return s.commandService.UpdateDistance(ctx, sessionID, km)
}

// UpdateDuration 设置预计时长文案
func (s *CartApplicationService) UpdateDuration(ctx context.Context, sessionID string, label string) error {
	return s.commandService.UpdateDuration(ctx, sessionID, label)
}

// SetAdditionalInfo 设置附加说明
func (s *CartApplicationService) SetAdditionalInfo(ctx context.Context, sessionID string, text string) error {
	return s.commandService.SetAdditionalInfo(ctx, sessionID, text)
}

// ClearCart 清空购物车并触发已登记的会话重置回调
func (s *CartApplicationService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.commandService.ClearCart(ctx, ClearCartCommand{SessionID: sessionID}); err != nil {
		return err
	}

	for _, hook := range s.resetHooks {
		hook(ctx, sessionID)
	}
	logger.Debug(ctx, "Cart cleared", "session_id", sessionID, "hooks", len(s.resetHooks))

	return nil
}

// BuildOrderRequest 构造订单提交载荷
func (s *CartApplicationService) BuildOrderRequest(ctx context.Context, sessionID string, loc domain.OrderLocation) (domain.OrderRequest, error) {
	return s.queryService.BuildOrderRequest(ctx, sessionID, loc)
}
