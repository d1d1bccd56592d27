package application

import (
	"context"

	"github.com/wyfcoding/deliveryhub/internal/cart/domain"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo domain.CartRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(
	repo domain.CartRepository,
) *CartQueryService {
	return &CartQueryService{
		repo: repo,
	}
}

// GetCart 根据会话 ID 获取购物车，不存在时返回空车
func (s *CartQueryService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetBySessionID(ctx, sessionID)
	if err == domain.ErrCartNotFound {
		return domain.NewCart(sessionID), nil
	}
	return cart, err
}

// GetCartTotal 获取购物车总金额
func (s *CartQueryService) GetCartTotal(ctx context.Context, sessionID string) (float64, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Total(), nil
}

// GetCartItemCount 获取购物车行项目数
func (s *CartQueryService) GetCartItemCount(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// BuildOrderRequest 构造订单提交载荷，纯投影，不修改购物车
func (s *CartQueryService) BuildOrderRequest(ctx context.Context, sessionID string, loc domain.OrderLocation) (domain.OrderRequest, error) {
	cart, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return domain.OrderRequest{}, err
	}
	return cart.BuildOrderRequest(loc), nil
}
