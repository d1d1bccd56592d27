// Package memory 提供进程内购物车仓储。购物车是会话级易失状态，
// 进程重启即丢失，无恢复要求，因此不落库。
package memory

import (
	"context"
	"sync"

	"github.com/wyfcoding/deliveryhub/internal/cart/domain"
)

type cartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

// NewCartRepository 创建进程内购物车仓储
func NewCartRepository() domain.CartRepository {
	return &cartRepository{carts: make(map[string]*domain.Cart)}
}

func (r *cartRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[sessionID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart.Clone(), nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.SessionID] = cart.Clone()
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}
