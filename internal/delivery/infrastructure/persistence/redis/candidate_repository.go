package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/deliveryhub/internal/delivery/domain"
)

// CandidateRedisRepository 基于 Redis 的候选读模型
type CandidateRedisRepository struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewCandidateRedisRepository 创建候选读模型实例
func NewCandidateRedisRepository(client redis.UniversalClient) *CandidateRedisRepository {
	return &CandidateRedisRepository{
		client: client,
		key:    "delivery:candidates:active",
		ttl:    5 * time.Minute,
	}
}

// GetActive 读取接单中的候选列表；缓存未命中返回 nil 切片
func (r *CandidateRedisRepository) GetActive(ctx context.Context) ([]domain.Candidate, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidates from redis: %w", err)
	}

	var candidates []domain.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidates: %w", err)
	}
	// 缓存的空列表与未命中区分开
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	return candidates, nil
}

// SaveActive 写入接单中的候选列表
func (r *CandidateRedisRepository) SaveActive(ctx context.Context, candidates []domain.Candidate) error {
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

// Invalidate 使读模型失效
func (r *CandidateRedisRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
