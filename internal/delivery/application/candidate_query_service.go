package application

import (
	"context"

	"github.com/wyfcoding/deliveryhub/internal/delivery/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
)

// CandidateQueryService 候选读服务：Redis 读模型优先，未命中回源数据库并回填
type CandidateQueryService struct {
	repo  domain.CandidateRepository
	cache domain.CandidateCache
}

// NewCandidateQueryService 创建候选读服务实例，cache 可为 nil（仅回源）
func NewCandidateQueryService(repo domain.CandidateRepository, cache domain.CandidateCache) *CandidateQueryService {
	return &CandidateQueryService{repo: repo, cache: cache}
}

// ListActive 列出接单中的候选
func (s *CandidateQueryService) ListActive(ctx context.Context) ([]domain.Candidate, error) {
	if s.cache != nil {
		candidates, err := s.cache.GetActive(ctx)
		if err != nil {
			// 缓存故障只降级回源，不阻断请求
			logger.Warn(ctx, "Candidate cache read failed, falling back to database", "error", err)
		} else if candidates != nil {
			return candidates, nil
		}
	}

	candidates, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SaveActive(ctx, candidates); err != nil {
			logger.Warn(ctx, "Candidate cache write failed", "error", err)
		}
	}

	return candidates, nil
}

// SaveCandidate 保存刊登并使读模型失效
func (s *CandidateQueryService) SaveCandidate(ctx context.Context, candidate *domain.Candidate) error {
	if err := s.repo.Save(ctx, candidate); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Warn(ctx, "Candidate cache invalidation failed", "error", err)
		}
	}
	return nil
}
