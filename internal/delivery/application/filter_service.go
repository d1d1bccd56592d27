package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/wyfcoding/deliveryhub/internal/delivery/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
	"github.com/wyfcoding/deliveryhub/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxDistanceKm 默认筛选半径（公里）
const DefaultMaxDistanceKm = 200.0

// FilterQuery 一次筛选请求
type FilterQuery struct {
	// 用户坐标，未知时为 nil
	UserLocation *domain.Coordinate
	// 定位授权
	LocationPermission bool
	// 候选集合
	Candidates []domain.Candidate
	// 自由文本检索，大小写不敏感地匹配起止文案
	Search string
}

// DeliveryFilterService 配送候选筛选服务。
// 距离解析经缓存读穿，未命中走协作方并回填；
// 各候选解析并发执行，任一解析出错则整轮失败，不返回部分结果。
type DeliveryFilterService struct {
	cache         *domain.DistanceCache
	calculator    domain.DistanceCalculator
	maxDistanceKm float64
	inFlight      atomic.Bool
	metrics       *metrics.Metrics
}

// NewDeliveryFilterService 创建筛选服务，maxDistanceKm <= 0 时使用默认值，m 可为 nil
func NewDeliveryFilterService(
	cache *domain.DistanceCache,
	calculator domain.DistanceCalculator,
	maxDistanceKm float64,
	m *metrics.Metrics,
) *DeliveryFilterService {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}
	return &DeliveryFilterService{
		cache:         cache,
		calculator:    calculator,
		maxDistanceKm: maxDistanceKm,
		metrics:       m,
	}
}

// InFlight 是否有筛选在途
func (s *DeliveryFilterService) InFlight() bool {
	return s.inFlight.Load()
}

// Filter 执行一轮筛选：解析距离、按半径过滤、按距离升序排序、按检索词收窄。
// 无定位、未授权或无候选时直接返回空结果。
func (s *DeliveryFilterService) Filter(ctx context.Context, query FilterQuery) ([]domain.RankedCandidate, error) {
	if query.UserLocation == nil || !query.LocationPermission || len(query.Candidates) == 0 {
		return []domain.RankedCandidate{}, nil
	}

	s.inFlight.Store(true)
	defer s.inFlight.Store(false)
	if s.metrics != nil {
		s.metrics.FilterPassesTotal.Inc()
	}

	user := *query.UserLocation

	// 按输入序占位，解析完成顺序不影响最终排序
	resolved := make([]*domain.RankedCandidate, len(query.Candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, candidate := range query.Candidates {
		g.Go(func() error {
			pickup, ok := candidate.PickupCoordinate()
			if !ok {
				logger.Debug(gctx, "Candidate skipped: invalid pickup coordinates",
					"candidate_id", candidate.ID,
					"vendor_id", candidate.VendorID,
				)
				return nil
			}

			km, err := s.resolveDistance(gctx, user, pickup)
			if err != nil {
				return fmt.Errorf("resolve distance for candidate %d: %w", candidate.ID, err)
			}
			if km < 0 {
				// 协作方返回未知距离
				logger.Debug(gctx, "Candidate skipped: distance unknown",
					"candidate_id", candidate.ID,
					"vendor_id", candidate.VendorID,
				)
				return nil
			}

			if km > s.maxDistanceKm {
				return nil
			}

			resolved[i] = &domain.RankedCandidate{Candidate: candidate, DistanceKm: km}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// 整轮失败：输出清空，不保留部分/陈旧结果
		logger.Error(ctx, "Delivery filter pass failed", "error", err)
		if s.metrics != nil {
			s.metrics.FilterPassesFailed.Inc()
		}
		return nil, err
	}

	ranked := make([]domain.RankedCandidate, 0, len(resolved))
	for _, r := range resolved {
		if r != nil {
			ranked = append(ranked, *r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return narrowBySearch(ranked, query.Search), nil
}

// resolveDistance 缓存读穿；未知距离以 -1 表示（不回填缓存）
func (s *DeliveryFilterService) resolveDistance(ctx context.Context, user, pickup domain.Coordinate) (float64, error) {
	if km, ok := s.cache.Get(user, pickup); ok {
		if s.metrics != nil {
			s.metrics.DistanceCacheHits.Inc()
		}
		return km, nil
	}
	if s.metrics != nil {
		s.metrics.DistanceCacheMisses.Inc()
	}

	km, known, err := s.calculator.Distance(ctx, user, pickup)
	if err != nil {
		return 0, err
	}
	if !known {
		return -1, nil
	}

	s.cache.Set(user, pickup, km)
	return km, nil
}

// narrowBySearch 按检索词收窄；空白检索词原样返回
func narrowBySearch(ranked []domain.RankedCandidate, search string) []domain.RankedCandidate {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return ranked
	}

	narrowed := make([]domain.RankedCandidate, 0, len(ranked))
	for _, r := range ranked {
		if strings.Contains(strings.ToLower(r.Candidate.Origin), term) ||
			strings.Contains(strings.ToLower(r.Candidate.Destination), term) {
			narrowed = append(narrowed, r)
		}
	}
	return narrowed
}
