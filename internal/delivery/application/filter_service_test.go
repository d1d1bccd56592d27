package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/deliveryhub/internal/delivery/domain"
	"gorm.io/gorm"
)

// stubCalculator 按候选取货点纬度返回预设距离，记录调用次数
type stubCalculator struct {
	distances map[float64]float64
	calls     atomic.Int64
}

func (s *stubCalculator) Distance(ctx context.Context, from, to domain.Coordinate) (float64, bool, error) {
	s.calls.Add(1)
	km, ok := s.distances[to.Lat]
	return km, ok, nil
}

type failingCalculator struct{}

func (failingCalculator) Distance(ctx context.Context, from, to domain.Coordinate) (float64, bool, error) {
	return 0, false, errors.New("distance provider unavailable")
}

func makeCandidate(id uint, origin, destination string, pickupLat float64) domain.Candidate {
	lng := 116.0
	return domain.Candidate{
		Model:       gorm.Model{ID: id},
		VendorID:    origin,
		Origin:      origin,
		Destination: destination,
		PickupLat:   &pickupLat,
		PickupLng:   &lng,
		Active:      true,
	}
}

func userLocation() *domain.Coordinate {
	return &domain.Coordinate{Lat: 39.99, Lng: 116.47}
}

func TestDeliveryFilterService_RadiusAndSort(t *testing.T) {
	calc := &stubCalculator{distances: map[float64]float64{
		1: 50, 2: 10, 3: 300, 4: 150,
	}}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 200, nil)

	ranked, err := svc.Filter(context.Background(), FilterQuery{
		UserLocation:       userLocation(),
		LocationPermission: true,
		Candidates: []domain.Candidate{
			makeCandidate(1, "A", "X", 1),
			makeCandidate(2, "B", "Y", 2),
			makeCandidate(3, "C", "Z", 3),
			makeCandidate(4, "D", "W", 4),
		},
	})
	require.NoError(t, err)

	// 超出半径的剔除，余下按距离升序
	require.Len(t, ranked, 3)
	assert.Equal(t, []float64{10, 50, 150}, []float64{
		ranked[0].DistanceKm, ranked[1].DistanceKm, ranked[2].DistanceKm,
	})
	assert.Equal(t, "B", ranked[0].Candidate.Origin)
	assert.False(t, svc.InFlight())
}

func TestDeliveryFilterService_EmptyInputs(t *testing.T) {
	calc := &stubCalculator{distances: map[float64]float64{1: 10}}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 200, nil)
	candidates := []domain.Candidate{makeCandidate(1, "A", "X", 1)}

	t.Run("未授权定位", func(t *testing.T) {
		ranked, err := svc.Filter(context.Background(), FilterQuery{
			UserLocation: userLocation(), LocationPermission: false, Candidates: candidates,
		})
		require.NoError(t, err)
		assert.Empty(t, ranked)
		assert.False(t, svc.InFlight())
	})

	t.Run("位置未知", func(t *testing.T) {
		ranked, err := svc.Filter(context.Background(), FilterQuery{
			UserLocation: nil, LocationPermission: true, Candidates: candidates,
		})
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})

	t.Run("无候选", func(t *testing.T) {
		ranked, err := svc.Filter(context.Background(), FilterQuery{
			UserLocation: userLocation(), LocationPermission: true,
		})
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})

	assert.Zero(t, calc.calls.Load())
}

func TestDeliveryFilterService_WholePassFailure(t *testing.T) {
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), failingCalculator{}, 200, nil)

	ranked, err := svc.Filter(context.Background(), FilterQuery{
		UserLocation:       userLocation(),
		LocationPermission: true,
		Candidates: []domain.Candidate{
			makeCandidate(1, "A", "X", 1),
			makeCandidate(2, "B", "Y", 2),
		},
	})

	// 任一解析失败整轮失败，不返回部分结果
	require.Error(t, err)
	assert.Nil(t, ranked)
	assert.False(t, svc.InFlight())
}

// blockingCalculator 阻塞到 ctx 取消才返回
type blockingCalculator struct {
	started chan struct{}
}

func (b *blockingCalculator) Distance(ctx context.Context, from, to domain.Coordinate) (float64, bool, error) {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return 0, false, ctx.Err()
}

func TestDeliveryFilterService_ContextCancellation(t *testing.T) {
	calc := &blockingCalculator{started: make(chan struct{}, 1)}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 200, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	var ranked []domain.RankedCandidate
	var err error
	go func() {
		ranked, err = svc.Filter(ctx, FilterQuery{
			UserLocation:       userLocation(),
			LocationPermission: true,
			Candidates: []domain.Candidate{
				makeCandidate(1, "A", "X", 1),
				makeCandidate(2, "B", "Y", 2),
			},
		})
		close(done)
	}()

	// 解析进行中撤销调用方 context，在途解析随之中止
	<-calc.started
	cancel()
	<-done

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ranked)
	assert.False(t, svc.InFlight())
}

func TestDeliveryFilterService_UnknownDistanceDropped(t *testing.T) {
	cache := domain.NewDistanceCache(time.Minute)
	calc := &stubCalculator{distances: map[float64]float64{1: 10}} // 纬度 2 无条目，视为未知
	svc := NewDeliveryFilterService(cache, calc, 200, nil)

	ranked, err := svc.Filter(context.Background(), FilterQuery{
		UserLocation:       userLocation(),
		LocationPermission: true,
		Candidates: []domain.Candidate{
			makeCandidate(1, "A", "X", 1),
			makeCandidate(2, "B", "Y", 2),
		},
	})
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "A", ranked[0].Candidate.Origin)
	// 未知距离不回填缓存
	assert.Equal(t, 1, cache.Len())
}

func TestDeliveryFilterService_MissingCoordinatesDropped(t *testing.T) {
	calc := &stubCalculator{distances: map[float64]float64{1: 10}}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 200, nil)

	noCoords := domain.Candidate{Model: gorm.Model{ID: 9}, Origin: "C", Active: true}
	ranked, err := svc.Filter(context.Background(), FilterQuery{
		UserLocation:       userLocation(),
		LocationPermission: true,
		Candidates:         []domain.Candidate{makeCandidate(1, "A", "X", 1), noCoords},
	})
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, "A", ranked[0].Candidate.Origin)
	assert.Equal(t, int64(1), calc.calls.Load())
}

func TestDeliveryFilterService_SearchNarrowing(t *testing.T) {
	calc := &stubCalculator{distances: map[float64]float64{1: 10, 2: 20, 3: 30}}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 200, nil)
	candidates := []domain.Candidate{
		makeCandidate(1, "Wangjing Mall", "Sanlitun", 1),
		makeCandidate(2, "Jiuxianqiao", "WANGJING SOHO", 2),
		makeCandidate(3, "Guomao", "Dawanglu", 3),
	}

	t.Run("大小写不敏感匹配起止文案", func(t *testing.T) {
		ranked, err := svc.Filter(context.Background(), FilterQuery{
			UserLocation:       userLocation(),
			LocationPermission: true,
			Candidates:         candidates,
			Search:             "  wangjing ",
		})
		require.NoError(t, err)

		require.Len(t, ranked, 2)
		// 收窄后仍保持升序
		assert.Equal(t, "Wangjing Mall", ranked[0].Candidate.Origin)
		assert.Equal(t, "Jiuxianqiao", ranked[1].Candidate.Origin)
	})

	t.Run("空白检索词不收窄", func(t *testing.T) {
		ranked, err := svc.Filter(context.Background(), FilterQuery{
			UserLocation:       userLocation(),
			LocationPermission: true,
			Candidates:         candidates,
			Search:             "   ",
		})
		require.NoError(t, err)
		assert.Len(t, ranked, 3)
	})

	t.Run("无匹配时为空", func(t *testing.T) {
		ranked, err := svc.Filter(context.Background(), FilterQuery{
			UserLocation:       userLocation(),
			LocationPermission: true,
			Candidates:         candidates,
			Search:             "shenzhen",
		})
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})
}

func TestDeliveryFilterService_CacheReuse(t *testing.T) {
	calc := &stubCalculator{distances: map[float64]float64{1: 10}}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 200, nil)
	query := FilterQuery{
		UserLocation:       userLocation(),
		LocationPermission: true,
		Candidates:         []domain.Candidate{makeCandidate(1, "A", "X", 1)},
	}

	_, err := svc.Filter(context.Background(), query)
	require.NoError(t, err)
	_, err = svc.Filter(context.Background(), query)
	require.NoError(t, err)

	// 第二轮命中缓存，不再打协作方
	assert.Equal(t, int64(1), calc.calls.Load())
}

func TestNewDeliveryFilterService_DefaultRadius(t *testing.T) {
	calc := &stubCalculator{distances: map[float64]float64{1: 199, 2: 201}}
	svc := NewDeliveryFilterService(domain.NewDistanceCache(time.Minute), calc, 0, nil)

	ranked, err := svc.Filter(context.Background(), FilterQuery{
		UserLocation:       userLocation(),
		LocationPermission: true,
		Candidates: []domain.Candidate{
			makeCandidate(1, "A", "X", 1),
			makeCandidate(2, "B", "Y", 2),
		},
	})
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, 199.0, ranked[0].DistanceKm)
}
