package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceCache_GetSet(t *testing.T) {
	cache := NewDistanceCache(30 * time.Minute)
	from := Coordinate{Lat: 39.99, Lng: 116.47}
	to := Coordinate{Lat: 39.96, Lng: 116.49}

	_, ok := cache.Get(from, to)
	assert.False(t, ok)

	cache.Set(from, to, 4.2)

	km, ok := cache.Get(from, to)
	require.True(t, ok)
	assert.Equal(t, 4.2, km)
}

func TestDistanceCache_ExactKeyMatch(t *testing.T) {
	cache := NewDistanceCache(30 * time.Minute)
	from := Coordinate{Lat: 39.99, Lng: 116.47}
	to := Coordinate{Lat: 39.96, Lng: 116.49}
	cache.Set(from, to, 4.2)

	// 浮点完全一致才命中，微小偏差视为不同键
	nudged := Coordinate{Lat: 39.99 + 1e-12, Lng: 116.47}
	_, ok := cache.Get(nudged, to)
	assert.False(t, ok)

	// 起止互换是不同键
	_, ok = cache.Get(to, from)
	assert.False(t, ok)
}

func TestDistanceCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	cache := NewDistanceCacheWithClock(30*time.Minute, func() time.Time { return clock() })

	from := Coordinate{Lat: 1, Lng: 2}
	to := Coordinate{Lat: 3, Lng: 4}
	cache.Set(from, to, 10)

	// 恰好到期仍命中
	clock = func() time.Time { return now.Add(30 * time.Minute) }
	km, ok := cache.Get(from, to)
	require.True(t, ok)
	assert.Equal(t, 10.0, km)

	// 超过有效期后未命中且惰性剔除
	clock = func() time.Time { return now.Add(30*time.Minute + time.Second) }
	_, ok = cache.Get(from, to)
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestDistanceCache_SetRefreshesEntry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	cache := NewDistanceCacheWithClock(30*time.Minute, func() time.Time { return clock() })

	from := Coordinate{Lat: 1, Lng: 2}
	to := Coordinate{Lat: 3, Lng: 4}
	cache.Set(from, to, 10)

	// 中途覆盖重置时间戳
	clock = func() time.Time { return now.Add(20 * time.Minute) }
	cache.Set(from, to, 11)

	clock = func() time.Time { return now.Add(45 * time.Minute) }
	km, ok := cache.Get(from, to)
	require.True(t, ok)
	assert.Equal(t, 11.0, km)
}

func TestDistanceCache_Clear(t *testing.T) {
	cache := NewDistanceCache(0) // ttl <= 0 时取默认值
	cache.Set(Coordinate{Lat: 1, Lng: 2}, Coordinate{Lat: 3, Lng: 4}, 10)
	cache.Set(Coordinate{Lat: 5, Lng: 6}, Coordinate{Lat: 7, Lng: 8}, 20)
	require.Equal(t, 2, cache.Len())

	cache.Clear()
	assert.Zero(t, cache.Len())
}
