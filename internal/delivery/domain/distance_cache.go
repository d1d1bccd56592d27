package domain

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultDistanceCacheTTL 距离缓存默认有效期
const DefaultDistanceCacheTTL = 30 * time.Minute

type distanceEntry struct {
	distanceKm float64
	computedAt time.Time
}

// DistanceCache 距离结果记忆缓存。
// 键为四个坐标分量的精确字符串形式，不做任何舍入或量化：
// 浮点完全一致才命中，重复解析同一坐标对即为其命中场景。
// 过期条目在读取时惰性剔除。
type DistanceCache struct {
	mu      sync.RWMutex
	entries map[string]distanceEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewDistanceCache 创建距离缓存，ttl <= 0 时使用默认 30 分钟
func NewDistanceCache(ttl time.Duration) *DistanceCache {
	return NewDistanceCacheWithClock(ttl, time.Now)
}

// NewDistanceCacheWithClock 创建距离缓存并注入时钟，供测试模拟过期
func NewDistanceCacheWithClock(ttl time.Duration, now func() time.Time) *DistanceCache {
	if ttl <= 0 {
		ttl = DefaultDistanceCacheTTL
	}
	return &DistanceCache{
		entries: make(map[string]distanceEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get 返回缓存距离；条目不存在或已过期（超过 ttl）时返回 false，
// 过期条目顺带剔除。
func (c *DistanceCache) Get(from, to Coordinate) (float64, bool) {
	key := cacheKey(from, to)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}

	if c.now().Sub(entry.computedAt) > c.ttl {
		c.mu.Lock()
		// 重查：其他协程可能已覆盖为新条目
		if cur, ok := c.entries[key]; ok && c.now().Sub(cur.computedAt) > c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return 0, false
	}

	return entry.distanceKm, true
}

// Set 写入/覆盖条目，时间戳取当前时钟
func (c *DistanceCache) Set(from, to Coordinate, distanceKm float64) {
	key := cacheKey(from, to)

	c.mu.Lock()
	c.entries[key] = distanceEntry{
		distanceKm: distanceKm,
		computedAt: c.now(),
	}
	c.mu.Unlock()
}

// Clear 无条件清空
func (c *DistanceCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]distanceEntry)
	c.mu.Unlock()
}

// Len 当前物理条目数（含未剔除的过期条目）
func (c *DistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheKey 四坐标分量的规范字符串键，精确匹配
func cacheKey(from, to Coordinate) string {
	var b strings.Builder
	b.WriteString(strconv.FormatFloat(from.Lat, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(from.Lng, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(to.Lat, 'f', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(to.Lng, 'f', -1, 64))
	return b.String()
}
