package domain

import (
	"context"
	"math"
)

// earthRadiusKm 地球平均半径（公里）
const earthRadiusKm = 6371.0

// HaversineCalculator 基于大圆距离的本地距离解析实现
type HaversineCalculator struct{}

// NewHaversineCalculator 创建本地距离解析器
func NewHaversineCalculator() *HaversineCalculator {
	return &HaversineCalculator{}
}

// Distance 计算两点间大圆距离（公里）
func (h *HaversineCalculator) Distance(ctx context.Context, from, to Coordinate) (float64, bool, error) {
	if !from.Valid() || !to.Valid() {
		return 0, false, nil
	}

	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLat := (to.Lat - from.Lat) * math.Pi / 180
	dLng := (to.Lng - from.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, true, nil
}
