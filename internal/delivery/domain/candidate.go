package domain

import (
	"context"
	"math"

	"gorm.io/gorm"
)

// Coordinate WGS84 坐标
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid 坐标是否为有限数值
func (c Coordinate) Valid() bool {
	return !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0) &&
		!math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0)
}

// Candidate 配送候选（商家/接单点刊登）
type Candidate struct {
	gorm.Model
	VendorID string `gorm:"column:vendor_id;type:varchar(36);index;not null" json:"vendor_id"`
	// 起点展示文案
	Origin string `gorm:"column:origin;type:varchar(255)" json:"origin"`
	// 终点展示文案
	Destination string `gorm:"column:destination;type:varchar(255)" json:"destination"`
	// 取货点坐标，可缺失（缺失的候选不参与距离筛选）
	PickupLat *float64 `gorm:"column:pickup_lat;type:decimal(10,7)" json:"pickup_lat"`
	PickupLng *float64 `gorm:"column:pickup_lng;type:decimal(10,7)" json:"pickup_lng"`
	// 预计时长展示文案
	DurationLabel string `gorm:"column:duration_label;type:varchar(64)" json:"duration_label"`
	// 是否接单中
	Active bool `gorm:"column:active;index;not null;default:true" json:"active"`
}

func (Candidate) TableName() string { return "delivery_candidates" }

// PickupCoordinate 返回取货点坐标；坐标缺失或非有限数值时 ok 为 false
func (c *Candidate) PickupCoordinate() (Coordinate, bool) {
	if c.PickupLat == nil || c.PickupLng == nil {
		return Coordinate{}, false
	}
	coord := Coordinate{Lat: *c.PickupLat, Lng: *c.PickupLng}
	if !coord.Valid() {
		return Coordinate{}, false
	}
	return coord, true
}

// RankedCandidate 带已解析距离的候选
type RankedCandidate struct {
	Candidate  Candidate `json:"candidate"`
	DistanceKm float64   `json:"distance_km"`
}

// CandidateRepository 候选刊登仓储端口
type CandidateRepository interface {
	ListActive(ctx context.Context) ([]Candidate, error)
	Save(ctx context.Context, candidate *Candidate) error
}

// CandidateCache 候选读模型缓存端口
type CandidateCache interface {
	GetActive(ctx context.Context) ([]Candidate, error)
	SaveActive(ctx context.Context, candidates []Candidate) error
	Invalidate(ctx context.Context) error
}

// DistanceCalculator 距离解析协作方。
// 距离未知时 ok 返回 false；解析失败返回 error。
type DistanceCalculator interface {
	Distance(ctx context.Context, from, to Coordinate) (km float64, ok bool, err error)
}
