package domain

// OrderItem 提交给订单服务的行项目，剥离展示字段与单价
type OrderItem struct {
	VendorID string `json:"vendor_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// OrderRequest 订单提交载荷
type OrderRequest struct {
	OrderItems         []OrderItem `json:"order_items"`
	PickupCoordinates  [2]float64  `json:"pickup_coordinates"`
	DropoffCoordinates [2]float64  `json:"dropoff_coordinates"`
	Distance           float64     `json:"distance"`
	RequireDelivery    bool        `json:"require_delivery"`
	Duration           string      `json:"duration"`
	Origin             string      `json:"origin"`
	Destination        string      `json:"destination"`
	// 为空时整个键省略
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// OrderLocation 调用方补充的起止信息
type OrderLocation struct {
	Origin             string
	Destination        string
	PickupCoordinates  []float64
	DropoffCoordinates []float64
}

// BuildOrderRequest 纯投影：由当前购物车与起止信息构造订单载荷，不修改状态。
// 坐标缺失或长度不足时落到 [0, 0]。
func (c *Cart) BuildOrderRequest(loc OrderLocation) OrderRequest {
	items := make([]OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, OrderItem{
			VendorID: item.VendorID,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}

	return OrderRequest{
		OrderItems:         items,
		PickupCoordinates:  normalizeCoordinates(loc.PickupCoordinates),
		DropoffCoordinates: normalizeCoordinates(loc.DropoffCoordinates),
		Distance:           c.DistanceKm,
		RequireDelivery:    c.Mode == DeliveryModeDelivery,
		Duration:           c.DurationLabel,
		Origin:             loc.Origin,
		Destination:        loc.Destination,
		AdditionalInfo:     c.AdditionalInfo,
	}
}

func normalizeCoordinates(coords []float64) [2]float64 {
	if len(coords) < 2 {
		return [2]float64{0, 0}
	}
	return [2]float64{coords[0], coords[1]}
}
