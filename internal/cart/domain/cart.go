package domain

// DeliveryMode 配送方式
type DeliveryMode string

const (
	// DeliveryModePickup 自提
	DeliveryModePickup DeliveryMode = "pickup"
	// DeliveryModeDelivery 配送
	DeliveryModeDelivery DeliveryMode = "delivery"
)

// ItemDetails 加购时捕获的展示信息，重复加购不覆盖（首次加购为准）
type ItemDetails struct {
	UnitPrice   float64 `json:"unit_price"`
	DisplayName string  `json:"display_name"`
	ImageRef    string  `json:"image_ref"`
}

// LineItem 购物车行项目，唯一键为 (VendorID, ItemID)
type LineItem struct {
	VendorID    string  `json:"vendor_id"`
	ItemID      string  `json:"item_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	DisplayName string  `json:"display_name"`
	ImageRef    string  `json:"image_ref"`
}

// Subtotal 行小计
func (li LineItem) Subtotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// Cart 会话购物车聚合，进程内易失状态，进程重启即丢失
type Cart struct {
	SessionID string       `json:"session_id"`
	Items     []LineItem   `json:"items"`
	Mode      DeliveryMode `json:"mode"`
	// 配送距离（公里）
	DistanceKm float64 `json:"distance_km"`
	// 预计时长展示文案
	DurationLabel string `json:"duration_label"`
	// 订单附加说明
	AdditionalInfo string `json:"additional_info"`
}

// NewCart 创建空购物车
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Mode:      DeliveryModeDelivery,
	}
}

// Total 当前总金额，始终由行项目推导，不单独存储
func (c *Cart) Total() float64 {
	var t float64
	for _, item := range c.Items {
		t += item.Subtotal()
	}
	return t
}

// AddItem 加购：已存在相同 (vendorID, itemID) 时累加数量，展示信息不覆盖；
// 否则按传入数量与信息追加新行。数量由调用方保证合理性。
func (c *Cart) AddItem(vendorID, itemID string, qty int, details ItemDetails) {
	for i := range c.Items {
		if c.Items[i].VendorID == vendorID && c.Items[i].ItemID == itemID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, LineItem{
		VendorID:    vendorID,
		ItemID:      itemID,
		Quantity:    qty,
		UnitPrice:   details.UnitPrice,
		DisplayName: details.DisplayName,
		ImageRef:    details.ImageRef,
	})
}

// RemoveItem 按 itemID 移除所有匹配行，不区分 vendor。
// 调用方需保证 item id 全局唯一，否则会跨商家误删。无匹配时为 no-op。
func (c *Cart) RemoveItem(itemID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ItemID != itemID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// UpdateItemQuantity 将匹配行数量设置为 qty（绝对值），qty <= 0 等价于移除。
// 与 RemoveItem 同样仅按 itemID 匹配。无匹配时为 no-op。
func (c *Cart) UpdateItemQuantity(itemID string, qty int) {
	if qty <= 0 {
		c.RemoveItem(itemID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items[i].Quantity = qty
		}
	}
}

// SetDeliveryMode 设置配送方式
func (c *Cart) SetDeliveryMode(mode DeliveryMode) {
	c.Mode = mode
}

// SetDistance 设置配送距离（公里）
func (c *Cart) SetDistance(km float64) {
	c.DistanceKm = km
}

// SetDuration 设置预计时长文案
func (c *Cart) SetDuration(label string) {
	c.DurationLabel = label
}

// SetAdditionalInfo 设置附加说明
func (c *Cart) SetAdditionalInfo(text string) {
	c.AdditionalInfo = text
}

// Clear 重置购物车为空默认态
func (c *Cart) Clear() {
	c.Items = nil
	c.Mode = DeliveryModeDelivery
	c.DistanceKm = 0
	c.DurationLabel = ""
	c.AdditionalInfo = ""
}

// ItemCount 行项目数
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// Clone 深拷贝，仓储层用于避免外部别名修改
func (c *Cart) Clone() *Cart {
	clone := *c
	clone.Items = make([]LineItem, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}
