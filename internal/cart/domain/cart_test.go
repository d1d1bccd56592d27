package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart(t *testing.T) {
	cart := NewCart("session-1")

	assert.Equal(t, "session-1", cart.SessionID)
	assert.Equal(t, DeliveryModeDelivery, cart.Mode)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total())
}

func TestCart_AddItem(t *testing.T) {
	t.Run("追加新行", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3.5, DisplayName: "奶茶", ImageRef: "img-1"})

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 3.5, cart.Items[0].UnitPrice)
		assert.Equal(t, "奶茶", cart.Items[0].DisplayName)
		assert.InDelta(t, 7.0, cart.Total(), 1e-9)
	})

	t.Run("重复加购累加数量且不覆盖展示信息", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 1, ItemDetails{UnitPrice: 3.5, DisplayName: "奶茶", ImageRef: "img-1"})
		cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 99, DisplayName: "改名", ImageRef: "img-2"})

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		// 首次加购的展示信息为准
		assert.Equal(t, 3.5, cart.Items[0].UnitPrice)
		assert.Equal(t, "奶茶", cart.Items[0].DisplayName)
		assert.Equal(t, "img-1", cart.Items[0].ImageRef)
	})

	t.Run("不同商家的同名商品是不同行", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 1, ItemDetails{UnitPrice: 1})
		cart.AddItem("v2", "i1", 1, ItemDetails{UnitPrice: 2})

		assert.Len(t, cart.Items, 2)
		assert.InDelta(t, 3.0, cart.Total(), 1e-9)
	})
}

func TestCart_Total(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3.5})
	cart.AddItem("v1", "i2", 1, ItemDetails{UnitPrice: 10})
	assert.InDelta(t, 17.0, cart.Total(), 1e-9)

	// 总金额随任意修改序列保持为行小计之和
	cart.UpdateItemQuantity("i1", 5)
	assert.InDelta(t, 27.5, cart.Total(), 1e-9)

	cart.RemoveItem("i2")
	assert.InDelta(t, 17.5, cart.Total(), 1e-9)

	cart.Clear()
	assert.Zero(t, cart.Total())
}

func TestCart_RemoveItem(t *testing.T) {
	t.Run("按 itemID 移除全部匹配行", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 1, ItemDetails{UnitPrice: 1})
		cart.AddItem("v2", "i1", 1, ItemDetails{UnitPrice: 2})
		cart.AddItem("v1", "i2", 1, ItemDetails{UnitPrice: 3})

		cart.RemoveItem("i1")

		require.Len(t, cart.Items, 1)
		assert.Equal(t, "i2", cart.Items[0].ItemID)
	})

	t.Run("无匹配时为 no-op", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 1, ItemDetails{UnitPrice: 1})

		cart.RemoveItem("missing")
		cart.RemoveItem("missing")

		assert.Len(t, cart.Items, 1)
	})
}

func TestCart_UpdateItemQuantity(t *testing.T) {
	t.Run("设置为绝对数量", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3})

		cart.UpdateItemQuantity("i1", 7)

		assert.Equal(t, 7, cart.Items[0].Quantity)
		assert.InDelta(t, 21.0, cart.Total(), 1e-9)
	})

	t.Run("数量为零等价于移除且可重复调用", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3})

		cart.UpdateItemQuantity("i1", 0)
		assert.Empty(t, cart.Items)

		cart.UpdateItemQuantity("i1", 0)
		assert.Empty(t, cart.Items)
	})

	t.Run("负数数量同样移除", func(t *testing.T) {
		cart := NewCart("s1")
		cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3})

		cart.UpdateItemQuantity("i1", -1)
		assert.Empty(t, cart.Items)
	})
}

func TestCart_Clear(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3})
	cart.SetDeliveryMode(DeliveryModePickup)
	cart.SetDistance(12.5)
	cart.SetDuration("~30 min")
	cart.SetAdditionalInfo("不要辣")

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Equal(t, DeliveryModeDelivery, cart.Mode)
	assert.Zero(t, cart.DistanceKm)
	assert.Empty(t, cart.DurationLabel)
	assert.Empty(t, cart.AdditionalInfo)
}

func TestCart_Clone(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3})

	clone := cart.Clone()
	clone.AddItem("v1", "i2", 1, ItemDetails{UnitPrice: 5})
	clone.Items[0].Quantity = 99

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_BuildOrderRequest(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem("v1", "i1", 2, ItemDetails{UnitPrice: 3.5, DisplayName: "奶茶"})
	cart.AddItem("v2", "i2", 1, ItemDetails{UnitPrice: 10})
	cart.SetDistance(4.2)
	cart.SetDuration("~25 min")

	req := cart.BuildOrderRequest(OrderLocation{
		Origin:             "望京商圈",
		Destination:        "酒仙桥",
		PickupCoordinates:  []float64{39.99, 116.47},
		DropoffCoordinates: []float64{39.96, 116.49},
	})

	require.Len(t, req.OrderItems, 2)
	// 行项目剥离单价与展示字段
	assert.Equal(t, OrderItem{VendorID: "v1", ItemID: "i1", Quantity: 2}, req.OrderItems[0])
	assert.Equal(t, [2]float64{39.99, 116.47}, req.PickupCoordinates)
	assert.Equal(t, [2]float64{39.96, 116.49}, req.DropoffCoordinates)
	assert.Equal(t, 4.2, req.Distance)
	assert.True(t, req.RequireDelivery)
	assert.Equal(t, "~25 min", req.Duration)
	assert.Equal(t, "望京商圈", req.Origin)

	// 投影不修改购物车
	assert.Len(t, cart.Items, 2)
}

func TestCart_BuildOrderRequest_Defaults(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem("v1", "i1", 1, ItemDetails{UnitPrice: 1})
	cart.SetDeliveryMode(DeliveryModePickup)

	req := cart.BuildOrderRequest(OrderLocation{
		PickupCoordinates:  nil,
		DropoffCoordinates: []float64{39.9},
	})

	// 坐标缺失或长度不足时落到 [0, 0]
	assert.Equal(t, [2]float64{0, 0}, req.PickupCoordinates)
	assert.Equal(t, [2]float64{0, 0}, req.DropoffCoordinates)
	assert.False(t, req.RequireDelivery)
}

func TestOrderRequest_JSONShape(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem("v1", "i1", 1, ItemDetails{UnitPrice: 1})

	data, err := json.Marshal(cart.BuildOrderRequest(OrderLocation{}))
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Contains(t, payload, "order_items")
	assert.Contains(t, payload, "pickup_coordinates")
	assert.Contains(t, payload, "require_delivery")
	// 附加说明为空时整个键省略
	assert.NotContains(t, payload, "additional_info")

	cart.SetAdditionalInfo("放门口")
	data, err = json.Marshal(cart.BuildOrderRequest(OrderLocation{}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "放门口", payload["additional_info"])
}
