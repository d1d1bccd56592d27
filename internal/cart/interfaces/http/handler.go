package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/deliveryhub/internal/cart/application"
	"github.com/wyfcoding/deliveryhub/internal/cart/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
	"github.com/wyfcoding/deliveryhub/pkg/response"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	app *application.CartApplicationService
}

// NewCartHandler 创建购物车 HTTP 处理器实例
func NewCartHandler(app *application.CartApplicationService) *CartHandler {
	return &CartHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/carts/:session_id")
	{
		api.GET("", h.GetCart)
		api.DELETE("", h.ClearCart)
		api.POST("/items", h.AddItem)
		api.DELETE("/items/:item_id", h.RemoveItem)
		api.PUT("/items/:item_id/quantity", h.UpdateItemQuantity)
		api.PUT("/delivery", h.UpdateDelivery)
		api.POST("/order-request", h.BuildOrderRequest)
	}
}

type addItemRequest struct {
	VendorID    string  `json:"vendor_id" binding:"required"`
	ItemID      string  `json:"item_id" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
	DisplayName string  `json:"display_name"`
	ImageRef    string  `json:"image_ref"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type updateDeliveryRequest struct {
	Mode           *string  `json:"mode"`
	DistanceKm     *float64 `json:"distance_km"`
	Duration       *string  `json:"duration"`
	AdditionalInfo *string  `json:"additional_info"`
}

type orderRequestBody struct {
	Origin             string    `json:"origin"`
	Destination        string    `json:"destination"`
	PickupCoordinates  []float64 `json:"pickup_coordinates"`
	DropoffCoordinates []float64 `json:"dropoff_coordinates"`
}

// GetCart 获取购物车
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "session_id is required", "")
		return
	}

	cart, err := h.app.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get cart", "session_id", sessionID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{
		"cart":  cart,
		"total": cart.Total(),
	})
}

// AddItem 加购
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cmd := application.AddItemCommand{
		SessionID:   sessionID,
		VendorID:    req.VendorID,
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		DisplayName: req.DisplayName,
		ImageRef:    req.ImageRef,
	}
	if err := h.app.AddItem(c.Request.Context(), cmd); err != nil {
		logger.Error(c.Request.Context(), "Failed to add item", "session_id", sessionID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, nil)
}

// RemoveItem 移除商品
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := c.Param("session_id")
	itemID := c.Param("item_id")

	if err := h.app.RemoveItem(c.Request.Context(), sessionID, itemID); err != nil {
		logger.Error(c.Request.Context(), "Failed to remove item", "session_id", sessionID, "item_id", itemID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, nil)
}

// UpdateItemQuantity 调整数量
func (h *CartHandler) UpdateItemQuantity(c *gin.Context) {
	sessionID := c.Param("session_id")
	itemID := c.Param("item_id")

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.app.UpdateItemQuantity(c.Request.Context(), sessionID, itemID, req.Quantity); err != nil {
		logger.Error(c.Request.Context(), "Failed to update quantity", "session_id", sessionID, "item_id", itemID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, nil)
}

// UpdateDelivery 更新配送元数据，字段可独立设置
func (h *CartHandler) UpdateDelivery(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req updateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.Mode != nil {
		mode := domain.DeliveryMode(*req.Mode)
		if mode != domain.DeliveryModePickup && mode != domain.DeliveryModeDelivery {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid delivery mode", *req.Mode)
			return
		}
		if err := h.app.SetDeliveryMode(ctx, sessionID, mode); err != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
			return
		}
	}
	if req.DistanceKm != nil {
		if err := h.app.UpdateDistance(ctx, sessionID, *req.DistanceKm); err != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
			return
		}
	}
	if req.Duration != nil {
		if err := h.app.UpdateDuration(ctx, sessionID, *req.Duration); err != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
			return
		}
	}
	if req.AdditionalInfo != nil {
		if err := h.app.SetAdditionalInfo(ctx, sessionID, *req.AdditionalInfo); err != nil {
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
			return
		}
	}

	response.Success(c, nil)
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.app.ClearCart(c.Request.Context(), sessionID); err != nil {
		logger.Error(c.Request.Context(), "Failed to clear cart", "session_id", sessionID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, nil)
}

// BuildOrderRequest 构造订单提交载荷
func (h *CartHandler) BuildOrderRequest(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req orderRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payload, err := h.app.BuildOrderRequest(c.Request.Context(), sessionID, domain.OrderLocation{
		Origin:             req.Origin,
		Destination:        req.Destination,
		PickupCoordinates:  req.PickupCoordinates,
		DropoffCoordinates: req.DropoffCoordinates,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to build order request", "session_id", sessionID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, payload)
}
