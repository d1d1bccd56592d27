package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/deliveryhub/internal/order/application"
	"github.com/wyfcoding/deliveryhub/internal/order/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
	"github.com/wyfcoding/deliveryhub/pkg/response"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	app *application.OrderApplicationService
}

// NewOrderHandler 创建订单 HTTP 处理器实例
func NewOrderHandler(app *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *OrderHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/orders")
	{
		api.POST("", h.SubmitOrder)
		api.GET("", h.ListOrders)
		api.GET("/:id", h.GetOrder)
		api.POST("/:id/cancel", h.CancelOrder)
	}
}

// submitOrderRequest 与购物车投影出的提交载荷同构
type submitOrderRequest struct {
	SessionID          string            `json:"session_id" binding:"required"`
	OrderItems         []submitOrderItem `json:"order_items" binding:"required"`
	PickupCoordinates  []float64         `json:"pickup_coordinates"`
	DropoffCoordinates []float64         `json:"dropoff_coordinates"`
	Distance           float64           `json:"distance"`
	RequireDelivery    bool              `json:"require_delivery"`
	Duration           string            `json:"duration"`
	Origin             string            `json:"origin"`
	Destination        string            `json:"destination"`
	AdditionalInfo     string            `json:"additional_info"`
}

type submitOrderItem struct {
	VendorID string `json:"vendor_id" binding:"required"`
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// SubmitOrder 受理订单提交
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	items := make([]application.SubmitOrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, application.SubmitOrderItem{
			VendorID: item.VendorID,
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		})
	}

	cmd := application.SubmitOrderCommand{
		SessionID:          req.SessionID,
		Items:              items,
		PickupCoordinates:  normalizeCoordinates(req.PickupCoordinates),
		DropoffCoordinates: normalizeCoordinates(req.DropoffCoordinates),
		Distance:           req.Distance,
		RequireDelivery:    req.RequireDelivery,
		Duration:           req.Duration,
		Origin:             req.Origin,
		Destination:        req.Destination,
		AdditionalInfo:     req.AdditionalInfo,
	}

	order, err := h.app.SubmitOrder(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyOrder) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to submit order", "session_id", req.SessionID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, order)
}

// GetOrder 查询订单
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	order, err := h.app.GetOrder(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get order", "id", id, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, order)
}

// ListOrders 查询会话订单列表
func (h *OrderHandler) ListOrders(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "session_id is required", "")
		return
	}

	orders, err := h.app.ListOrders(c.Request.Context(), sessionID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "session_id", sessionID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, orders)
}

// CancelOrder 取消订单
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	if err := h.app.CancelOrder(c.Request.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		case errors.Is(err, domain.ErrInvalidTransition):
			response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
		default:
			logger.Error(c.Request.Context(), "Failed to cancel order", "id", id, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		}
		return
	}

	response.Success(c, nil)
}

func normalizeCoordinates(coords []float64) [2]float64 {
	if len(coords) < 2 {
		return [2]float64{0, 0}
	}
	return [2]float64{coords[0], coords[1]}
}
