package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/deliveryhub/internal/delivery/application"
	"github.com/wyfcoding/deliveryhub/internal/delivery/domain"
	"github.com/wyfcoding/deliveryhub/pkg/logger"
	"github.com/wyfcoding/deliveryhub/pkg/response"
)

// DeliveryHandler 配送发现 HTTP 处理器
type DeliveryHandler struct {
	filter     *application.DeliveryFilterService
	candidates *application.CandidateQueryService
}

// NewDeliveryHandler 创建配送发现 HTTP 处理器实例
func NewDeliveryHandler(
	filter *application.DeliveryFilterService,
	candidates *application.CandidateQueryService,
) *DeliveryHandler {
	return &DeliveryHandler{filter: filter, candidates: candidates}
}

// RegisterRoutes 注册路由
func (h *DeliveryHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/deliveries")
	{
		api.GET("", h.ListDeliveries)
		api.GET("/status", h.FilterStatus)
		api.POST("/candidates", h.SaveCandidate)
	}
}

// ListDeliveries 按用户位置筛选配送候选。
// lat/lng 缺失或 permission=false 时返回空列表。
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	permission := c.DefaultQuery("permission", "true") == "true"

	var userLocation *domain.Coordinate
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid coordinates", "")
			return
		}
		userLocation = &domain.Coordinate{Lat: lat, Lng: lng}
	}

	candidates, err := h.candidates.ListActive(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list candidates", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	ranked, err := h.filter.Filter(c.Request.Context(), application.FilterQuery{
		UserLocation:       userLocation,
		LocationPermission: permission,
		Candidates:         candidates,
		Search:             c.Query("q"),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Delivery filter failed", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "delivery filter failed", "")
		return
	}

	response.Success(c, ranked)
}

// FilterStatus 查询筛选在途状态
func (h *DeliveryHandler) FilterStatus(c *gin.Context) {
	response.Success(c, gin.H{"in_flight": h.filter.InFlight()})
}

type saveCandidateRequest struct {
	VendorID      string   `json:"vendor_id" binding:"required"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	PickupLat     *float64 `json:"pickup_lat"`
	PickupLng     *float64 `json:"pickup_lng"`
	DurationLabel string   `json:"duration_label"`
	Active        *bool    `json:"active"`
}

// SaveCandidate 保存候选刊登
func (h *DeliveryHandler) SaveCandidate(c *gin.Context) {
	var req saveCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	candidate := domain.Candidate{
		VendorID:      req.VendorID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		DurationLabel: req.DurationLabel,
		Active:        true,
	}
	if req.Active != nil {
		candidate.Active = *req.Active
	}

	if err := h.candidates.SaveCandidate(c.Request.Context(), &candidate); err != nil {
		logger.Error(c.Request.Context(), "Failed to save candidate", "vendor_id", req.VendorID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, candidate)
}
