package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"eco-route-go/internal/client"
	"eco-route-go/internal/health"
	"eco-route-go/internal/model"
	"eco-route-go/internal/repository"
	"eco-route-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIHandler serves the JSON routing API
type APIHandler struct {
	routeService     *service.RouteService
	emissionsService *service.EmissionsService
	historyService   *service.HistoryService
	monitor          *health.Monitor
	logger           *logrus.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(
	routeService *service.RouteService,
	emissionsService *service.EmissionsService,
	historyService *service.HistoryService,
	monitor *health.Monitor,
	logger *logrus.Logger,
) *APIHandler {
	return &APIHandler{
		routeService:     routeService,
		emissionsService: emissionsService,
		historyService:   historyService,
		monitor:          monitor,
		logger:           logger,
	}
}

// RegisterRoutes registers the API routes
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/routes", h.FindRoutes)
		api.POST("/emissions-details", h.EmissionsDetails)
		api.GET("/searches", h.ListSearches)
		api.GET("/searches/:id", h.GetSearch)
		api.DELETE("/searches/:id", h.DeleteSearch)
		api.GET("/health", h.CheckHealth)
	}
}

// FindRoutes returns route alternatives with their estimated emissions
func (h *APIHandler) FindRoutes(c *gin.Context) {
	var request model.RouteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithError(err).Warn("Invalid route request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.routeService.FindRoutes(c.Request.Context(), request)
	if err != nil {
		h.logger.WithError(err).Error("Route search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// detailsBody accepts both spellings of the vehicle type key.
type detailsBody struct {
	Route            model.Route `json:"route"`
	VehicleType      string      `json:"vehicle_type"`
	VehicleTypeCamel string      `json:"vehicleType"`
	Mode             string      `json:"mode"`
}

// EmissionsDetails proxies a detailed report request to the emissions function
func (h *APIHandler) EmissionsDetails(c *gin.Context) {
	if !h.emissionsService.Configured() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Emissions function URL not configured"})
		return
	}

	var body detailsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.WithError(err).Warn("Invalid emissions request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	request := model.EmissionsDetailsRequest{
		Route:       body.Route,
		VehicleType: body.VehicleType,
		Mode:        body.Mode,
	}
	if request.VehicleType == "" {
		request.VehicleType = body.VehicleTypeCamel
	}

	report, err := h.emissionsService.Details(c.Request.Context(), request)
	if err != nil {
		var upstream *client.UpstreamError
		switch {
		case errors.As(err, &upstream):
			h.logger.WithField("status", upstream.StatusCode).Error("Emissions function returned an error")
			c.JSON(upstream.StatusCode, gin.H{
				"error":       upstream.Error(),
				"status_code": upstream.StatusCode,
			})
		case errors.Is(err, client.ErrEmissionsNotConfigured):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Emissions function URL not configured"})
		default:
			h.logger.WithError(err).Error("Detailed emissions request failed")
			cause := errors.Unwrap(err)
			if cause == nil {
				cause = err
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Failed to get detailed emissions: %v", cause),
			})
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", report)
}

// ListSearches returns stored searches with pagination
func (h *APIHandler) ListSearches(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	searches, total, err := h.historyService.List(page, size)
	if err != nil {
		h.historyError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.ListSearchesResponse{
		Searches: searches,
		Total:    total,
		Page:     page,
		Size:     size,
	})
}

// GetSearch returns one stored search
func (h *APIHandler) GetSearch(c *gin.Context) {
	search, err := h.historyService.Get(c.Param("id"))
	if err != nil {
		h.historyError(c, err)
		return
	}

	c.JSON(http.StatusOK, search)
}

// DeleteSearch removes one stored search
func (h *APIHandler) DeleteSearch(c *gin.Context) {
	if err := h.historyService.Delete(c.Param("id")); err != nil {
		h.historyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Search deleted"})
}

func (h *APIHandler) historyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search history is disabled"})
	case errors.Is(err, repository.ErrSearchNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Search not found"})
	default:
		h.logger.WithError(err).Error("Search history request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to access search history"})
	}
}

// CheckHealth reports the status of the service and its dependencies
func (h *APIHandler) CheckHealth(c *gin.Context) {
	report := h.monitor.Check(c.Request.Context())
	if report.Status != health.StatusHealthy {
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}

	c.JSON(http.StatusOK, report)
}
