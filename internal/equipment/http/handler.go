package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtflow/facility-booking-backend/internal/equipment"
	"github.com/courtflow/facility-booking-backend/internal/pkg/request"
	"github.com/courtflow/facility-booking-backend/internal/pkg/response"
)

type Handler struct {
	service equipment.Service
}

func NewHandler(service equipment.Service) *Handler {
	return &Handler{service: service}
}

func badRequestError(err error) bool {
	return errors.Is(err, equipment.ErrEmptyName) ||
		errors.Is(err, equipment.ErrInvalidType) ||
		errors.Is(err, equipment.ErrNegativeQuantity) ||
		errors.Is(err, equipment.ErrNegativePrice)
}

func (h *Handler) List(c *gin.Context) {
	var req ListEquipmentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := equipment.Filter{
		Type:     req.Type,
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]EquipmentResponse, len(items))
	for i, e := range items {
		out[i] = NewResponse(e)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, equipment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(e))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateEquipmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	e, err := h.service.Create(c.Request.Context(), equipment.CreateRequest{
		Name:          body.Name,
		Type:          body.Type,
		Description:   body.Description,
		TotalQuantity: body.TotalQuantity,
		PricePerHour:  body.PricePerHour,
		ImageID:       body.ImageID,
	})
	if err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(e))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	e, err := h.service.Update(c.Request.Context(), uri.ID, equipment.UpdateRequest{
		Name:          body.Name,
		Type:          body.Type,
		Description:   body.Description,
		TotalQuantity: body.TotalQuantity,
		PricePerHour:  body.PricePerHour,
		ImageID:       body.ImageID,
		IsActive:      body.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, equipment.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case badRequestError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(e))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		if errors.Is(err, equipment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
