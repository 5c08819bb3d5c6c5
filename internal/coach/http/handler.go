package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtflow/facility-booking-backend/internal/coach"
	"github.com/courtflow/facility-booking-backend/internal/pkg/request"
	"github.com/courtflow/facility-booking-backend/internal/pkg/response"
	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
)

type Handler struct {
	service coach.Service
}

func NewHandler(service coach.Service) *Handler {
	return &Handler{service: service}
}

func badRequestError(err error) bool {
	return errors.Is(err, coach.ErrEmptyName) ||
		errors.Is(err, coach.ErrEmptyEmail) ||
		errors.Is(err, coach.ErrNegativeRate) ||
		errors.Is(err, coach.ErrInvalidTimeRange) ||
		errors.Is(err, timewindow.ErrBadTimeFormat)
}

func (h *Handler) List(c *gin.Context) {
	var req ListCoachesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := coach.Filter{
		Specialization: req.Specialization,
		IsActive:       req.IsActive,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}

	coaches, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CoachResponse, len(coaches))
	for i, co := range coaches {
		items[i] = NewResponse(co)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	co, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, coach.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(co))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateCoachRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	co, err := h.service.Create(c.Request.Context(), coach.CreateRequest{
		Name:           body.Name,
		Email:          body.Email,
		Phone:          body.Phone,
		Specialization: body.Specialization,
		ExperienceYrs:  body.ExperienceYrs,
		HourlyRate:     body.HourlyRate,
		Bio:            body.Bio,
		ImageID:        body.ImageID,
		Availability:   fromAvailabilityDTO(body.Availability),
	})
	if err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(co))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateCoachRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	co, err := h.service.Update(c.Request.Context(), uri.ID, coach.UpdateRequest{
		Name:           body.Name,
		Email:          body.Email,
		Phone:          body.Phone,
		Specialization: body.Specialization,
		ExperienceYrs:  body.ExperienceYrs,
		HourlyRate:     body.HourlyRate,
		Bio:            body.Bio,
		ImageID:        body.ImageID,
		IsActive:       body.IsActive,
		Availability:   fromAvailabilityDTO(body.Availability),
	})
	if err != nil {
		switch {
		case errors.Is(err, coach.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case badRequestError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(co))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		if errors.Is(err, coach.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
