package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtflow/facility-booking-backend/internal/pkg/request"
	"github.com/courtflow/facility-booking-backend/internal/pkg/response"
	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
)

type Handler struct {
	service pricing.Service
	engine  *pricing.Engine
}

func NewHandler(service pricing.Service, engine *pricing.Engine) *Handler {
	return &Handler{service: service, engine: engine}
}

func badRequestError(err error) bool {
	return errors.Is(err, pricing.ErrEmptyName) ||
		errors.Is(err, pricing.ErrInvalidRuleType) ||
		errors.Is(err, pricing.ErrInvalidModifier) ||
		errors.Is(err, pricing.ErrInvalidScope) ||
		errors.Is(err, pricing.ErrInvalidDay) ||
		errors.Is(err, timewindow.ErrBadTimeFormat)
}

func (h *Handler) List(c *gin.Context) {
	var req ListRulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	rules, total, err := h.service.List(c.Request.Context(), pricing.Filter{
		Type:     req.Type,
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// Active lists the enabled rules in evaluation order, so clients can show
// customers which adjustments currently stack and in what sequence.
func (h *Handler) Active(c *gin.Context) {
	rules, err := h.engine.ActiveRules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i, r := range rules {
		items[i] = NewResponse(r)
	}

	c.JSON(http.StatusOK, gin.H{"rules": items})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	rule, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if errors.Is(err, pricing.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(rule))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rule, err := h.service.Create(c.Request.Context(), pricing.CreateRuleRequest{
		Name:           body.Name,
		Description:    body.Description,
		Type:           body.Type,
		StartTime:      body.StartTime,
		EndTime:        body.EndTime,
		ApplicableDays: body.ApplicableDays,
		SpecificDates:  body.SpecificDates,
		ModifierType:   body.ModifierType,
		ModifierValue:  body.ModifierValue,
		AppliesTo:      body.AppliesTo,
		Priority:       body.Priority,
		IsActive:       body.IsActive,
	})
	if err != nil {
		if badRequestError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(rule))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateRuleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	rule, err := h.service.Update(c.Request.Context(), uri.ID, pricing.UpdateRuleRequest{
		Name:           body.Name,
		Description:    body.Description,
		Type:           body.Type,
		StartTime:      body.StartTime,
		EndTime:        body.EndTime,
		ApplicableDays: body.ApplicableDays,
		SpecificDates:  body.SpecificDates,
		ModifierType:   body.ModifierType,
		ModifierValue:  body.ModifierValue,
		AppliesTo:      body.AppliesTo,
		Priority:       body.Priority,
		IsActive:       body.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case badRequestError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(rule))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		if errors.Is(err, pricing.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
