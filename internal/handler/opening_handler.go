package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/internal/service"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// OpeningHandler exposes job opening endpoints.
type OpeningHandler struct {
	openings *service.OpeningService
	cache    *service.CacheService
}

// NewOpeningHandler constructs OpeningHandler.
func NewOpeningHandler(openings *service.OpeningService, cache *service.CacheService) *OpeningHandler {
	return &OpeningHandler{openings: openings, cache: cache}
}

// List godoc
// @Summary List openings
// @Tags Openings
// @Produce json
// @Param search query string false "Search by title"
// @Param role query string false "Filter by role type"
// @Param city query string false "Filter by city"
// @Param status query string false "Filter by detailed status"
// @Param urgent query bool false "Filter by urgency"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /openings [get]
func (h *OpeningHandler) List(c *gin.Context) {
	var filter models.OpeningFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.RoleType = c.Query("role")
	filter.City = c.Query("city")
	filter.Status = c.Query("status")
	if raw := c.Query("urgent"); raw != "" {
		if urgent, err := strconv.ParseBool(raw); err == nil {
			filter.Urgent = &urgent
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	openings, pagination, err := h.openings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, openings, pagination)
}

// Get godoc
// @Summary Get opening detail
// @Tags Openings
// @Produce json
// @Param id path string true "Opening ID"
// @Success 200 {object} response.Envelope
// @Router /openings/{id} [get]
func (h *OpeningHandler) Get(c *gin.Context) {
	opening, err := h.openings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opening, nil)
}

// Create godoc
// @Summary Register opening
// @Tags Openings
// @Accept json
// @Produce json
// @Param payload body service.CreateOpeningRequest true "Opening payload"
// @Success 201 {object} response.Envelope
// @Router /openings [post]
func (h *OpeningHandler) Create(c *gin.Context) {
	var req service.CreateOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	opening, err := h.openings.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.Created(c, opening)
}

// Update godoc
// @Summary Update opening
// @Tags Openings
// @Accept json
// @Produce json
// @Param id path string true "Opening ID"
// @Param payload body service.UpdateOpeningRequest true "Opening payload"
// @Success 200 {object} response.Envelope
// @Router /openings/{id} [put]
func (h *OpeningHandler) Update(c *gin.Context) {
	var req service.UpdateOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	opening, err := h.openings.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.JSON(c, http.StatusOK, opening, nil)
}

type updateOpeningStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary Update opening status
// @Tags Openings
// @Accept json
// @Produce json
// @Param id path string true "Opening ID"
// @Param payload body updateOpeningStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /openings/{id}/status [patch]
func (h *OpeningHandler) UpdateStatus(c *gin.Context) {
	var req updateOpeningStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	opening, err := h.openings.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, currentUsername(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.JSON(c, http.StatusOK, opening, nil)
}

// Delete godoc
// @Summary Delete opening
// @Tags Openings
// @Param id path string true "Opening ID"
// @Success 204
// @Router /openings/{id} [delete]
func (h *OpeningHandler) Delete(c *gin.Context) {
	if err := h.openings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.NoContent(c)
}

// ListNotes godoc
// @Summary List opening notes
// @Tags Openings
// @Produce json
// @Param id path string true "Opening ID"
// @Success 200 {object} response.Envelope
// @Router /openings/{id}/notes [get]
func (h *OpeningHandler) ListNotes(c *gin.Context) {
	notes, err := h.openings.ListNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// AddNote godoc
// @Summary Add opening note
// @Tags Openings
// @Accept json
// @Produce json
// @Param id path string true "Opening ID"
// @Param payload body service.AddNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Router /openings/{id}/notes [post]
func (h *OpeningHandler) AddNote(c *gin.Context) {
	var req service.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Author == "" {
		req.Author = currentUsername(c)
	}
	note, err := h.openings.AddNote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}
