package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/internal/service"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// LinkHandler exposes candidate/opening process endpoints.
type LinkHandler struct {
	lifecycle *service.LifecycleService
	cache     *service.CacheService
}

// NewLinkHandler constructs LinkHandler.
func NewLinkHandler(lifecycle *service.LifecycleService, cache *service.CacheService) *LinkHandler {
	return &LinkHandler{lifecycle: lifecycle, cache: cache}
}

// List godoc
// @Summary List processes
// @Tags Processes
// @Produce json
// @Param candidateId query string false "Filter by candidate"
// @Param openingId query string false "Filter by opening"
// @Param status query string false "Filter by process status"
// @Param active query bool false "Only active processes"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /links [get]
func (h *LinkHandler) List(c *gin.Context) {
	var filter models.LinkFilter
	filter.CandidateID = c.Query("candidateId")
	filter.OpeningID = c.Query("openingId")
	filter.Status = c.Query("status")
	filter.ActiveOnly = c.Query("active") == "true"
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	links, pagination, err := h.lifecycle.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, pagination)
}

// Get godoc
// @Summary Get process detail
// @Tags Processes
// @Produce json
// @Param id path string true "Process ID"
// @Success 200 {object} response.Envelope
// @Router /links/{id} [get]
func (h *LinkHandler) Get(c *gin.Context) {
	link, err := h.lifecycle.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Create godoc
// @Summary Send candidate to opening
// @Tags Processes
// @Accept json
// @Produce json
// @Param payload body service.CreateLinkRequest true "Process payload"
// @Success 201 {object} response.Envelope
// @Router /links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var req service.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	link, err := h.lifecycle.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.Created(c, link)
}

// Update godoc
// @Summary Advance process
// @Tags Processes
// @Accept json
// @Produce json
// @Param id path string true "Process ID"
// @Param payload body service.UpdateLinkRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /links/{id} [put]
func (h *LinkHandler) Update(c *gin.Context) {
	var req service.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	link, err := h.lifecycle.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.JSON(c, http.StatusOK, link, nil)
}

// Finalize godoc
// @Summary Finalize process
// @Tags Processes
// @Accept json
// @Produce json
// @Param id path string true "Process ID"
// @Param payload body service.FinalizeLinkRequest true "Outcome payload"
// @Success 200 {object} response.Envelope
// @Router /links/{id}/finalize [post]
func (h *LinkHandler) Finalize(c *gin.Context) {
	var req service.FinalizeLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	link, err := h.lifecycle.Finalize(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.JSON(c, http.StatusOK, link, nil)
}

// ExpireSweep godoc
// @Summary Expire stale processes
// @Tags Processes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /links/expire [post]
func (h *LinkHandler) ExpireSweep(c *gin.Context) {
	expired, err := h.lifecycle.ExpireSweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if expired > 0 {
		h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	}
	response.JSON(c, http.StatusOK, gin.H{"expired": expired}, nil)
}

// Delete godoc
// @Summary Delete process
// @Tags Processes
// @Param id path string true "Process ID"
// @Success 204
// @Router /links/{id} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	if err := h.lifecycle.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.NoContent(c)
}
