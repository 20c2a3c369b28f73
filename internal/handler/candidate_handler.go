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

// CandidateHandler exposes candidate endpoints.
type CandidateHandler struct {
	candidates *service.CandidateService
	cache      *service.CacheService
}

// NewCandidateHandler constructs CandidateHandler.
func NewCandidateHandler(candidates *service.CandidateService, cache *service.CacheService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, cache: cache}
}

// List godoc
// @Summary List candidates
// @Tags Candidates
// @Produce json
// @Param search query string false "Search by name"
// @Param role query string false "Filter by role type"
// @Param city query string false "Filter by city"
// @Param status query string false "Filter by status"
// @Param qualified query bool false "Filter by qualification"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	var filter models.CandidateFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.RoleType = c.Query("role")
	filter.City = c.Query("city")
	filter.Status = c.Query("status")
	if qualified := c.Query("qualified"); qualified != "" {
		v := qualified == "true"
		filter.Qualified = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	candidates, pagination, err := h.candidates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, candidates, pagination)
}

// Get godoc
// @Summary Get candidate detail
// @Tags Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} response.Envelope
// @Router /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	candidate, err := h.candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{"whatsapp_link": service.WhatsAppLink(candidate)}
	response.JSON(c, http.StatusOK, candidate, nil, meta)
}

// Create godoc
// @Summary Register candidate
// @Tags Candidates
// @Accept json
// @Produce json
// @Param payload body service.CreateCandidateRequest true "Candidate payload"
// @Success 201 {object} response.Envelope
// @Router /candidates [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	var req service.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	candidate, err := h.candidates.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.Created(c, candidate)
}

// Update godoc
// @Summary Update candidate
// @Tags Candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param payload body service.UpdateCandidateRequest true "Candidate payload"
// @Success 200 {object} response.Envelope
// @Router /candidates/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	var req service.UpdateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	candidate, err := h.candidates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.JSON(c, http.StatusOK, candidate, nil)
}

// Delete godoc
// @Summary Delete candidate
// @Tags Candidates
// @Param id path string true "Candidate ID"
// @Success 204
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	if err := h.candidates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.NoContent(c)
}
