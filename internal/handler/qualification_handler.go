package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/internal/service"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// QualificationHandler exposes candidate evaluation endpoints.
type QualificationHandler struct {
	qualifications *service.QualificationService
	cache          *service.CacheService
}

// NewQualificationHandler constructs QualificationHandler.
func NewQualificationHandler(qualifications *service.QualificationService, cache *service.CacheService) *QualificationHandler {
	return &QualificationHandler{qualifications: qualifications, cache: cache}
}

// Qualify godoc
// @Summary Evaluate candidate
// @Tags Qualifications
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param payload body models.QualifyRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Router /candidates/{id}/qualify [post]
func (h *QualificationHandler) Qualify(c *gin.Context) {
	var req models.QualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.EvaluatedBy == "" {
		req.EvaluatedBy = currentUsername(c)
	}
	record, err := h.qualifications.Qualify(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Invalidate(c.Request.Context(), service.CacheTagDashboard)
	response.Created(c, record)
}

// Get godoc
// @Summary Get candidate evaluation
// @Tags Qualifications
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} response.Envelope
// @Router /candidates/{id}/qualification [get]
func (h *QualificationHandler) Get(c *gin.Context) {
	record, err := h.qualifications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
