package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/service"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// FichaHandler serves generated ficha PDFs.
type FichaHandler struct {
	fichas *service.FichaService
}

// NewFichaHandler constructs FichaHandler.
func NewFichaHandler(fichas *service.FichaService) *FichaHandler {
	return &FichaHandler{fichas: fichas}
}

// CandidateFicha godoc
// @Summary Download candidate ficha PDF
// @Tags Fichas
// @Produce application/pdf
// @Param id path string true "Candidate ID"
// @Success 200 {file} binary
// @Router /candidates/{id}/ficha [get]
func (h *FichaHandler) CandidateFicha(c *gin.Context) {
	data, filename, err := h.fichas.RenderCandidateFicha(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/pdf", data)
}

// OpeningFicha godoc
// @Summary Download opening ficha PDF
// @Tags Fichas
// @Produce application/pdf
// @Param id path string true "Opening ID"
// @Success 200 {file} binary
// @Router /openings/{id}/ficha [get]
func (h *FichaHandler) OpeningFicha(c *gin.Context) {
	data, filename, err := h.fichas.RenderOpeningFicha(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/pdf", data)
}
