package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/service"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// BackupHandler exposes backup and restore endpoints.
type BackupHandler struct {
	backups *service.BackupService
}

// NewBackupHandler constructs BackupHandler.
func NewBackupHandler(backups *service.BackupService) *BackupHandler {
	return &BackupHandler{backups: backups}
}

type createBackupRequest struct {
	Compress bool `json:"compress"`
}

// Create godoc
// @Summary Create backup
// @Tags Backups
// @Accept json
// @Produce json
// @Param payload body createBackupRequest false "Backup options"
// @Success 201 {object} response.Envelope
// @Router /backups [post]
func (h *BackupHandler) Create(c *gin.Context) {
	var req createBackupRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	info, err := h.backups.Create(c.Request.Context(), req.Compress)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, info)
}

// List godoc
// @Summary List backups
// @Tags Backups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	infos, err := h.backups.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, infos, nil)
}

type restoreRequest struct {
	Tables []string `json:"tables"`
}

// Restore godoc
// @Summary Restore backup
// @Tags Backups
// @Accept json
// @Produce json
// @Param id path string true "Backup ID"
// @Param payload body restoreRequest false "Table subset"
// @Success 200 {object} response.Envelope
// @Router /backups/{id}/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	var req restoreRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	report, err := h.backups.Restore(c.Request.Context(), c.Param("id"), req.Tables)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
