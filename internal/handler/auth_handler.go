package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ro-recruiting/back-office-api/internal/models"
	"github.com/ro-recruiting/back-office-api/internal/service"
	"github.com/ro-recruiting/back-office-api/pkg/config"
	appErrors "github.com/ro-recruiting/back-office-api/pkg/errors"
	"github.com/ro-recruiting/back-office-api/pkg/response"
)

// AuthHandler exposes login/logout and the current-session endpoint.
type AuthHandler struct {
	auth *service.AuthService
	cfg  config.AuthConfig
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	if cfg.CookieName == "" {
		cfg.CookieName = "ro_recruiting_auth"
	}
	return &AuthHandler{auth: auth, cfg: cfg}
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, token, err := h.auth.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, int(h.auth.Expiration().Seconds()), "/", "", h.cfg.SecureCookie, true)
	response.JSON(c, http.StatusOK, user, nil)
}

// Logout godoc
// @Summary Log out
// @Tags Auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.SecureCookie, true)
	response.NoContent(c)
}

// Me godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}
