package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/rvasilyev/storefront/internal/domain/errors"
	"github.com/rvasilyev/storefront/internal/server/http/dto"
	"github.com/rvasilyev/storefront/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/user/register.
func (h *AuthHandler) Register(c *gin.Context) {
	h.issueToken(c, h.facade.Register, http.StatusBadRequest)
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	h.issueToken(c, h.facade.Authenticate, http.StatusUnauthorized)
}

// issueToken runs a credential exchange and sets the auth cookie on
// success. badCredentialsStatus distinguishes registration (400) from
// login (401).
func (h *AuthHandler) issueToken(c *gin.Context, exchange func(context.Context, string, string) (string, error), badCredentialsStatus int) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := exchange(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.Status(badCredentialsStatus)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}
