package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foolclub/boleta-api/internal/domain"
)

const sessionKey = "session"

// LoginRequest carries the admin credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the session token issued on a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login authenticates the club admin and issues a session token.
//
//	@Summary		Log in
//	@Description	Validates the admin credentials and returns a bearer token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid credentials",
		})
		return
	}

	now := time.Now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		Username:  req.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}
	if err := h.sessions.CreateSession(c.Request.Context(), session); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "session_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout deletes the current session and drops its rating sheet.
//
//	@Summary		Log out
//	@Tags			auth
//	@Produce		json
//	@Success		204
//	@Security		BearerAuth
//	@Router			/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(sessionKey)
	if err := h.sessions.DeleteSession(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "session_error",
			Message: err.Error(),
		})
		return
	}
	h.rating.Drop(token)
	c.Status(http.StatusNoContent)
}

// SpotifyToken hands the catalog access token to the client.
//
//	@Summary		Get catalog token
//	@Description	Returns a short lived Spotify access token for the web player.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	domain.CatalogToken
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/spotify/token [get]
func (h *Handler) SpotifyToken(c *gin.Context) {
	token, err := h.catalog.Token(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, token)
}

// RequireAuth validates the bearer token and stores it in the request context.
func (h *Handler) RequireAuth(c *gin.Context) {
	token := extractToken(c.GetHeader("Authorization"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "missing bearer token",
		})
		return
	}

	session, err := h.sessions.SessionByToken(c.Request.Context(), token)
	if err != nil || session == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid or expired session",
		})
		return
	}

	c.Set(sessionKey, session.Token)
	c.Next()
}

func extractToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
