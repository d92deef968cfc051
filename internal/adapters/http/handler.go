package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foolclub/boleta-api/internal/collections"
	"github.com/foolclub/boleta-api/internal/export"
	"github.com/foolclub/boleta-api/internal/ports"
	"github.com/foolclub/boleta-api/internal/rating"
	"github.com/foolclub/boleta-api/internal/uistate"
)

// Handler holds the HTTP handlers for the boleta API.
type Handler struct {
	sessions    ports.SessionStore
	catalog     ports.CatalogProvider
	collections *collections.Service
	rating      *rating.Service
	pipeline    *export.Pipeline
	batch       *export.Orchestrator
	kinds       *export.KindRegistry
	sidebar     *uistate.SidebarStore

	adminUser     string
	adminPassword string
	sessionTTL    time.Duration
}

// Options bundles the handler's collaborators.
type Options struct {
	Sessions    ports.SessionStore
	Catalog     ports.CatalogProvider
	Collections *collections.Service
	Rating      *rating.Service
	Pipeline    *export.Pipeline
	Batch       *export.Orchestrator
	Kinds       *export.KindRegistry
	Sidebar     *uistate.SidebarStore

	AdminUser     string
	AdminPassword string
	SessionTTL    time.Duration
}

// NewHandler creates the HTTP handler.
func NewHandler(opts Options) *Handler {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handler{
		sessions:      opts.Sessions,
		catalog:       opts.Catalog,
		collections:   opts.Collections,
		rating:        opts.Rating,
		pipeline:      opts.Pipeline,
		batch:         opts.Batch,
		kinds:         opts.Kinds,
		sidebar:       opts.Sidebar,
		adminUser:     opts.AdminUser,
		adminPassword: opts.AdminPassword,
		sessionTTL:    ttl,
	}
}

// RegisterRoutes sets up all API routes on the given Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.RequireAuth, h.Logout)
		auth.GET("/spotify/token", h.RequireAuth, h.SpotifyToken)
	}

	api := r.Group("/api/v1", h.RequireAuth)
	{
		api.GET("/albums/search", h.SearchAlbums)
		api.GET("/albums/:id", h.AlbumByID)
		api.GET("/albums/:id/boleta", h.BlankBoleta)

		api.POST("/billboard", h.CreateBillboard)
		api.GET("/billboard", h.ListBillboards)
		api.GET("/billboard/active", h.ActiveBillboard)
		api.GET("/billboard/:uuid", h.BillboardByUUID)
		api.PUT("/billboard/:uuid", h.UpdateBillboard)
		api.DELETE("/billboard/:uuid", h.DeleteBillboard)
		api.POST("/billboard/activate/:uuid", h.ActivateBillboard)
		api.GET("/billboard/:uuid/boletas", h.BillboardBoletas)

		api.POST("/review", h.CreateReview)
		api.GET("/review", h.ListReviews)
		api.GET("/review/:uuid", h.ReviewByUUID)
		api.PUT("/review/:uuid", h.UpdateReview)
		api.DELETE("/review/:uuid", h.DeleteReview)
		api.GET("/review/:uuid/boletas", h.ReviewBoletas)

		api.PUT("/rating/album", h.SelectRatingAlbum)
		api.GET("/rating", h.RatingSheet)
		api.PUT("/rating/track/:trackId", h.RateTrack)
		api.PUT("/rating/score", h.SetAlbumScore)
		api.PUT("/rating/stamp", h.SetAlbumStamp)
		api.POST("/rating/brave", h.ToggleBraveStamp)
		api.GET("/rating/export", h.ExportBoleta)

		api.GET("/ui/sidebar", h.SidebarState)
		api.PUT("/ui/sidebar", h.SetSidebarState)
		api.POST("/ui/sidebar/toggle", h.ToggleSidebar)
	}
}

// Health returns a simple health check response.
//
//	@Summary		Health check
//	@Description	Returns the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// SearchAlbums proxies an album search to the catalog.
//
//	@Summary		Search albums
//	@Description	Searches the music catalog for albums matching the query.
//	@Tags			albums
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{array}		domain.Album
//	@Failure		400	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/albums/search [get]
func (h *Handler) SearchAlbums(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query parameter 'q' is required",
		})
		return
	}

	albums, err := h.catalog.SearchAlbums(c.Request.Context(), query, 20)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, albums)
}

// AlbumByID returns the full album detail from the catalog.
//
//	@Summary		Get album detail
//	@Tags			albums
//	@Produce		json
//	@Param			id	path		string	true	"Album id"
//	@Success		200	{object}	domain.Album
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/albums/{id} [get]
func (h *Handler) AlbumByID(c *gin.Context) {
	album, err := h.collections.Album(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, album)
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
