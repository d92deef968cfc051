package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foolclub/boleta-api/internal/domain"
	"github.com/foolclub/boleta-api/internal/export"
)

// SelectAlbumRequest carries the album to rate. A null or empty id clears
// the sheet.
type SelectAlbumRequest struct {
	AlbumID string `json:"albumId"`
}

// RateTrackRequest carries a partial per-track rating update. Fields left
// null are not touched.
type RateTrackRequest struct {
	Score       *int  `json:"score"`
	Favorite    *int  `json:"favorite"`
	Highlighted *bool `json:"isHighlighted"`
}

// AlbumScoreRequest carries the raw album-score text as typed.
type AlbumScoreRequest struct {
	Value string `json:"value"`
}

// AlbumStampRequest carries the stamp to apply. An empty stamp clears it.
type AlbumStampRequest struct {
	Stamp string `json:"stamp"`
}

// SidebarRequest sets the sidebar open state.
type SidebarRequest struct {
	Open bool `json:"open"`
}

// SidebarResponse reports the sidebar open state.
type SidebarResponse struct {
	Open bool `json:"open"`
}

// SelectRatingAlbum loads an album into the caller's rating sheet,
// resetting all previous rating state.
//
//	@Summary		Select album for rating
//	@Tags			rating
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectAlbumRequest	true	"Album selection"
//	@Success		200		{object}	rating.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/rating/album [put]
func (h *Handler) SelectRatingAlbum(c *gin.Context) {
	var req SelectAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	token := c.GetString(sessionKey)
	if req.AlbumID == "" {
		h.rating.SelectAlbum(token, nil)
		c.JSON(http.StatusOK, h.rating.Snapshot(token))
		return
	}

	album, err := h.collections.Album(c.Request.Context(), req.AlbumID)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_error",
			Message: err.Error(),
		})
		return
	}

	h.rating.SelectAlbum(token, album)
	c.JSON(http.StatusOK, h.rating.Snapshot(token))
}

// RatingSheet returns the caller's current rating sheet.
//
//	@Summary		Get rating sheet
//	@Tags			rating
//	@Produce		json
//	@Success		200	{object}	rating.Snapshot
//	@Security		BearerAuth
//	@Router			/api/v1/rating [get]
func (h *Handler) RatingSheet(c *gin.Context) {
	c.JSON(http.StatusOK, h.rating.Snapshot(c.GetString(sessionKey)))
}

// RateTrack applies a partial rating update to one track. Out-of-range
// values and unknown track ids are dropped silently, mirroring how the
// sheet absorbs stray input.
//
//	@Summary		Rate a track
//	@Tags			rating
//	@Accept			json
//	@Produce		json
//	@Param			trackId	path		string				true	"Track id"
//	@Param			request	body		RateTrackRequest	true	"Rating update"
//	@Success		200		{object}	rating.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/rating/track/{trackId} [put]
func (h *Handler) RateTrack(c *gin.Context) {
	var req RateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	token := c.GetString(sessionKey)
	trackID := c.Param("trackId")
	if req.Score != nil {
		h.rating.SetTrackScore(token, trackID, *req.Score)
	}
	if req.Favorite != nil {
		h.rating.SetTrackFavorite(token, trackID, *req.Favorite)
	}
	if req.Highlighted != nil {
		h.rating.SetTrackHighlight(token, trackID, *req.Highlighted)
	}
	c.JSON(http.StatusOK, h.rating.Snapshot(token))
}

// SetAlbumScore records the album score as typed. Text that does not read
// as a score between 1.0 and 10 is dropped; empty text clears the score.
//
//	@Summary		Set album score
//	@Tags			rating
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AlbumScoreRequest	true	"Score text"
//	@Success		200		{object}	rating.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/rating/score [put]
func (h *Handler) SetAlbumScore(c *gin.Context) {
	var req AlbumScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	token := c.GetString(sessionKey)
	h.rating.SetAlbumScoreInput(token, req.Value)
	c.JSON(http.StatusOK, h.rating.Snapshot(token))
}

// SetAlbumStamp applies or clears the album stamp.
//
//	@Summary		Set album stamp
//	@Tags			rating
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AlbumStampRequest	true	"Stamp"
//	@Success		200		{object}	rating.Snapshot
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/rating/stamp [put]
func (h *Handler) SetAlbumStamp(c *gin.Context) {
	var req AlbumStampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	token := c.GetString(sessionKey)
	if req.Stamp == "" {
		h.rating.SetAlbumStamp(token, "")
		c.JSON(http.StatusOK, h.rating.Snapshot(token))
		return
	}

	stamp := domain.Stamp(req.Stamp)
	if !stamp.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: fmt.Sprintf("unknown stamp %q", req.Stamp),
		})
		return
	}

	h.rating.SetAlbumStamp(token, stamp)
	c.JSON(http.StatusOK, h.rating.Snapshot(token))
}

// ToggleBraveStamp flips the valiente stamp on the caller's sheet.
//
//	@Summary		Toggle brave stamp
//	@Tags			rating
//	@Produce		json
//	@Success		200	{object}	rating.Snapshot
//	@Security		BearerAuth
//	@Router			/api/v1/rating/brave [post]
func (h *Handler) ToggleBraveStamp(c *gin.Context) {
	token := c.GetString(sessionKey)
	h.rating.ToggleBraveStamp(token)
	c.JSON(http.StatusOK, h.rating.Snapshot(token))
}

// ExportBoleta renders the caller's boleta and delivers it as a JPEG
// download. The export is gated until the sheet has an album, a stamp
// and an album score.
//
//	@Summary		Export boleta
//	@Tags			export
//	@Produce		image/jpeg
//	@Success		200	{file}		file
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/rating/export [get]
func (h *Handler) ExportBoleta(c *gin.Context) {
	cert, ok := h.rating.Certificate(c.GetString(sessionKey))
	if !ok {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "export_gated",
			Message: "boleta needs an album, a stamp and an album score",
		})
		return
	}

	var buf bytes.Buffer
	filename, err := h.pipeline.Export(c.Request.Context(), cert, &buf)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "export_failed",
			Message: err.Error(),
		})
		return
	}
	if filename == "" {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "renderer_unavailable",
			Message: "render slot is not mounted",
		})
		return
	}

	serveAttachment(c, filename, "image/jpeg", buf.Bytes())
}

// BlankBoleta renders an unrated boleta template for an album.
//
//	@Summary		Export blank boleta
//	@Tags			export
//	@Produce		image/jpeg
//	@Param			id	path		string	true	"Album id"
//	@Success		200	{file}		file
//	@Failure		502	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/albums/{id}/boleta [get]
func (h *Handler) BlankBoleta(c *gin.Context) {
	album, err := h.collections.Album(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "catalog_error",
			Message: err.Error(),
		})
		return
	}

	data, err := h.pipeline.Capture(c.Request.Context(), domain.BlankCertificate(album))
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "export_failed",
			Message: err.Error(),
		})
		return
	}
	if data == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "renderer_unavailable",
			Message: "render slot is not mounted",
		})
		return
	}

	serveAttachment(c, export.BlankFilename(album.Name), "image/jpeg", data)
}

// BillboardBoletas exports every boleta of a billboard as one zip archive.
//
//	@Summary		Export billboard boletas
//	@Tags			export
//	@Produce		application/zip
//	@Param			uuid	path		string	true	"Billboard uuid"
//	@Success		200		{file}		file
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard/{uuid}/boletas [get]
func (h *Handler) BillboardBoletas(c *gin.Context) {
	h.exportCollection(c, domain.KindBillboard, c.Param("uuid"))
}

// ReviewBoletas exports every boleta of a review collection as one zip
// archive.
//
//	@Summary		Export review boletas
//	@Tags			export
//	@Produce		application/zip
//	@Param			uuid	path		string	true	"Review uuid"
//	@Success		200		{file}		file
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/review/{uuid}/boletas [get]
func (h *Handler) ReviewBoletas(c *gin.Context) {
	h.exportCollection(c, domain.KindReview, c.Param("uuid"))
}

func (h *Handler) exportCollection(c *gin.Context, kind domain.CollectionKind, uuid string) {
	source, err := h.kinds.Get(kind)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
		return
	}

	col, err := source.CollectionByUUID(c.Request.Context(), uuid)
	if err != nil {
		h.collectionError(c, err)
		return
	}

	var buf bytes.Buffer
	filename, err := h.batch.ExportCollection(c.Request.Context(), *col, &buf)
	if err != nil {
		if errors.Is(err, export.ErrBusy) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "export_busy",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "export_failed",
			Message: err.Error(),
		})
		return
	}

	serveAttachment(c, filename, "application/zip", buf.Bytes())
}

// SidebarState returns the shared sidebar open state.
//
//	@Summary		Get sidebar state
//	@Tags			ui
//	@Produce		json
//	@Success		200	{object}	SidebarResponse
//	@Security		BearerAuth
//	@Router			/api/v1/ui/sidebar [get]
func (h *Handler) SidebarState(c *gin.Context) {
	c.JSON(http.StatusOK, SidebarResponse{Open: h.sidebar.Open()})
}

// SetSidebarState sets the shared sidebar open state.
//
//	@Summary		Set sidebar state
//	@Tags			ui
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SidebarRequest	true	"Sidebar state"
//	@Success		200		{object}	SidebarResponse
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/ui/sidebar [put]
func (h *Handler) SetSidebarState(c *gin.Context) {
	var req SidebarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}
	h.sidebar.SetOpen(req.Open)
	c.JSON(http.StatusOK, SidebarResponse{Open: h.sidebar.Open()})
}

// ToggleSidebar flips the shared sidebar open state.
//
//	@Summary		Toggle sidebar
//	@Tags			ui
//	@Produce		json
//	@Success		200	{object}	SidebarResponse
//	@Security		BearerAuth
//	@Router			/api/v1/ui/sidebar/toggle [post]
func (h *Handler) ToggleSidebar(c *gin.Context) {
	c.JSON(http.StatusOK, SidebarResponse{Open: h.sidebar.Toggle()})
}

func serveAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
