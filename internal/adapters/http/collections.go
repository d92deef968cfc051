package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foolclub/boleta-api/internal/adapters/store"
	"github.com/foolclub/boleta-api/internal/collections"
	"github.com/foolclub/boleta-api/internal/domain"
)

// CreateBillboard schedules a new weekly billboard.
//
//	@Summary		Create billboard
//	@Tags			billboard
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.BillboardPayload	true	"Billboard"
//	@Success		201		{object}	domain.Billboard
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard [post]
func (h *Handler) CreateBillboard(c *gin.Context) {
	var payload domain.BillboardPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	billboard, err := h.collections.CreateBillboard(c.Request.Context(), payload)
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, billboard)
}

// ListBillboards returns every scheduled billboard.
//
//	@Summary		List billboards
//	@Tags			billboard
//	@Produce		json
//	@Success		200	{array}	domain.Billboard
//	@Security		BearerAuth
//	@Router			/api/v1/billboard [get]
func (h *Handler) ListBillboards(c *gin.Context) {
	billboards, err := h.collections.Billboards(c.Request.Context())
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, billboards)
}

// ActiveBillboard returns the billboard currently on display.
//
//	@Summary		Get active billboard
//	@Tags			billboard
//	@Produce		json
//	@Success		200	{object}	domain.Billboard
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard/active [get]
func (h *Handler) ActiveBillboard(c *gin.Context) {
	billboard, err := h.collections.ActiveBillboard(c.Request.Context())
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, billboard)
}

// BillboardByUUID returns one billboard with hydrated album data.
//
//	@Summary		Get billboard
//	@Tags			billboard
//	@Produce		json
//	@Param			uuid	path		string	true	"Billboard uuid"
//	@Success		200		{object}	domain.Billboard
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard/{uuid} [get]
func (h *Handler) BillboardByUUID(c *gin.Context) {
	billboard, err := h.collections.BillboardByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, billboard)
}

// UpdateBillboard replaces a billboard's dates and album line-up.
//
//	@Summary		Update billboard
//	@Tags			billboard
//	@Accept			json
//	@Produce		json
//	@Param			uuid	path		string					true	"Billboard uuid"
//	@Param			request	body		domain.BillboardPayload	true	"Billboard"
//	@Success		200		{object}	domain.Billboard
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard/{uuid} [put]
func (h *Handler) UpdateBillboard(c *gin.Context) {
	var payload domain.BillboardPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	billboard, err := h.collections.UpdateBillboard(c.Request.Context(), c.Param("uuid"), payload)
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, billboard)
}

// DeleteBillboard removes a billboard.
//
//	@Summary		Delete billboard
//	@Tags			billboard
//	@Param			uuid	path	string	true	"Billboard uuid"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard/{uuid} [delete]
func (h *Handler) DeleteBillboard(c *gin.Context) {
	if err := h.collections.DeleteBillboard(c.Request.Context(), c.Param("uuid")); err != nil {
		h.collectionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActivateBillboard puts a billboard on display and retires the rest.
//
//	@Summary		Activate billboard
//	@Tags			billboard
//	@Produce		json
//	@Param			uuid	path		string	true	"Billboard uuid"
//	@Success		200		{object}	domain.Billboard
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/billboard/activate/{uuid} [post]
func (h *Handler) ActivateBillboard(c *gin.Context) {
	billboard, err := h.collections.ActivateBillboard(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, billboard)
}

// CreateReview schedules a new review friday collection.
//
//	@Summary		Create review collection
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			request	body		domain.ReviewPayload	true	"Review"
//	@Success		201		{object}	domain.Review
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/review [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var payload domain.ReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	review, err := h.collections.CreateReview(c.Request.Context(), payload)
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListReviews returns every review collection.
//
//	@Summary		List review collections
//	@Tags			review
//	@Produce		json
//	@Success		200	{array}	domain.Review
//	@Security		BearerAuth
//	@Router			/api/v1/review [get]
func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.collections.Reviews(c.Request.Context())
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// ReviewByUUID returns one review collection with hydrated album data.
//
//	@Summary		Get review collection
//	@Tags			review
//	@Produce		json
//	@Param			uuid	path		string	true	"Review uuid"
//	@Success		200		{object}	domain.Review
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/review/{uuid} [get]
func (h *Handler) ReviewByUUID(c *gin.Context) {
	review, err := h.collections.ReviewByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// UpdateReview replaces a review collection's dates and album line-up.
//
//	@Summary		Update review collection
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			uuid	path		string					true	"Review uuid"
//	@Param			request	body		domain.ReviewPayload	true	"Review"
//	@Success		200		{object}	domain.Review
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/review/{uuid} [put]
func (h *Handler) UpdateReview(c *gin.Context) {
	var payload domain.ReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	review, err := h.collections.UpdateReview(c.Request.Context(), c.Param("uuid"), payload)
	if err != nil {
		h.collectionError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview removes a review collection.
//
//	@Summary		Delete review collection
//	@Tags			review
//	@Param			uuid	path	string	true	"Review uuid"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/v1/review/{uuid} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.collections.DeleteReview(c.Request.Context(), c.Param("uuid")); err != nil {
		h.collectionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// collectionError maps storage and validation errors to HTTP responses.
func (h *Handler) collectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, collections.ErrInvalidDates):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
