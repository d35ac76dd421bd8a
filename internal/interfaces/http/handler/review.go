package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reviewapp "github.com/reviewhub/backend/internal/application/review"
	"github.com/reviewhub/backend/internal/interfaces/http/dto"
)

// ReviewHandler handles review submission and moderation API endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// storefrontShop resolves the shop for unauthenticated widget endpoints.
// The widget has no session token, so the shop travels as a query param.
func storefrontShop(c *gin.Context) (string, bool) {
	shop := c.Query("shop")
	return shop, shop != ""
}

// Submit godoc
// @ID           submitReview
//
//	@Summary		Submit a product review
//	@Description	Accepts a review from the storefront widget. Reviews start unapproved.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			shop	query		string						true	"Shop domain"
//	@Param			request	body		reviewapp.SubmitReviewRequest	true	"Review submission"
//	@Success		201		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/public/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	shop, ok := storefrontShop(c)
	if !ok {
		h.BadRequest(c, "Missing shop parameter")
		return
	}

	var req reviewapp.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.reviewService.Submit(c.Request.Context(), shop, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ProductReviews godoc
// @ID           listProductReviews
//
//	@Summary		List approved reviews for a product
//	@Description	Returns approved reviews with the rating summary. Products in a
//	@Description	group pool reviews across every product in that group.
//	@Tags			reviews
//	@Produce		json
//	@Param			shop		query		string	true	"Shop domain"
//	@Param			product_id	path		string	true	"Shopify product ID"
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	dto.Response
//	@Router			/public/products/{product_id}/reviews [get]
func (h *ReviewHandler) ProductReviews(c *gin.Context) {
	shop, ok := storefrontShop(c)
	if !ok {
		h.BadRequest(c, "Missing shop parameter")
		return
	}

	productID := c.Param("product_id")
	if productID == "" {
		h.BadRequest(c, "Missing product ID")
		return
	}

	list := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, total, err := h.reviewService.ProductReviews(c.Request.Context(), shop, productID, list.Page, list.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp, total, list.Page, list.PageSize)
}

// List godoc
// @ID           listReviews
//
//	@Summary		List reviews for moderation
//	@Description	Returns reviews for the authenticated shop with filtering and pagination
//	@Tags			reviews
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			approved	query		bool	false	"Filter by approval state"
//	@Param			rating		query		int		false	"Filter by rating"
//	@Param			product_id	query		string	false	"Filter by product"
//	@Param			search		query		string	false	"Search in review text and customer name"
//	@Success		200			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var filter reviewapp.ReviewListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	reviews, total, err := h.reviewService.List(c.Request.Context(), shop, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, reviews, total, page, pageSize)
}

// Stats godoc
// @ID           reviewStats
//
//	@Summary		Review statistics
//	@Description	Returns total, approved, pending counts and the average rating
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/reviews/stats [get]
func (h *ReviewHandler) Stats(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	stats, err := h.reviewService.Stats(c.Request.Context(), shop)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Approve godoc
// @ID           approveReview
//
//	@Summary		Approve a review
//	@Tags			reviews
//	@Produce		json
//	@Param			id	path		string	true	"Review ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.setApproval(c, true)
}

// Unapprove godoc
// @ID           unapproveReview
//
//	@Summary		Revoke approval of a review
//	@Tags			reviews
//	@Produce		json
//	@Param			id	path		string	true	"Review ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/reviews/{id}/unapprove [post]
func (h *ReviewHandler) Unapprove(c *gin.Context) {
	h.setApproval(c, false)
}

func (h *ReviewHandler) setApproval(c *gin.Context, approved bool) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var resp *reviewapp.ReviewResponse
	if approved {
		resp, err = h.reviewService.Approve(c.Request.Context(), shop, uri.UUID())
	} else {
		resp, err = h.reviewService.Unapprove(c.Request.Context(), shop, uri.UUID())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteReview
//
//	@Summary		Delete a review
//	@Tags			reviews
//	@Param			id	path	string	true	"Review ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), shop, uri.UUID()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ExportCSV godoc
// @ID           exportReviews
//
//	@Summary		Export all reviews as CSV
//	@Tags			reviews
//	@Produce		text/csv
//	@Success		200	{string}	string	"CSV file"
//	@Security		BearerAuth
//	@Router			/admin/reviews/export [get]
func (h *ReviewHandler) ExportCSV(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	data, err := h.reviewService.ExportCSV(c.Request.Context(), shop)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("reviews-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
