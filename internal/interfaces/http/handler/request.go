package handler

import (
	"github.com/gin-gonic/gin"

	outreachapp "github.com/reviewhub/backend/internal/application/outreach"
)

// RequestHandler handles the scheduled review request listing
type RequestHandler struct {
	BaseHandler
	requestService *outreachapp.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *outreachapp.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// List godoc
// @ID           listReviewRequests
//
//	@Summary		List scheduled review requests
//	@Description	Returns the shop's review request queue with status filtering
//	@Tags			review-requests
//	@Produce		json
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			status		query		string	false	"Filter by status (pending, sent, partially-sent, failed)"
//	@Success		200			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/review-requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var filter outreachapp.RequestListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	requests, total, err := h.requestService.List(c.Request.Context(), shop, filter)
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
	h.SuccessWithMeta(c, requests, total, page, pageSize)
}
