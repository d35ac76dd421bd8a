package handler

import (
	"github.com/gin-gonic/gin"

	reviewapp "github.com/reviewhub/backend/internal/application/review"
)

// MediaHandler handles presigned upload and download URLs for review
// photos and videos
type MediaHandler struct {
	BaseHandler
	mediaService *reviewapp.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService *reviewapp.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// InitiateUpload godoc
// @ID           initiateMediaUpload
//
//	@Summary		Request a presigned upload URL for review media
//	@Description	Returns a short-lived URL the storefront widget uploads the
//	@Description	file to directly. Only image and video content types are accepted.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Param			shop	query		string								true	"Shop domain"
//	@Param			request	body		reviewapp.InitiateUploadRequest	true	"File metadata"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Router			/public/media/upload-url [post]
func (h *MediaHandler) InitiateUpload(c *gin.Context) {
	shop, ok := storefrontShop(c)
	if !ok {
		h.BadRequest(c, "Missing shop parameter")
		return
	}

	var req reviewapp.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.mediaService.InitiateUpload(c.Request.Context(), shop, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DownloadURL godoc
// @ID           mediaDownloadUrl
//
//	@Summary		Resolve a storage key to a presigned download URL
//	@Tags			media
//	@Produce		json
//	@Param			shop	query		string	true	"Shop domain"
//	@Param			key		query		string	true	"Storage key"
//	@Success		200		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Router			/public/media/download-url [get]
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	shop, ok := storefrontShop(c)
	if !ok {
		h.BadRequest(c, "Missing shop parameter")
		return
	}

	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Missing storage key")
		return
	}

	resp, err := h.mediaService.DownloadURL(c.Request.Context(), shop, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
