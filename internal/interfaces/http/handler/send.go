package handler

import (
	"github.com/gin-gonic/gin"

	outreachapp "github.com/reviewhub/backend/internal/application/outreach"
)

// SendHandler handles test sends, provider checks and manual queue processing
type SendHandler struct {
	BaseHandler
	sendService *outreachapp.SendService
}

// NewSendHandler creates a new SendHandler
func NewSendHandler(sendService *outreachapp.SendService) *SendHandler {
	return &SendHandler{
		sendService: sendService,
	}
}

// TestEmail godoc
// @ID           sendTestEmail
//
//	@Summary		Send a test review request email
//	@Description	Sends a sample review request email to the given address using
//	@Description	the shop's configured provider.
//	@Tags			outreach
//	@Accept			json
//	@Produce		json
//	@Param			request	body		outreachapp.TestEmailRequest	true	"Recipient"
//	@Success		200		{object}	dto.Response
//	@Failure		502		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/outreach/test-email [post]
func (h *SendHandler) TestEmail(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var req outreachapp.TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.sendService.SendTestEmail(c.Request.Context(), shop, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outreachapp.ToSendResultResponse(result))
}

// TestWhatsApp godoc
// @ID           sendTestWhatsApp
//
//	@Summary		Send a test review request WhatsApp message
//	@Tags			outreach
//	@Accept			json
//	@Produce		json
//	@Param			request	body		outreachapp.TestWhatsAppRequest	true	"Recipient phone"
//	@Success		200		{object}	dto.Response
//	@Failure		502		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/outreach/test-whatsapp [post]
func (h *SendHandler) TestWhatsApp(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var req outreachapp.TestWhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.sendService.SendTestWhatsApp(c.Request.Context(), shop, req.Phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outreachapp.ToSendResultResponse(result))
}

// TestEmailConnection godoc
// @ID           testEmailConnection
//
//	@Summary		Verify the email provider credentials
//	@Tags			outreach
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Failure		502	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/outreach/test-email-connection [post]
func (h *SendHandler) TestEmailConnection(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	if err := h.sendService.TestEmailConnection(c.Request.Context(), shop); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"connected": true})
}

// TestWhatsAppConnection godoc
// @ID           testWhatsAppConnection
//
//	@Summary		Verify the WhatsApp provider credentials
//	@Tags			outreach
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Failure		502	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/outreach/test-whatsapp-connection [post]
func (h *SendHandler) TestWhatsAppConnection(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	if err := h.sendService.TestWhatsAppConnection(c.Request.Context(), shop); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"connected": true})
}

// ProcessPending godoc
// @ID           processPendingRequests
//
//	@Summary		Process the shop's due review requests now
//	@Description	Sends every due pending request for the shop without waiting
//	@Description	for the background poller.
//	@Tags			outreach
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/outreach/process-pending [post]
func (h *SendHandler) ProcessPending(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	processed, err := h.sendService.ProcessPendingForShop(c.Request.Context(), shop)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outreachapp.ProcessPendingResponse{Processed: processed})
}
