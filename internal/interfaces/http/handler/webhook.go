package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	outreachapp "github.com/reviewhub/backend/internal/application/outreach"
	"github.com/reviewhub/backend/internal/interfaces/http/middleware"
)

// Shopify webhook headers
const (
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderWebhookID  = "X-Shopify-Webhook-Id"
)

// WebhookHandler handles incoming Shopify webhooks. Order webhooks feed the
// review request queue; the privacy webhooks implement the mandatory GDPR
// endpoints every public app must expose.
type WebhookHandler struct {
	BaseHandler
	webhookService *outreachapp.OrderWebhookService
	privacyService *outreachapp.PrivacyService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	webhookService *outreachapp.OrderWebhookService,
	privacyService *outreachapp.PrivacyService,
) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		privacyService: privacyService,
	}
}

// privacyPayload is the body Shopify posts to the GDPR webhooks
type privacyPayload struct {
	ShopDomain string `json:"shop_domain"`
	Customer   struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"customer"`
}

// OrderUpdated godoc
// @ID           orderUpdatedWebhook
//
//	@Summary		Shopify orders/updated webhook
//	@Description	Schedules a review request when the order carries the shop's
//	@Description	delivery tag. HMAC verification happens in middleware.
//	@Tags			webhooks
//	@Accept			json
//	@Success		200	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Router			/webhooks/orders/updated [post]
func (h *WebhookHandler) OrderUpdated(c *gin.Context) {
	shop := c.GetHeader(HeaderShopDomain)
	if shop == "" {
		h.BadRequest(c, "Missing shop domain header")
		return
	}

	body := middleware.GetWebhookBody(c)
	webhookID := c.GetHeader(HeaderWebhookID)

	if err := h.webhookService.ProcessOrderUpdated(c.Request.Context(), shop, webhookID, body); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true})
}

// TestOrderUpdated godoc
// @ID           testOrderUpdatedWebhook
//
//	@Summary		Simulate an orders/updated webhook
//	@Description	Development endpoint that runs the webhook pipeline for the
//	@Description	authenticated shop without HMAC verification.
//	@Tags			webhooks
//	@Accept			json
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/test/order-updated [post]
func (h *WebhookHandler) TestOrderUpdated(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	if err := h.webhookService.ProcessOrderUpdated(c.Request.Context(), shop, "", body); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"received": true})
}

// CustomersDataRequest godoc
// @ID           customersDataRequestWebhook
//
//	@Summary		Shopify customers/data_request webhook
//	@Description	Reports how much data the app holds for the customer
//	@Tags			webhooks
//	@Accept			json
//	@Success		200	{object}	dto.Response
//	@Router			/webhooks/customers/data-request [post]
func (h *WebhookHandler) CustomersDataRequest(c *gin.Context) {
	payload, ok := h.bindPrivacyPayload(c)
	if !ok {
		return
	}

	report, err := h.privacyService.CustomerDataRequest(c.Request.Context(), payload.ShopDomain, payload.Customer.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// CustomersRedact godoc
// @ID           customersRedactWebhook
//
//	@Summary		Shopify customers/redact webhook
//	@Description	Erases the customer's reviews and review requests
//	@Tags			webhooks
//	@Accept			json
//	@Success		200	{object}	dto.Response
//	@Router			/webhooks/customers/redact [post]
func (h *WebhookHandler) CustomersRedact(c *gin.Context) {
	payload, ok := h.bindPrivacyPayload(c)
	if !ok {
		return
	}

	report, err := h.privacyService.CustomerErasure(c.Request.Context(), payload.ShopDomain, payload.Customer.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ShopRedact godoc
// @ID           shopRedactWebhook
//
//	@Summary		Shopify shop/redact webhook
//	@Description	Erases every record the app holds for the shop
//	@Tags			webhooks
//	@Accept			json
//	@Success		200	{object}	dto.Response
//	@Router			/webhooks/shop/redact [post]
func (h *WebhookHandler) ShopRedact(c *gin.Context) {
	payload, ok := h.bindPrivacyPayload(c)
	if !ok {
		return
	}

	report, err := h.privacyService.EraseShop(c.Request.Context(), payload.ShopDomain)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

func (h *WebhookHandler) bindPrivacyPayload(c *gin.Context) (*privacyPayload, bool) {
	body := middleware.GetWebhookBody(c)

	var payload privacyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.BadRequest(c, "Invalid payload")
		return nil, false
	}

	if payload.ShopDomain == "" {
		payload.ShopDomain = c.GetHeader(HeaderShopDomain)
	}
	if payload.ShopDomain == "" {
		h.BadRequest(c, "Missing shop domain")
		return nil, false
	}

	return &payload, true
}
