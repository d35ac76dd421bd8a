package handler

import (
	"github.com/gin-gonic/gin"

	outreachapp "github.com/reviewhub/backend/internal/application/outreach"
)

// SettingsHandler handles review request automation settings endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *outreachapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *outreachapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get godoc
// @ID           getAutomationSettings
//
//	@Summary		Get automation settings
//	@Description	Returns the shop's review request automation settings. Shops
//	@Description	that have never saved settings get the defaults.
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), shop)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// Update godoc
// @ID           updateAutomationSettings
//
//	@Summary		Update automation settings
//	@Description	Partially updates the shop's automation settings. Omitted
//	@Description	fields keep their stored values.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		outreachapp.UpdateSettingsRequest	true	"Settings update"
//	@Success		200		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var req outreachapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), shop, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}
