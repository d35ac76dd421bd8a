package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reviewhub/backend/internal/infrastructure/devport"
)

// DevPortHandler exposes the development port-settings file over HTTP so the
// local frontend can discover which port the backend picked.
type DevPortHandler struct {
	BaseHandler
	store *devport.Store
}

// NewDevPortHandler creates a new DevPortHandler
func NewDevPortHandler(store *devport.Store) *DevPortHandler {
	return &DevPortHandler{
		store: store,
	}
}

// SetPortRequest represents a request to persist the development port
type SetPortRequest struct {
	Port int `json:"port" binding:"required,min=1024,max=65535"`
}

// Get returns the currently persisted development port.
func (h *DevPortHandler) Get(c *gin.Context) {
	h.Success(c, h.store.Get())
}

// Set persists a new development port.
func (h *DevPortHandler) Set(c *gin.Context) {
	var req SetPortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	settings, err := h.store.Set(req.Port)
	if err != nil {
		h.InternalError(c, "Unable to persist port settings")
		return
	}

	h.Success(c, settings)
}
