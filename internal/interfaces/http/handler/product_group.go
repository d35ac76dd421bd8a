package handler

import (
	"github.com/gin-gonic/gin"

	reviewapp "github.com/reviewhub/backend/internal/application/review"
	"github.com/reviewhub/backend/internal/interfaces/http/dto"
)

// ProductGroupHandler handles product group API endpoints
type ProductGroupHandler struct {
	BaseHandler
	groupService *reviewapp.ProductGroupService
}

// NewProductGroupHandler creates a new ProductGroupHandler
func NewProductGroupHandler(groupService *reviewapp.ProductGroupService) *ProductGroupHandler {
	return &ProductGroupHandler{
		groupService: groupService,
	}
}

// Create godoc
// @ID           createProductGroup
//
//	@Summary		Create a product group
//	@Description	Groups products so their reviews are pooled on the storefront.
//	@Description	A product can belong to at most one group.
//	@Tags			product-groups
//	@Accept			json
//	@Produce		json
//	@Param			request	body		reviewapp.CreateProductGroupRequest	true	"Group creation request"
//	@Success		201		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/product-groups [post]
func (h *ProductGroupHandler) Create(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var req reviewapp.CreateProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), shop, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID godoc
// @ID           getProductGroup
//
//	@Summary		Get a product group by ID
//	@Tags			product-groups
//	@Produce		json
//	@Param			id	path		string	true	"Group ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/product-groups/{id} [get]
func (h *ProductGroupHandler) GetByID(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), shop, uri.UUID())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List godoc
// @ID           listProductGroups
//
//	@Summary		List product groups
//	@Tags			product-groups
//	@Produce		json
//	@Param			page		query		int	false	"Page number"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200			{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/product-groups [get]
func (h *ProductGroupHandler) List(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	list := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	groups, total, err := h.groupService.List(c.Request.Context(), shop, list.Page, list.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, list.Page, list.PageSize)
}

// Update godoc
// @ID           updateProductGroup
//
//	@Summary		Update a product group
//	@Description	Replaces the group's name and product membership
//	@Tags			product-groups
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Group ID"	format(uuid)
//	@Param			request	body		reviewapp.UpdateProductGroupRequest	true	"Group update request"
//	@Success		200		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Failure		409		{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/product-groups/{id} [put]
func (h *ProductGroupHandler) Update(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	var req reviewapp.UpdateProductGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), shop, uri.UUID(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete godoc
// @ID           deleteProductGroup
//
//	@Summary		Delete a product group
//	@Description	Ungroups the member products. Their reviews stay attached to
//	@Description	the individual products.
//	@Tags			product-groups
//	@Param			id	path	string	true	"Group ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/product-groups/{id} [delete]
func (h *ProductGroupHandler) Delete(c *gin.Context) {
	shop, err := getShop(c)
	if err != nil {
		h.Unauthorized(c, "Missing shop context")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid group ID")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), shop, uri.UUID()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LookupProduct godoc
// @ID           lookupProductGroup
//
//	@Summary		Look up the group for a product
//	@Description	Used by the storefront widget to decide whether to pool reviews
//	@Tags			product-groups
//	@Produce		json
//	@Param			shop		query		string	true	"Shop domain"
//	@Param			product_id	path		string	true	"Shopify product ID"
//	@Success		200			{object}	dto.Response
//	@Router			/public/products/{product_id}/group [get]
func (h *ProductGroupHandler) LookupProduct(c *gin.Context) {
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

	resp, err := h.groupService.LookupProduct(c.Request.Context(), shop, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
