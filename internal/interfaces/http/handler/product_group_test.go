package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	reviewapp "github.com/reviewhub/backend/internal/application/review"
	"github.com/reviewhub/backend/internal/domain/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/interfaces/http/dto"
)

func newProductGroupHandlerFixture() (*ProductGroupHandler, *MockProductGroupRepository, *MockReviewRepository) {
	groupRepo := new(MockProductGroupRepository)
	reviewRepo := new(MockReviewRepository)
	svc := reviewapp.NewProductGroupService(groupRepo, reviewRepo, stubSummaryCache{}, nil)
	return NewProductGroupHandler(svc), groupRepo, reviewRepo
}

func testGroup(t *testing.T, name string, productIDs []string) *review.ProductGroup {
	t.Helper()
	g, err := review.NewProductGroup(testShop, name, "Pools reviews across variants", productIDs)
	require.NoError(t, err)
	return g
}

func TestProductGroupHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("creates group and assigns reviews", func(t *testing.T) {
		h, groupRepo, reviewRepo := newProductGroupHandlerFixture()
		groupRepo.On("FindByProduct", mock.Anything, testShop, "111").Return(nil, shared.ErrNotFound)
		groupRepo.On("FindByProduct", mock.Anything, testShop, "222").Return(nil, shared.ErrNotFound)
		groupRepo.On("Save", mock.Anything, mock.MatchedBy(func(g *review.ProductGroup) bool {
			return g.Shop == testShop && g.Name == "Color variants" &&
				g.Description == "All colorways of the classic tee" && len(g.ProductIDs) == 2
		})).Return(nil)
		reviewRepo.On("AssignGroupByProducts", mock.Anything, testShop, mock.Anything, []string{"111", "222"}).Return(int64(3), nil)

		body, _ := json.Marshal(gin.H{
			"name":        "Color variants",
			"description": "All colorways of the classic tee",
			"product_ids": []string{"111", "222"},
		})
		w := httptest.NewRecorder()
		c, _ := authedContext(w, http.MethodPost, "/admin/product-groups", body)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "All colorways of the classic tee", data["description"])
		groupRepo.AssertExpectations(t)
		reviewRepo.AssertExpectations(t)
	})

	t.Run("rejects product already in another group", func(t *testing.T) {
		h, groupRepo, reviewRepo := newProductGroupHandlerFixture()
		existing := testGroup(t, "Existing", []string{"111"})
		groupRepo.On("FindByProduct", mock.Anything, testShop, "111").Return(existing, nil)

		body, _ := json.Marshal(gin.H{
			"name":        "New group",
			"product_ids": []string{"111"},
		})
		w := httptest.NewRecorder()
		c, _ := authedContext(w, http.MethodPost, "/admin/product-groups", body)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
		groupRepo.AssertNotCalled(t, "Save")
		reviewRepo.AssertNotCalled(t, "AssignGroupByProducts")
	})

	t.Run("rejects empty product set", func(t *testing.T) {
		h, groupRepo, _ := newProductGroupHandlerFixture()

		body, _ := json.Marshal(gin.H{
			"name":        "No products",
			"product_ids": []string{},
		})
		w := httptest.NewRecorder()
		c, _ := authedContext(w, http.MethodPost, "/admin/product-groups", body)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		groupRepo.AssertNotCalled(t, "Save")
	})
}

func TestProductGroupHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns group", func(t *testing.T) {
		h, groupRepo, _ := newProductGroupHandlerFixture()
		group := testGroup(t, "Color variants", []string{"111", "222"})
		groupRepo.On("FindByIDForShop", mock.Anything, testShop, group.ID).Return(group, nil)

		w := httptest.NewRecorder()
		c, _ := authedContext(w, http.MethodGet, "/admin/product-groups/"+group.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: group.ID.String()}}

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, "Color variants", data["name"])
		assert.Equal(t, "Pools reviews across variants", data["description"])
	})

	t.Run("unknown group returns not found", func(t *testing.T) {
		h, groupRepo, _ := newProductGroupHandlerFixture()
		id := "0e2ac396-2c45-4f49-b425-3ebbd50e2c09"
		groupRepo.On("FindByIDForShop", mock.Anything, testShop, mock.Anything).Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		c, _ := authedContext(w, http.MethodGet, "/admin/product-groups/"+id, nil)
		c.Params = gin.Params{{Key: "id", Value: id}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductGroupHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, groupRepo, _ := newProductGroupHandlerFixture()
	group := testGroup(t, "Color variants", []string{"111"})
	groupRepo.On("FindAllForShop", mock.Anything, testShop, mock.Anything).Return([]review.ProductGroup{*group}, nil)
	groupRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodGet, "/admin/product-groups?page=1&page_size=20", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestProductGroupHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, groupRepo, reviewRepo := newProductGroupHandlerFixture()
	group := testGroup(t, "Color variants", []string{"111"})
	groupRepo.On("FindByIDForShop", mock.Anything, testShop, group.ID).Return(group, nil)
	groupRepo.On("FindByProduct", mock.Anything, testShop, "333").Return(nil, shared.ErrNotFound)
	groupRepo.On("Save", mock.Anything, mock.MatchedBy(func(g *review.ProductGroup) bool {
		return g.Name == "Renamed" && g.Description == "Now covers the fall lineup" &&
			len(g.ProductIDs) == 1 && g.ProductIDs[0] == "333"
	})).Return(nil)
	reviewRepo.On("ClearGroupAssignments", mock.Anything, testShop, group.ID).Return(int64(2), nil)
	reviewRepo.On("AssignGroupByProducts", mock.Anything, testShop, group.ID, []string{"333"}).Return(int64(1), nil)

	body, _ := json.Marshal(gin.H{
		"name":        "Renamed",
		"description": "Now covers the fall lineup",
		"product_ids": []string{"333"},
	})
	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPut, "/admin/product-groups/"+group.ID.String(), body)
	c.Params = gin.Params{{Key: "id", Value: group.ID.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	groupRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestProductGroupHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h, groupRepo, reviewRepo := newProductGroupHandlerFixture()
	group := testGroup(t, "Color variants", []string{"111"})
	groupRepo.On("FindByIDForShop", mock.Anything, testShop, group.ID).Return(group, nil)
	reviewRepo.On("ClearGroupAssignments", mock.Anything, testShop, group.ID).Return(int64(2), nil)
	groupRepo.On("Delete", mock.Anything, group.ID).Return(nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodDelete, "/admin/product-groups/"+group.ID.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: group.ID.String()}}

	h.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	groupRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestProductGroupHandler_LookupProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("grouped product reports its group", func(t *testing.T) {
		h, groupRepo, _ := newProductGroupHandlerFixture()
		group := testGroup(t, "Color variants", []string{"111", "222"})
		groupRepo.On("FindByProduct", mock.Anything, testShop, "111").Return(group, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/public/products/111/group?shop="+testShop, nil)
		c.Params = gin.Params{{Key: "product_id", Value: "111"}}

		h.LookupProduct(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["has_group"])
	})

	t.Run("ungrouped product reports no group", func(t *testing.T) {
		h, groupRepo, _ := newProductGroupHandlerFixture()
		groupRepo.On("FindByProduct", mock.Anything, testShop, "999").Return(nil, shared.ErrNotFound)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/public/products/999/group?shop="+testShop, nil)
		c.Params = gin.Params{{Key: "product_id", Value: "999"}}

		h.LookupProduct(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]any)
		assert.Equal(t, false, data["has_group"])
	})

	t.Run("missing shop rejected", func(t *testing.T) {
		h, groupRepo, _ := newProductGroupHandlerFixture()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/public/products/111/group", nil)
		c.Params = gin.Params{{Key: "product_id", Value: "111"}}

		h.LookupProduct(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		groupRepo.AssertNotCalled(t, "FindByProduct")
	})
}
