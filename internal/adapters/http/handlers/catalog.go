package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotevault/internal/adapters/http/dto"
	"quotevault/internal/app"
)

// CatalogHandler handles category catalog endpoints.
type CatalogHandler struct {
	catalog *app.Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *app.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CategoriesResponse lists the known categories alongside the current
// selection.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Selected   string   `json:"selected"`
}

// SelectedCategoryResponse carries the selected category.
type SelectedCategoryResponse struct {
	Selected string `json:"selected"`
}

// SetSelectedCategoryRequest is the request body for changing the selection.
type SetSelectedCategoryRequest struct {
	Category string `json:"category" validate:"required,notempty,max=100"`
}

// ListCategories handles GET /api/v1/categories.
// The distinct category list and the current selection come from
// independent reads, so they are gathered concurrently.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories, selected, err := app.Parallel2(ctx,
		func(ctx context.Context) ([]string, error) {
			return h.catalog.Categories(ctx), nil
		},
		func(ctx context.Context) (string, error) {
			return h.catalog.Selected(ctx)
		},
	)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, CategoriesResponse{
		Categories: categories,
		Selected:   selected,
	})
}

// GetSelectedCategory handles GET /api/v1/categories/selected.
func (h *CatalogHandler) GetSelectedCategory(c *gin.Context) {
	selected, err := h.catalog.Selected(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SelectedCategoryResponse{Selected: selected})
}

// SetSelectedCategory handles PUT /api/v1/categories/selected.
func (h *CatalogHandler) SetSelectedCategory(c *gin.Context) {
	var req SetSelectedCategoryRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		if dto.IsValidationError(err) {
			dto.HandleValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "invalid request body")

		return
	}

	err = h.catalog.SetSelected(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SelectedCategoryResponse{Selected: req.Category})
}

// RegisterRoutes registers catalog routes on the given router group.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/selected", h.GetSelectedCategory)
	categories.PUT("/selected", h.SetSelectedCategory)
}
