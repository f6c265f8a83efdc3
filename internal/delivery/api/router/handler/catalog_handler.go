package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the public product and category listings.
type CatalogHandler struct {
	catalogUC usecase.CatalogUsecase
}

// NewCatalogHandler is the constructor for CatalogHandler
func NewCatalogHandler(catalogUC usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC}
}

// ListProducts handles GET /api/v1/products.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filter, err := productFilterQuery(c)
	if err != nil {
		return err
	}

	result, err := h.catalogUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogUC.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// ListCategories handles GET /api/v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.catalogUC.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories)
}

// productFilterQuery reads ?category_id=&min_price=&max_price=&search=&sort_by=&sort_order=&page=&limit=.
func productFilterQuery(c echo.Context) (entity.ProductFilter, error) {
	var (
		filter entity.ProductFilter
		err    error
	)

	if filter.Page, err = pageQuery(c); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = optionalUUIDQuery(c, "category_id"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = optionalDecimalQuery(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalDecimalQuery(c, "max_price"); err != nil {
		return filter, err
	}
	filter.Search = c.QueryParam("search")
	filter.SortBy = c.QueryParam("sort_by")
	filter.SortDesc = c.QueryParam("sort_order") == "desc"

	return filter, nil
}
