package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	AdminUC usecase.AdminUsecase
}

// AdminHandler serves the back-office catalog and account management.
type AdminHandler struct {
	adminUC usecase.AdminUsecase
}

// NewAdminHandler is the constructor for AdminHandler
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{adminUC: params.AdminUC}
}

// CategoryRequest creates a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateCategoryRequest changes a category; omitted fields stay untouched.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// CreateProductRequest creates a product.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price" validate:"gte=0"`
	Stock          int             `json:"stock" validate:"min=0"`
	CategoryID     uuid.UUID       `json:"category_id" validate:"required"`
	Brand          string          `json:"brand" validate:"omitempty,max=100"`
	Images         []string        `json:"images" validate:"omitempty,dive,required,max=2048"`
	Specifications map[string]any  `json:"specifications"`
}

// UpdateProductRequest changes a product; omitted fields stay untouched.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Stock          *int             `json:"stock" validate:"omitempty,min=0"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	Brand          *string          `json:"brand" validate:"omitempty,max=100"`
	Images         []string         `json:"images" validate:"omitempty,dive,required,max=2048"`
	Specifications map[string]any   `json:"specifications"`
	IsActive       *bool            `json:"is_active"`
}

// UpdateUserRequest is the admin edit of an account.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active"`
}

// --- Categories ---

// ListCategories handles GET /api/v1/admin/categories, inactive ones included.
func (h *AdminHandler) ListCategories(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	result, err := h.adminUC.ListCategories(c.Request().Context(), entity.CategoryFilter{
		Search:          c.QueryParam("search"),
		IncludeInactive: true,
		Page:            page,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.adminUC.CreateCategory(c.Request().Context(), &usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	categoryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.adminUC.UpdateCategory(c.Request().Context(), categoryID, &usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, category)
}

// DeleteCategory refuses with 409 while products still reference the category.
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	categoryID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminUC.DeleteCategory(c.Request().Context(), categoryID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// --- Products ---

// ListProducts handles GET /api/v1/admin/products, inactive ones included.
func (h *AdminHandler) ListProducts(c echo.Context) error {
	filter, err := productFilterQuery(c)
	if err != nil {
		return err
	}
	filter.IncludeInactive = true

	result, err := h.adminUC.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.adminUC.CreateProduct(c.Request().Context(), &usecase.CreateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		CategoryID:     req.CategoryID,
		Brand:          req.Brand,
		Images:         req.Images,
		Specifications: req.Specifications,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.adminUC.UpdateProduct(c.Request().Context(), productID, &usecase.UpdateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		Stock:          req.Stock,
		CategoryID:     req.CategoryID,
		Brand:          req.Brand,
		Images:         req.Images,
		Specifications: req.Specifications,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product)
}

// DeleteProduct deactivates the product; order history keeps referencing it.
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	productID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminUC.DeleteProduct(c.Request().Context(), productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Product deactivated"})
}

// --- Users ---

func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	result, err := h.adminUC.ListUsers(c.Request().Context(), entity.UserFilter{
		Search: c.QueryParam("search"),
		Role:   entity.Role(c.QueryParam("role")),
		Page:   page,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

func (h *AdminHandler) GetUser(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.adminUC.GetUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := &usecase.UpdateUserInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := entity.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.adminUC.UpdateUser(c.Request().Context(), caller, userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user)
}

// DeactivateUser disables the account and revokes its sessions.
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
	caller, err := callerOf(c)
	if err != nil {
		return err
	}

	userID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminUC.DeactivateUser(c.Request().Context(), caller, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "User deactivated"})
}

func (h *AdminHandler) UserStats(c echo.Context) error {
	stats, err := h.adminUC.UserStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats)
}
