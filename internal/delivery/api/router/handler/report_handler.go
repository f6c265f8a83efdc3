package handler

import (
	"context"
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ReportHandler serves the admin sales reports.
type ReportHandler struct {
	reportUC usecase.ReportUsecase
}

// NewReportHandler is the constructor for ReportHandler
func NewReportHandler(reportUC usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// SalesByCategory handles GET /api/v1/admin/reports/sales-by-category?from=&to=.
func (h *ReportHandler) SalesByCategory(c echo.Context) error {
	dateRange, err := dateRangeQuery(c)
	if err != nil {
		return err
	}

	rows, err := h.reportUC.SalesByCategory(c.Request().Context(), dateRange)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, rows)
}

// TopSellingProducts handles GET /api/v1/admin/reports/top-selling-products?from=&to=&limit=.
func (h *ReportHandler) TopSellingProducts(c echo.Context) error {
	return h.productSales(c, h.reportUC.TopSellingProducts)
}

// WorstSellingProducts handles GET /api/v1/admin/reports/worst-selling-products?from=&to=&limit=.
func (h *ReportHandler) WorstSellingProducts(c echo.Context) error {
	return h.productSales(c, h.reportUC.WorstSellingProducts)
}

type productSalesFunc func(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error)

func (h *ReportHandler) productSales(c echo.Context, run productSalesFunc) error {
	dateRange, err := dateRangeQuery(c)
	if err != nil {
		return err
	}

	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return domainerrors.NewValidationError("limit must be an integer")
	}

	rows, err := run(c.Request().Context(), dateRange, limit)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, rows)
}
