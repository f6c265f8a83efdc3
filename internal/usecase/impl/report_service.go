package impl

import (
	"context"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// reportService implements the ReportUsecase interface.
type reportService struct {
	reportRepo repository.ReportRepository
	config     *config.Config
	logger     *slog.Logger
}

// NewReportService is the constructor for reportService.
func NewReportService(reportRepo repository.ReportRepository, cfg *config.Config, logger *slog.Logger) usecase.ReportUsecase {
	return &reportService{
		reportRepo: reportRepo,
		config:     cfg,
		logger:     logger,
	}
}

func validateDateRange(dateRange entity.DateRange) error {
	if dateRange.IsSet() && dateRange.From.After(dateRange.To) {
		return domainerrors.NewValidationError("startDate must not be after endDate")
	}

	return nil
}

func (srv *reportService) SalesByCategory(ctx context.Context, dateRange entity.DateRange) ([]*entity.CategorySales, error) {
	if err := validateDateRange(dateRange); err != nil {
		return nil, err
	}

	rows, err := srv.reportRepo.SalesByCategory(ctx, dateRange)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Error("Sales by category report failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to build sales by category report")
	}

	return rows, nil
}

func (srv *reportService) TopSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error) {
	if err := validateDateRange(dateRange); err != nil {
		return nil, err
	}

	rows, err := srv.reportRepo.TopSellingProducts(ctx, dateRange, reportLimit(srv.config, limit))
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Error("Top selling report failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to build top selling products report")
	}

	return rows, nil
}

func (srv *reportService) WorstSellingProducts(ctx context.Context, dateRange entity.DateRange, limit int) ([]*entity.ProductSales, error) {
	if err := validateDateRange(dateRange); err != nil {
		return nil, err
	}

	rows, err := srv.reportRepo.WorstSellingProducts(ctx, dateRange, reportLimit(srv.config, limit))
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Error("Worst selling report failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to build worst selling products report")
	}

	return rows, nil
}
