package impl

import (
	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
)

const (
	defaultMaxOrderItems  = 50
	defaultReportLimit    = 10
	defaultMaxReportLimit = 100
)

// normalizePage clamps a page request into the configured pagination bounds.
func normalizePage(cfg *config.Config, page entity.Page) entity.Page {
	defaultLimit, maxLimit := constants.DefaultPageLimit, constants.MaxPageLimit
	if cfg != nil && cfg.Pagination != nil {
		if cfg.Pagination.DefaultLimit > 0 {
			defaultLimit = cfg.Pagination.DefaultLimit
		}
		if cfg.Pagination.MaxLimit > 0 {
			maxLimit = cfg.Pagination.MaxLimit
		}
	}

	return page.Normalize(defaultLimit, maxLimit)
}

func maxOrderItems(cfg *config.Config) int {
	if cfg != nil && cfg.Orders != nil && cfg.Orders.MaxItems > 0 {
		return cfg.Orders.MaxItems
	}

	return defaultMaxOrderItems
}

// reportLimit clamps limit into [1, reports.maxLimit]; zero or less selects the default.
func reportLimit(cfg *config.Config, limit int) int {
	defaultLimit, maxLimit := defaultReportLimit, defaultMaxReportLimit
	if cfg != nil && cfg.Reports != nil {
		if cfg.Reports.DefaultLimit > 0 {
			defaultLimit = cfg.Reports.DefaultLimit
		}
		if cfg.Reports.MaxLimit > 0 {
			maxLimit = cfg.Reports.MaxLimit
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	return min(max(limit, 1), maxLimit)
}
