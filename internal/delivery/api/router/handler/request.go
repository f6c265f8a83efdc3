// Package handler contains the echo handlers of the storefront API.
package handler

import (
	"strings"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = time.DateOnly

// callerOf returns the authenticated caller. Routes behind Authenticate always have one.
func callerOf(c echo.Context) (entity.Caller, error) {
	caller, ok := deliverycontext.GetCaller(c)
	if !ok {
		return entity.Caller{}, domainerrors.ErrInvalidToken
	}

	return caller, nil
}

// bindAndValidate decodes the request body into req and runs its validation tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.NewValidationError("malformed request body")
	}

	return errors.WithStack(c.Validate(req))
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.NewValidationError("invalid " + name)
	}

	return id, nil
}

// pageQuery reads ?page=&limit=. Normalization happens in the usecases.
func pageQuery(c echo.Context) (entity.Page, error) {
	var page entity.Page
	err := echo.QueryParamsBinder(c).
		Int("page", &page.Number).
		Int("limit", &page.Limit).
		BindError()
	if err != nil {
		return entity.Page{}, domainerrors.NewValidationError("page and limit must be integers")
	}

	return page, nil
}

func optionalUUIDQuery(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.NewValidationError("invalid " + name)
	}

	return &id, nil
}

func optionalDecimalQuery(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domainerrors.NewValidationError("invalid " + name)
	}

	return &d, nil
}

// dateRangeQuery reads ?from=&to= as dates or RFC 3339 instants.
// A bare date in "to" covers the whole day.
func dateRangeQuery(c echo.Context) (entity.DateRange, error) {
	var dateRange entity.DateRange

	from, err := parseInstant(c.QueryParam("from"), false)
	if err != nil {
		return dateRange, domainerrors.NewValidationError("invalid from date")
	}
	to, err := parseInstant(c.QueryParam("to"), true)
	if err != nil {
		return dateRange, domainerrors.NewValidationError("invalid to date")
	}
	dateRange.From, dateRange.To = from, to

	return dateRange, nil
}

func parseInstant(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errors.WithStack(err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}

	return t, nil
}
