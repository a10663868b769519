package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

// DepositHandler exposes the deposit ledger to back-office operators.
type DepositHandler struct {
	deposits ports.DepositRepository
}

func NewDepositHandler(deposits ports.DepositRepository) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

type listDepositsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	UserID   int64  `query:"user_id" validate:"omitempty,gt=0"`
	DateFrom string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Limit    int    `query:"limit" validate:"omitempty,gt=0,max=500"`
	Offset   int    `query:"offset" validate:"omitempty,gte=0"`
}

type listDepositsResponse struct {
	Deposits []*domain.DepositRecord `json:"deposits"`
	Count    int                     `json:"count"`
}

// List returns ledger rows matching the query filter, newest first.
func (h *DepositHandler) List(c echo.Context) error {
	if _, err := ctxRole(c); err != nil {
		return err
	}

	var req listDepositsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filter := ports.ListDepositsFilter{
		Status: domain.DepositStatus(req.Status),
		UserID: req.UserID,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 100
	}
	if req.DateFrom != "" {
		filter.DateFrom, _ = time.Parse("2006-01-02", req.DateFrom)
	}
	if req.DateTo != "" {
		// Inclusive upper bound: the whole named day.
		day, _ := time.Parse("2006-01-02", req.DateTo)
		filter.DateTo = day.Add(24*time.Hour - time.Nanosecond)
	}

	rows, err := h.deposits.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listDepositsResponse{Deposits: rows, Count: len(rows)})
}

// Stats returns the aggregated ledger totals.
func (h *DepositHandler) Stats(c echo.Context) error {
	if _, err := ctxRole(c); err != nil {
		return err
	}

	stats, err := h.deposits.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
