package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fintrack/internal/auth"
	"fintrack/internal/errors"
	"fintrack/internal/service"
)

// LedgerHandler handles transaction and dashboard endpoints. Identity is
// resolved upstream by the auth middleware.
type LedgerHandler struct {
	ledgerService service.LedgerService
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// CreateTransactionRequest represents a new ledger entry. Date is optional;
// a blank value means "now". Amount is signed: positive for income,
// negative for expenses.
type CreateTransactionRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      int64  `json:"amount"`
}

// ListTransactions godoc
// @Summary List the user's transactions, newest first
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Transaction
// @Failure 401 {object} errors.ErrorResponse
// @Router /transactions [get]
func (h *LedgerHandler) ListTransactions(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	txs, err := h.ledgerService.List(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, txs)
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction data"
// @Success 201 {object} model.Transaction
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /transactions [post]
func (h *LedgerHandler) CreateTransaction(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body"})
	}

	tx, err := h.ledgerService.Create(c.Request().Context(), userID, req.Date, req.Description, req.Category, req.Amount)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, tx)
}

// DashboardSummary godoc
// @Summary Dashboard totals for the user
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Summary
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboard/summary [get]
func (h *LedgerHandler) DashboardSummary(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrUnauthenticated)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	summary, err := h.ledgerService.Summary(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, summary)
}
