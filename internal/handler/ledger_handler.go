package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"dayzone/internal/service"
)

// LedgerHandler serves the caller's finances.
type LedgerHandler struct {
	svc service.LedgerService
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(svc service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// LedgerRequest is the body for creating or replacing a ledger entry.
// Direction is credit or debit; currency is RUB, USD or EUR.
type LedgerRequest struct {
	Counterparty string      `json:"counterparty" validate:"required,max=100"`
	Direction    string      `json:"direction" validate:"required"`
	Amount       json.Number `json:"amount" validate:"required" swaggertype:"string"`
	Currency     string      `json:"currency" validate:"required"`
	Source       string      `json:"source" validate:"required"`
}

func (r LedgerRequest) input() service.LedgerInput {
	return service.LedgerInput{
		Counterparty: r.Counterparty,
		Direction:    r.Direction,
		Amount:       r.Amount.String(),
		Currency:     r.Currency,
		Source:       r.Source,
	}
}

// List godoc
// @Summary Page through the caller's ledger
// @Tags finances
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page, from 1" default(1)
// @Param limit query int false "Page size, at most 100" default(20)
// @Param type query string false "credit or debit"
// @Param currency query string false "RUB, USD or EUR"
// @Success 200 {object} model.LedgerPage
// @Failure 400 {object} errors.ErrorResponse
// @Router /finances/operations [get]
func (h *LedgerHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", service.DefaultPageSize)
	if err != nil {
		return err
	}

	result, err := h.svc.ListPaged(c.Request().Context(), p, service.LedgerQuery{
		Page:      page,
		PageSize:  limit,
		Direction: c.QueryParam("type"),
		Currency:  c.QueryParam("currency"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get ledger entry by id
// @Tags finances
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} model.LedgerEntry
// @Failure 404 {object} errors.ErrorResponse
// @Router /finances/operations/{id} [get]
func (h *LedgerHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	entry, err := h.svc.Get(c.Request().Context(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Create godoc
// @Summary Record a ledger entry
// @Tags finances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LedgerRequest true "Entry"
// @Success 201 {object} model.LedgerEntry
// @Failure 400 {object} errors.ErrorResponse
// @Router /finances/operations [post]
func (h *LedgerHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req LedgerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Create(c.Request().Context(), p, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// Update godoc
// @Summary Replace a ledger entry
// @Tags finances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param request body LedgerRequest true "Entry"
// @Success 200 {object} model.LedgerEntry
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /finances/operations/{id} [put]
func (h *LedgerHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req LedgerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	entry, err := h.svc.Update(c.Request().Context(), p, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete a ledger entry
// @Tags finances
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /finances/operations/{id} [delete]
func (h *LedgerHandler) Delete(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "operation deleted"})
}

// Balance godoc
// @Summary Balance per currency
// @Tags finances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CurrencyBalance
// @Router /finances/balance [get]
func (h *LedgerHandler) Balance(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	balances, err := h.svc.Balance(c.Request().Context(), p)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, balances)
}

// Statistics godoc
// @Summary Totals per currency and direction
// @Tags finances
// @Produce json
// @Security BearerAuth
// @Param period query string false "week, month, year or all" default(month)
// @Success 200 {array} model.LedgerStat
// @Failure 400 {object} errors.ErrorResponse
// @Router /finances/statistics [get]
func (h *LedgerHandler) Statistics(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Statistics(c.Request().Context(), p, c.QueryParam("period"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
