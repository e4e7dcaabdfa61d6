package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"dayzone/internal/service"
)

// WantedHandler serves the wanted list.
type WantedHandler struct {
	svc service.WantedService
}

// NewWantedHandler creates a new wanted handler.
func NewWantedHandler(svc service.WantedService) *WantedHandler {
	return &WantedHandler{svc: svc}
}

// WantedRequest is the body for creating or replacing a wanted record.
// Reward accepts a JSON number or a numeric string.
type WantedRequest struct {
	Callsign string      `json:"callsign" validate:"required,max=100"`
	FullName string      `json:"full_name" validate:"required,max=255"`
	FaceID   string      `json:"face_id" validate:"required,max=50"`
	Role     string      `json:"role" validate:"omitempty,max=50"`
	Reward   json.Number `json:"reward" validate:"required" swaggertype:"string"`
	LastSeen string      `json:"last_seen" validate:"required,max=255"`
	Reason   string      `json:"reason" validate:"required"`
	PhotoRef *string     `json:"photo_ref" validate:"omitempty,max=255"`
}

func (r WantedRequest) input() service.WantedInput {
	return service.WantedInput{
		Callsign: r.Callsign,
		FullName: r.FullName,
		FaceID:   r.FaceID,
		Role:     r.Role,
		Reward:   r.Reward.String(),
		LastSeen: r.LastSeen,
		Reason:   r.Reason,
		PhotoRef: r.PhotoRef,
	}
}

// List godoc
// @Summary List wanted records
// @Tags wanted
// @Produce json
// @Security BearerAuth
// @Param searchBy query string false "callsign, faceId or fullName"
// @Param searchTerm query string false "Case-insensitive substring"
// @Success 200 {array} model.Wanted
// @Router /wanted [get]
func (h *WantedHandler) List(c echo.Context) error {
	records, err := h.svc.List(c.Request().Context(), searchQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// Get godoc
// @Summary Get wanted record by id
// @Tags wanted
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wanted ID"
// @Success 200 {object} model.Wanted
// @Failure 404 {object} errors.ErrorResponse
// @Router /wanted/{id} [get]
func (h *WantedHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	record, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// Create godoc
// @Summary Add a wanted record
// @Tags wanted
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WantedRequest true "Wanted record"
// @Success 201 {object} model.Wanted
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /wanted [post]
func (h *WantedHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req WantedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	record, err := h.svc.Create(c.Request().Context(), p, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}

// Update godoc
// @Summary Update a wanted record
// @Tags wanted
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wanted ID"
// @Param request body WantedRequest true "Wanted record"
// @Success 200 {object} model.Wanted
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /wanted/{id} [put]
func (h *WantedHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req WantedRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	record, err := h.svc.Update(c.Request().Context(), p, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, record)
}

// Delete godoc
// @Summary Delete a wanted record
// @Tags wanted
// @Produce json
// @Security BearerAuth
// @Param id path int true "Wanted ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /wanted/{id} [delete]
func (h *WantedHandler) Delete(c echo.Context) error {
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
	return c.JSON(http.StatusOK, MessageResponse{Message: "wanted record deleted"})
}
