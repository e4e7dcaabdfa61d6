package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"dayzone/internal/service"
)

// StalkerHandler serves operative records.
type StalkerHandler struct {
	svc service.StalkerService
}

// NewStalkerHandler creates a new stalker handler.
func NewStalkerHandler(svc service.StalkerService) *StalkerHandler {
	return &StalkerHandler{svc: svc}
}

// StalkerRequest is the body for creating or replacing a stalker.
// Role may be omitted; it then defaults to the caller's faction on create
// and stays unchanged on update.
type StalkerRequest struct {
	Callsign string  `json:"callsign" validate:"required,max=100"`
	FullName string  `json:"full_name" validate:"required,max=255"`
	FaceID   string  `json:"face_id" validate:"required,max=50"`
	Role     string  `json:"role" validate:"omitempty,max=50"`
	Note     string  `json:"note"`
	PhotoRef *string `json:"photo_ref" validate:"omitempty,max=255"`
}

func (r StalkerRequest) input() service.StalkerInput {
	return service.StalkerInput{
		Callsign: r.Callsign,
		FullName: r.FullName,
		FaceID:   r.FaceID,
		Role:     r.Role,
		Note:     r.Note,
		PhotoRef: r.PhotoRef,
	}
}

func searchQuery(c echo.Context) service.SearchQuery {
	return service.SearchQuery{
		SearchBy: c.QueryParam("searchBy"),
		Search:   c.QueryParam("searchTerm"),
	}
}

// List godoc
// @Summary List stalkers of the caller's faction
// @Description Admin sees every faction.
// @Tags stalkers
// @Produce json
// @Security BearerAuth
// @Param searchBy query string false "callsign, faceId or fullName"
// @Param searchTerm query string false "Case-insensitive substring"
// @Success 200 {array} model.Stalker
// @Failure 401 {object} errors.ErrorResponse
// @Router /stalkers [get]
func (h *StalkerHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	stalkers, err := h.svc.List(c.Request().Context(), p, searchQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stalkers)
}

// ListByRole godoc
// @Summary List stalkers of one faction
// @Tags stalkers
// @Produce json
// @Security BearerAuth
// @Param role path string true "Faction"
// @Param searchBy query string false "callsign, faceId or fullName"
// @Param searchTerm query string false "Case-insensitive substring"
// @Success 200 {array} model.Stalker
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /stalkers/role/{role} [get]
func (h *StalkerHandler) ListByRole(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	stalkers, err := h.svc.ListByRole(c.Request().Context(), p, c.Param("role"), searchQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stalkers)
}

// Roles godoc
// @Summary Faction catalogue
// @Tags stalkers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.RoleInfo
// @Router /stalkers/roles/list [get]
func (h *StalkerHandler) Roles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Roles())
}

// Get godoc
// @Summary Get stalker by id
// @Tags stalkers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stalker ID"
// @Success 200 {object} model.Stalker
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stalkers/{id} [get]
func (h *StalkerHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	stalker, err := h.svc.Get(c.Request().Context(), p, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stalker)
}

// Create godoc
// @Summary Add a stalker
// @Tags stalkers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StalkerRequest true "Stalker"
// @Success 201 {object} model.Stalker
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /stalkers [post]
func (h *StalkerHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	var req StalkerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	stalker, err := h.svc.Create(c.Request().Context(), p, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, stalker)
}

// Update godoc
// @Summary Update a stalker
// @Tags stalkers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stalker ID"
// @Param request body StalkerRequest true "Stalker"
// @Success 200 {object} model.Stalker
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /stalkers/{id} [put]
func (h *StalkerHandler) Update(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req StalkerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	stalker, err := h.svc.Update(c.Request().Context(), p, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stalker)
}

// Delete godoc
// @Summary Delete a stalker
// @Tags stalkers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Stalker ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stalkers/{id} [delete]
func (h *StalkerHandler) Delete(c echo.Context) error {
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
	return c.JSON(http.StatusOK, MessageResponse{Message: "stalker deleted"})
}
