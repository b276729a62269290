package handler

import (
	"net/http"

	"github.com/hostelhq/reservation-service/internal/dto"
	"github.com/hostelhq/reservation-service/internal/middleware"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ModificationHandler struct {
	modification service.ModificationService
	tokens       service.TokenService
}

func NewModificationHandler(modification service.ModificationService, tokens service.TokenService) *ModificationHandler {
	return &ModificationHandler{modification: modification, tokens: tokens}
}

func (h *ModificationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/reservations")
	g.POST("/:id/extend", h.ExtendStay)
	g.PATCH("/:id/checkout", h.UpdateCheckout)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.POST("/:id/rebook", h.RebookReservation)
	g.DELETE("/:id", h.CancelReservation)

	// Guest self-service: the capability token names the reservation, the
	// URL does not.
	my := e.Group("/api/v1/my/reservation", middleware.RequireModifyToken(h.tokens))
	my.POST("/extend", h.SelfExtendStay)
	my.PATCH("/checkout", h.SelfUpdateCheckout)
}

func (h *ModificationHandler) ExtendStay(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return h.extend(c, id)
}

func (h *ModificationHandler) SelfExtendStay(c echo.Context) error {
	return h.extend(c, c.Get(middleware.ReservationIDKey).(uint))
}

func (h *ModificationHandler) extend(c echo.Context, id uint) error {
	var req dto.CheckoutChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	newCheckOut, err := parseDate(req.NewCheckOutDate, "new_check_out_date")
	if err != nil {
		return err
	}

	reservation, err := h.modification.ExtendStay(c.Request().Context(), id, newCheckOut)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ModificationHandler) UpdateCheckout(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	return h.updateCheckout(c, id)
}

func (h *ModificationHandler) SelfUpdateCheckout(c echo.Context) error {
	return h.updateCheckout(c, c.Get(middleware.ReservationIDKey).(uint))
}

func (h *ModificationHandler) updateCheckout(c echo.Context, id uint) error {
	var req dto.CheckoutChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	newCheckOut, err := parseDate(req.NewCheckOutDate, "new_check_out_date")
	if err != nil {
		return err
	}

	reservation, err := h.modification.UpdateCheckout(c.Request().Context(), id, newCheckOut)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ModificationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reservation, err := h.modification.UpdateStatus(c.Request().Context(), id, models.ReservationStatus(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ModificationHandler) CancelReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.modification.CancelReservation(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ModificationHandler) RebookReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RebookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	params := service.CreateReservationParams{}
	if params.CheckIn, err = parseDate(req.CheckIn, "check_in_date"); err != nil {
		return err
	}
	if params.CheckOut, err = parseDate(req.CheckOut, "check_out_date"); err != nil {
		return err
	}
	for _, g := range req.Guests {
		guest := service.GuestParams{
			FullName:   g.FullName,
			Gender:     models.Gender(g.Gender),
			IsExempted: g.IsExempted,
		}
		params.Guests = append(params.Guests, guest)
	}

	reservation, err := h.modification.RebookReservation(c.Request().Context(), id, params)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}
