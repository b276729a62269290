package handler

import (
	"net/http"

	"github.com/hostelhq/reservation-service/internal/dto"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	reservations service.ReservationService
	allocation   service.AllocationService
	billing      service.BillingService
	tokens       service.TokenService
}

func NewReservationHandler(
	reservations service.ReservationService,
	allocation service.AllocationService,
	billing service.BillingService,
	tokens service.TokenService,
) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		allocation:   allocation,
		billing:      billing,
		tokens:       tokens,
	}
}

func (h *ReservationHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/reservations")
	g.POST("", h.CreateReservation)
	g.GET("/:id", h.GetReservation)
	g.POST("/:id/assign", h.AssignBeds)
	g.POST("/:id/payments", h.RecordPayment)
	g.POST("/:id/modify-token", h.IssueModifyToken)
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req dto.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	params, err := toCreateParams(req)
	if err != nil {
		return err
	}
	reservation, err := h.reservations.CreateReservation(c.Request().Context(), params)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	reservation, err := h.reservations.GetReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) AssignBeds(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignBedsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	pairs := make([]service.GuestBedPair, len(req.Pairs))
	for i, p := range req.Pairs {
		pairs[i] = service.GuestBedPair{GuestID: p.GuestID, BedID: p.BedID}
	}

	reservation, err := h.allocation.AssignBeds(c.Request().Context(), id, pairs)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) RecordPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reservation, err := h.billing.RecordPayment(c.Request().Context(), id, req.Amount, req.Method)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) IssueModifyToken(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	// Confirm existence so tokens are never minted for unknown reservations.
	if _, err := h.reservations.GetReservation(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	token, expiresAt, err := h.tokens.IssueModifyToken(id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ModifyTokenResponse{Token: token, ExpiresAt: expiresAt})
}

func toCreateParams(req dto.CreateReservationRequest) (service.CreateReservationParams, error) {
	params := service.CreateReservationParams{
		OfficeID:   req.OfficeID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
	}
	var err error
	if params.CheckIn, err = parseDate(req.CheckIn, "check_in_date"); err != nil {
		return params, err
	}
	if params.CheckOut, err = parseDate(req.CheckOut, "check_out_date"); err != nil {
		return params, err
	}
	for _, g := range req.Guests {
		guest := service.GuestParams{
			FullName:   g.FullName,
			Gender:     models.Gender(g.Gender),
			IsExempted: g.IsExempted,
		}
		if g.CheckIn != "" {
			if guest.CheckIn, err = parseDate(g.CheckIn, "guest check_in"); err != nil {
				return params, err
			}
		}
		if g.CheckOut != "" {
			if guest.CheckOut, err = parseDate(g.CheckOut, "guest check_out"); err != nil {
				return params, err
			}
		}
		params.Guests = append(params.Guests, guest)
	}
	return params, nil
}
