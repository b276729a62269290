package handler

import (
	"net/http"

	"github.com/hostelhq/reservation-service/internal/dto"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

type AvailabilityHandler struct {
	availability service.AvailabilityService
	eligibility  service.EligibilityResolver
}

func NewAvailabilityHandler(availability service.AvailabilityService, eligibility service.EligibilityResolver) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, eligibility: eligibility}
}

func (h *AvailabilityHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/offices/:id/available-beds", h.ListAvailableBeds)
	e.POST("/api/v1/rooms/:id/gender-schedules", h.CreateGenderSchedule)
}

func (h *AvailabilityHandler) ListAvailableBeds(c echo.Context) error {
	officeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	checkIn, err := parseDate(c.QueryParam("check_in"), "check_in")
	if err != nil {
		return err
	}
	checkOut, err := parseDate(c.QueryParam("check_out"), "check_out")
	if err != nil {
		return err
	}

	beds, err := h.availability.ListAvailableBeds(c.Request().Context(), officeID, checkIn, checkOut)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, beds)
}

func (h *AvailabilityHandler) CreateGenderSchedule(c echo.Context) error {
	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.GenderScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return err
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return err
	}
	gender := models.Gender(req.EligibleGender)
	if gender != models.GenderAny && gender != models.GenderMale && gender != models.GenderFemale {
		return echo.NewHTTPError(http.StatusBadRequest, "eligible_gender must be any, male or female")
	}

	schedule := &models.EligibleGenderSchedule{
		RoomID:         roomID,
		StartDate:      start,
		EndDate:        end,
		EligibleGender: gender,
	}
	if err := h.eligibility.CreateSchedule(c.Request().Context(), schedule); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, schedule)
}
