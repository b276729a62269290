package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

func parseDate(value, field string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, dates.Location)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be YYYY-MM-DD", field))
	}
	return t, nil
}

func parseID(c echo.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
	}
	return uint(id), nil
}

// httpError translates the service error taxonomy into status codes. Callers
// branch on kind, never on message text.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrBedUnavailable),
		errors.Is(err, service.ErrDuplicateAssignment),
		errors.Is(err, service.ErrGenderMismatch),
		errors.Is(err, service.ErrOverlapConflict),
		errors.Is(err, service.ErrScheduleOverlap):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNegativeBalance),
		errors.Is(err, service.ErrOverpayment):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
