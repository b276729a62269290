package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hostelhq/reservation-service/internal/dates"
	"github.com/hostelhq/reservation-service/internal/dto"
	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Mock services ---

type mockReservationService struct {
	createFn func(ctx context.Context, params service.CreateReservationParams) (*models.Reservation, error)
	getFn    func(ctx context.Context, id uint) (*models.Reservation, error)
}

func (m *mockReservationService) CreateReservation(ctx context.Context, params service.CreateReservationParams) (*models.Reservation, error) {
	return m.createFn(ctx, params)
}
func (m *mockReservationService) CreateReservationTx(ctx context.Context, tx *gorm.DB, params service.CreateReservationParams) (*models.Reservation, error) {
	return m.createFn(ctx, params)
}
func (m *mockReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return m.getFn(ctx, id)
}

type mockAllocationService struct {
	assignFn func(ctx context.Context, reservationID uint, pairs []service.GuestBedPair) (*models.Reservation, error)
}

func (m *mockAllocationService) AssignBeds(ctx context.Context, reservationID uint, pairs []service.GuestBedPair) (*models.Reservation, error) {
	return m.assignFn(ctx, reservationID, pairs)
}

type mockBillingService struct {
	payFn func(ctx context.Context, reservationID uint, amount int64, method string) (*models.Reservation, error)
}

func (m *mockBillingService) RecordPayment(ctx context.Context, reservationID uint, amount int64, method string) (*models.Reservation, error) {
	return m.payFn(ctx, reservationID, amount, method)
}

func sampleReservation() *models.Reservation {
	return &models.Reservation{
		ID:               1,
		OfficeID:         1,
		Code:             "MNL-202506-0001",
		GuestName:        "Ana Cruz",
		Status:           models.StatusConfirmed,
		DailyRate:        400,
		TotalBillings:    800,
		RemainingBalance: 800,
		CheckInDate:      time.Date(2025, 6, 1, 0, 0, 0, 0, dates.Location),
		CheckOutDate:     time.Date(2025, 6, 3, 0, 0, 0, 0, dates.Location),
	}
}

// --- Tests ---

func TestAssignBeds_Handler_Success(t *testing.T) {
	allocation := &mockAllocationService{
		assignFn: func(ctx context.Context, reservationID uint, pairs []service.GuestBedPair) (*models.Reservation, error) {
			assert.Equal(t, uint(1), reservationID)
			assert.Len(t, pairs, 2)
			return sampleReservation(), nil
		},
	}

	e := echo.New()
	body := `{"assignments":[{"guest_id":1,"bed_id":10},{"guest_id":2,"bed_id":11}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/assign", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewReservationHandler(nil, allocation, nil, nil)
	err := h.AssignBeds(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ReservationResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MNL-202506-0001", resp.Code)
	assert.Equal(t, int64(400), resp.DailyRate)
	assert.Equal(t, models.StatusConfirmed, resp.Status)
}

func TestAssignBeds_Handler_BedUnavailableMapsToConflict(t *testing.T) {
	allocation := &mockAllocationService{
		assignFn: func(ctx context.Context, reservationID uint, pairs []service.GuestBedPair) (*models.Reservation, error) {
			return nil, service.ErrBedUnavailable
		},
	}

	e := echo.New()
	body := `{"assignments":[{"guest_id":1,"bed_id":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/assign", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewReservationHandler(nil, allocation, nil, nil)
	err := h.AssignBeds(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Code)
}

func TestCreateReservation_Handler_BadDate(t *testing.T) {
	e := echo.New()
	body := `{"office_id":1,"guest_name":"Ana","check_in_date":"June 1","check_out_date":"2025-06-03","guests":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewReservationHandler(&mockReservationService{}, nil, nil, nil)
	err := h.CreateReservation(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRecordPayment_Handler_OverpaymentMapsToUnprocessable(t *testing.T) {
	billing := &mockBillingService{
		payFn: func(ctx context.Context, reservationID uint, amount int64, method string) (*models.Reservation, error) {
			return nil, service.ErrOverpayment
		},
	}

	e := echo.New()
	body := `{"amount":99999,"method":"cash"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/payments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewReservationHandler(nil, nil, billing, nil)
	err := h.RecordPayment(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestIssueModifyToken_Handler(t *testing.T) {
	reservations := &mockReservationService{
		getFn: func(ctx context.Context, id uint) (*models.Reservation, error) {
			return sampleReservation(), nil
		},
	}
	tokens := service.NewTokenService("test-secret", 5*time.Minute)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/1/modify-token", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewReservationHandler(reservations, nil, nil, tokens)
	assert.NoError(t, h.IssueModifyToken(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.ModifyTokenResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	id, err := tokens.VerifyModifyToken(resp.Token)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), id)
}
