package dto

import (
	"time"

	"github.com/hostelhq/reservation-service/internal/models"
)

type StayDetailResponse struct {
	ID           uint                     `json:"id"`
	GuestID      uint                     `json:"guest_id"`
	BedID        *uint                    `json:"bed_id,omitempty"`
	CheckInDate  string                   `json:"check_in_date"`
	CheckOutDate string                   `json:"check_out_date"`
	Status       models.ReservationStatus `json:"status"`
	AmountBilled int64                    `json:"amount_billed"`
	IsExempted   bool                     `json:"is_exempted"`
}

type GuestResponse struct {
	ID       uint          `json:"id"`
	FullName string        `json:"full_name"`
	Gender   models.Gender `json:"gender"`
}

type ReservationResponse struct {
	ID               uint                     `json:"id"`
	OfficeID         uint                     `json:"office_id"`
	Code             string                   `json:"code"`
	GuestName        string                   `json:"guest_name"`
	GuestEmail       string                   `json:"guest_email,omitempty"`
	Status           models.ReservationStatus `json:"status"`
	DailyRate        int64                    `json:"daily_rate"`
	TotalBillings    int64                    `json:"total_billings"`
	RemainingBalance int64                    `json:"remaining_balance"`
	CheckInDate      string                   `json:"check_in_date"`
	CheckOutDate     string                   `json:"check_out_date"`
	Guests           []GuestResponse          `json:"guests,omitempty"`
	StayDetails      []StayDetailResponse     `json:"stay_details,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

type ModifyTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:               r.ID,
		OfficeID:         r.OfficeID,
		Code:             r.Code,
		GuestName:        r.GuestName,
		GuestEmail:       r.GuestEmail,
		Status:           r.Status,
		DailyRate:        r.DailyRate,
		TotalBillings:    r.TotalBillings,
		RemainingBalance: r.RemainingBalance,
		CheckInDate:      r.CheckInDate.Format(dateLayout),
		CheckOutDate:     r.CheckOutDate.Format(dateLayout),
		CreatedAt:        r.CreatedAt,
	}
	for _, g := range r.Guests {
		resp.Guests = append(resp.Guests, GuestResponse{
			ID:       g.ID,
			FullName: g.FullName,
			Gender:   g.Gender,
		})
	}
	for _, s := range r.StayDetails {
		resp.StayDetails = append(resp.StayDetails, StayDetailResponse{
			ID:           s.ID,
			GuestID:      s.GuestID,
			BedID:        s.BedID,
			CheckInDate:  s.CheckInDate.Format(dateLayout),
			CheckOutDate: s.CheckOutDate.Format(dateLayout),
			Status:       s.Status,
			AmountBilled: s.AmountBilled,
			IsExempted:   s.IsExempted,
		})
	}
	return resp
}
