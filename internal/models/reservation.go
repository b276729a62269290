package models

import "time"

type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCanceled   ReservationStatus = "canceled"
)

// Reservation is the booking header. Billing fields are derived: daily_rate is
// the sum of assigned bed prices, total_billings accumulates over extensions,
// remaining_balance = total_billings - sum(payments). None of them is ever set
// outside a billing operation.
type Reservation struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	OfficeID         uint              `gorm:"not null;index" json:"office_id"`
	Code             string            `gorm:"type:varchar(20);not null;uniqueIndex" json:"code"`
	GuestName        string            `gorm:"not null" json:"guest_name"`
	GuestEmail       string            `json:"guest_email"`
	Status           ReservationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DailyRate        int64             `gorm:"not null;default:0" json:"daily_rate"`
	TotalBillings    int64             `gorm:"not null;default:0" json:"total_billings"`
	RemainingBalance int64             `gorm:"not null;default:0" json:"remaining_balance"`
	CheckInDate      time.Time         `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate     time.Time         `gorm:"type:date;not null" json:"check_out_date"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	Office      *Office      `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
	Guests      []Guest      `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"guests,omitempty"`
	StayDetails []StayDetail `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"stay_details,omitempty"`
	Payments    []Payment    `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// CanCancel reports whether the state machine allows cancellation: only
// pending and confirmed reservations may be canceled.
func (r *Reservation) CanCancel() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}
