package models

import "time"

// ExtendedReservation is an append-only audit row, one per checkout-date
// change. DaysExtended is signed: negative when the stay was shortened.
type ExtendedReservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ReservationID   uint      `gorm:"not null;index" json:"reservation_id"`
	OldCheckOutDate time.Time `gorm:"type:date;not null" json:"old_check_out_date"`
	NewCheckOutDate time.Time `gorm:"type:date;not null" json:"new_check_out_date"`
	DaysExtended    int       `gorm:"not null" json:"days_extended"`
	CreatedAt       time.Time `json:"created_at"`
}

// RebookReservation links a canceled reservation to its replacement so the
// audit trail survives cancellation (there is no undo path).
type RebookReservation struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	CanceledReservationID uint      `gorm:"not null;index" json:"canceled_reservation_id"`
	NewReservationID      uint      `gorm:"not null;index" json:"new_reservation_id"`
	CreatedAt             time.Time `json:"created_at"`
}
