package models

import "time"

// Payment records money received against a reservation. Remaining balance on
// the header is decremented in the same transaction that creates the row.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"not null;index" json:"reservation_id"`
	Amount        int64     `gorm:"not null" json:"amount"` // minor units
	Method        string    `gorm:"type:varchar(20);not null;default:'cash'" json:"method"`
	PaidAt        time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt     time.Time `json:"created_at"`
}
