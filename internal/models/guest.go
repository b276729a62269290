package models

import "time"

// Guest is one person inside a reservation. Their individual stay window and
// bed binding live in the StayDetail.
type Guest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"not null;index" json:"reservation_id"`
	FullName      string    `gorm:"not null" json:"full_name"`
	Gender        Gender    `gorm:"type:varchar(10);not null" json:"gender"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StayDetail is the unit of bed occupancy: per-guest date range plus bed
// binding. Availability scans active stay details, not reservation headers,
// because guests in one reservation may hold different sub-ranges.
//
// Invariant: bed_id is non-null only while status is not canceled/checked_out.
type StayDetail struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ReservationID uint              `gorm:"not null;index" json:"reservation_id"`
	GuestID       uint              `gorm:"not null;index" json:"guest_id"`
	BedID         *uint             `gorm:"index" json:"bed_id,omitempty"`
	CheckInDate   time.Time         `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate  time.Time         `gorm:"type:date;not null" json:"check_out_date"`
	Status        ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AmountBilled  int64             `gorm:"not null;default:0" json:"amount_billed"`
	IsExempted    bool              `gorm:"not null;default:false" json:"is_exempted"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Guest *Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Bed   *Bed   `gorm:"foreignKey:BedID;constraint:OnDelete:SET NULL" json:"bed,omitempty"`
}
