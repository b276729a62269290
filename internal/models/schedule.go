package models

import "time"

// EligibleGenderSchedule overrides a room's default gender restriction while
// start_date <= target date <= end_date. Ranges for the same room must not
// overlap; the schedule repository rejects overlapping writes.
type EligibleGenderSchedule struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RoomID         uint      `gorm:"not null;index" json:"room_id"`
	StartDate      time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time `gorm:"type:date;not null" json:"end_date"`
	EligibleGender Gender    `gorm:"type:varchar(10);not null" json:"eligible_gender"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}
