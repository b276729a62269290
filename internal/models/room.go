package models

import "time"

type Gender string

const (
	GenderAny    Gender = "any"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Room groups beds under one office and carries the default gender
// restriction. Time-bounded overrides live in EligibleGenderSchedule.
type Room struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OfficeID       uint      `gorm:"not null;index" json:"office_id"`
	Name           string    `gorm:"not null" json:"name"`
	EligibleGender Gender    `gorm:"type:varchar(10);not null;default:'any'" json:"eligible_gender"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Office *Office `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
	Beds   []Bed   `gorm:"foreignKey:RoomID" json:"beds,omitempty"`
}

// Bed carries no occupancy flag: availability is always derived from active
// stay details, never from a stored status.
type Bed struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Name      string    `gorm:"not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"` // minor units (centavos) per day
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}
