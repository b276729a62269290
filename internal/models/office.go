package models

import "time"

// Office is a hostel branch. Offices own rooms and issue reservation codes;
// their CRUD lives outside this service, we only read them.
type Office struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"type:varchar(8);not null;uniqueIndex" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rooms []Room `gorm:"foreignKey:OfficeID" json:"rooms,omitempty"`
}
