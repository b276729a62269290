package dto

// Dates travel as YYYY-MM-DD strings; handlers parse them in the canonical
// timezone before anything touches the services.

type GuestRequest struct {
	FullName   string `json:"full_name"`
	Gender     string `json:"gender"`
	CheckIn    string `json:"check_in,omitempty"`
	CheckOut   string `json:"check_out,omitempty"`
	IsExempted bool   `json:"is_exempted"`
}

type CreateReservationRequest struct {
	OfficeID   uint           `json:"office_id"`
	GuestName  string         `json:"guest_name"`
	GuestEmail string         `json:"guest_email"`
	CheckIn    string         `json:"check_in_date"`
	CheckOut   string         `json:"check_out_date"`
	Guests     []GuestRequest `json:"guests"`
}

type GuestBedPairRequest struct {
	GuestID uint `json:"guest_id"`
	BedID   uint `json:"bed_id"`
}

type AssignBedsRequest struct {
	Pairs []GuestBedPairRequest `json:"assignments"`
}

type CheckoutChangeRequest struct {
	NewCheckOutDate string `json:"new_check_out_date"`
}

type PaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type RebookRequest struct {
	CheckIn  string         `json:"check_in_date"`
	CheckOut string         `json:"check_out_date"`
	Guests   []GuestRequest `json:"guests"`
}

type GenderScheduleRequest struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	EligibleGender string `json:"eligible_gender"`
}
