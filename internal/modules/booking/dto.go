package booking

type CustomerInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

// CreateBookingRequest is the public booking payload. Exactly one of
// room_id (with check_in/check_out) or departure_id must be set.
type CreateBookingRequest struct {
	RoomID      *int64 `json:"room_id"`
	DepartureID *int64 `json:"departure_id"`

	CheckIn  string `json:"check_in"`  // 2006-01-02
	CheckOut string `json:"check_out"` // 2006-01-02

	Adults   int `json:"adults" binding:"required,gt=0"`
	Children int `json:"children" binding:"gte=0"`
	Infants  int `json:"infants" binding:"gte=0"`

	Customer CustomerInput `json:"customer" binding:"required"`

	SpecialRequests  string `json:"special_requests"`
	Channel          string `json:"channel"`
	ChannelReference string `json:"channel_reference"`
}

type StatusUpdateRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

type BookingResponse struct {
	BookingID   int64   `json:"booking_id"`
	Reference   string  `json:"reference"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
}
