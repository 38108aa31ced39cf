package catalog

type DayView struct {
	Date          string `json:"date"`
	State         string `json:"state"`
	TotalUnits    int    `json:"total_units"`
	ReservedUnits int    `json:"reserved_units"`
	Available     bool   `json:"available"`
}

type AvailabilityResponse struct {
	RoomID int64     `json:"room_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Days   []DayView `json:"days"`
}

// SetDaysRequest configures a span of calendar days for a room.
type SetDaysRequest struct {
	From       string `json:"from" binding:"required"`
	To         string `json:"to" binding:"required"`
	State      string `json:"state" binding:"required,oneof=open closed blocked"`
	TotalUnits int    `json:"total_units" binding:"required,gt=0"`
}
