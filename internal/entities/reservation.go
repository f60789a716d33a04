package entities

// Reservation is one row of a user's parking history. Timestamps are carried
// as the server sends them ("2006-01-02 15:04:05"); TimeOut is empty while the
// reservation is active.
type Reservation struct {
	LotName       string `json:"lot_name"`
	Spot          int    `json:"spot"`
	VehicleNumber string `json:"vehicle_number"`
	TimeIn        string `json:"time_in"`
	TimeOut       string `json:"time_out"`
}

func (r Reservation) Active() bool {
	return r.TimeOut == ""
}

type SummaryResponse struct {
	Reservations []Reservation `json:"reservations"`
}

type ReserveRequest struct {
	UserID        int    `json:"user_id"`
	LotID         int    `json:"lot_id"`
	VehicleNumber string `json:"vehicle_number"`
}

// VacateRequest releases a reservation. SpotID and VehicleNumber are only
// sent in multi-reservation deployments, where the user picks which spot to
// give up.
type VacateRequest struct {
	UserID        int    `json:"user_id"`
	SpotID        int    `json:"spot_id,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
	SpotID  int    `json:"spot_id,omitempty"`
	LotID   int    `json:"lot_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
