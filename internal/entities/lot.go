package entities

import "net/url"

const (
	SpotVacant   = "vacant"
	SpotOccupied = "occupied"
)

type ParkingLot struct {
	ID             int     `json:"id"`
	LocationName   string  `json:"location_name"`
	Address        string  `json:"address"`
	PinCode        string  `json:"pin_code"`
	Price          float64 `json:"price"`
	MaxSpots       int     `json:"max_spots,omitempty"`
	AvailableSpots int     `json:"available_spots"`
	Occupied       int     `json:"occupied,omitempty"`
	Spots          []Spot  `json:"spots,omitempty"`
}

type Spot struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

type LotsResponse struct {
	Lots []ParkingLot `json:"lots"`
}

type SpotsResponse struct {
	Spots []Spot `json:"spots"`
}

// SpotDetail is the admin view of a single spot. The occupant fields are only
// set while the spot is occupied.
type SpotDetail struct {
	ID            int    `json:"id"`
	LotID         int    `json:"lot_id"`
	Status        string `json:"status"`
	UserID        int    `json:"user_id,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	TimeIn        string `json:"time_in,omitempty"`
	UserName      string `json:"user_name,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
}

// LotFilter narrows the lot directory. A zero filter means the full list.
type LotFilter struct {
	Name          string
	Location      string
	PinCode       string
	AvailableOnly bool
}

func (f LotFilter) IsZero() bool {
	return f.Name == "" && f.Location == "" && f.PinCode == "" && !f.AvailableOnly
}

func (f LotFilter) Query() url.Values {
	params := url.Values{}
	if f.Location != "" {
		params.Set("location", f.Location)
	}
	if f.PinCode != "" {
		params.Set("pincode", f.PinCode)
	}
	if f.Name != "" {
		params.Set("name", f.Name)
	}
	if f.AvailableOnly {
		params.Set("available_only", "true")
	}
	return params
}
