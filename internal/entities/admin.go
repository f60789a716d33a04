package entities

type LotRequest struct {
	LocationName string  `json:"location_name"`
	Address      string  `json:"address"`
	PinCode      string  `json:"pin_code"`
	Price        float64 `json:"price"`
	MaxSpots     int     `json:"max_spots"`
}

type LotRevenue struct {
	LotID             int     `json:"lot_id"`
	LocationName      string  `json:"location_name"`
	Price             float64 `json:"price"`
	TotalReservations int     `json:"total_reservations"`
	Revenue           float64 `json:"revenue"`
}

type LotOccupancy struct {
	LotID        int    `json:"lot_id"`
	LocationName string `json:"location_name"`
	Available    int    `json:"available"`
	Occupied     int    `json:"occupied"`
}

type AdminSummary struct {
	Revenue   []LotRevenue   `json:"revenue"`
	Occupancy []LotOccupancy `json:"occupancy"`
}
