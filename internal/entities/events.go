package entities

import "encoding/json"

// EventKind discriminates push-channel frames.
type EventKind string

const (
	EventAvailabilityUpdate EventKind = "availability_update"
	EventSpotReserved       EventKind = "spot_reserved"
	EventSpotVacated        EventKind = "spot_vacated"
	EventSpotsAvailable     EventKind = "spots_available"
	EventSpotsFull          EventKind = "spots_full"
	EventNewLotAdded        EventKind = "new_lot_added"
	EventLotDeleted         EventKind = "lot_deleted"

	// Client-to-server frames.
	EventJoinUser  EventKind = "join_user"
	EventLeaveUser EventKind = "leave_user"
)

// Event is one push-channel frame. Data stays raw until the kind is known.
type Event struct {
	Kind EventKind       `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// AvailabilityUpdate maps lot id (as a JSON object key) to its vacant count.
type AvailabilityUpdate map[string]int

type SpotEvent struct {
	LotID         int    `json:"lot_id"`
	SpotID        int    `json:"spot_id"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
}

type CapacityEvent struct {
	LotID          int    `json:"lot_id"`
	AvailableSpots int    `json:"available_spots,omitempty"`
	Message        string `json:"message"`
}

type LotAddedEvent struct {
	LotID        int    `json:"lot_id"`
	LocationName string `json:"location_name"`
	MaxSpots     int    `json:"max_spots"`
}

type LotDeletedEvent struct {
	LotID int `json:"lot_id"`
}

type JoinUserData struct {
	UserID int `json:"user_id"`
}
