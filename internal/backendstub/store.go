package backendstub

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"parkdesk/internal/entities"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	ErrNoVacantSpots       = errors.New("No available spots in this lot")
	ErrDuplicateVehicle    = errors.New("Vehicle already has an active reservation")
	ErrNoActiveReservation = errors.New("No active reservation found")
	ErrLotNotFound         = errors.New("Lot not found")
	ErrSpotNotFound        = errors.New("Spot not found")
)

// DetailsError carries the optional details field some vacate errors add.
type DetailsError struct {
	Message string
	Details string
}

func (e *DetailsError) Error() string {
	return e.Message + ": " + e.Details
}

type user struct {
	id           int
	email        string
	fullName     string
	address      string
	pinCode      string
	passwordHash []byte
}

type lot struct {
	id           int
	locationName string
	address      string
	pinCode      string
	price        float64
	maxSpots     int
}

type spot struct {
	id     int
	lotID  int
	status string
}

type reservation struct {
	id            int
	spotID        int
	userID        int
	vehicleNumber string
	timeIn        time.Time
	timeOut       *time.Time
}

// Store is the in-memory state behind the stub backend. All methods are safe
// for concurrent use.
type Store struct {
	mu           sync.Mutex
	users        []*user
	lots         []*lot
	spots        []*spot
	reservations []*reservation

	nextUser, nextLot, nextSpot, nextReservation int
}

func NewStore() *Store {
	return &Store{nextUser: 1, nextLot: 1, nextSpot: 1, nextReservation: 1}
}

func (st *Store) AddUser(email, password, fullName, address, pinCode string) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	u := &user{
		id:           st.nextUser,
		email:        email,
		fullName:     fullName,
		address:      address,
		pinCode:      pinCode,
		passwordHash: hash,
	}
	st.nextUser++
	st.users = append(st.users, u)
	return u.id, nil
}

// Authenticate checks credentials and returns the matching user.
func (st *Store) Authenticate(email, password string) (int, string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, u := range st.users {
		if u.email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) == nil {
			return u.id, u.fullName, true
		}
		return 0, "", false
	}
	return 0, "", false
}

func (st *Store) AddLot(req entities.LotRequest) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	l := &lot{
		id:           st.nextLot,
		locationName: req.LocationName,
		address:      req.Address,
		pinCode:      req.PinCode,
		price:        req.Price,
		maxSpots:     req.MaxSpots,
	}
	st.nextLot++
	st.lots = append(st.lots, l)
	for i := 0; i < req.MaxSpots; i++ {
		st.addSpotLocked(l.id)
	}
	return l.id
}

func (st *Store) UpdateLot(lotID int, req entities.LotRequest) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, l := range st.lots {
		if l.id == lotID {
			l.locationName = req.LocationName
			l.address = req.Address
			l.pinCode = req.PinCode
			l.price = req.Price
			l.maxSpots = req.MaxSpots
			return nil
		}
	}
	return ErrLotNotFound
}

func (st *Store) DeleteLot(lotID int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	found := false
	for i, l := range st.lots {
		if l.id == lotID {
			st.lots = append(st.lots[:i], st.lots[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return ErrLotNotFound
	}
	kept := st.spots[:0]
	for _, sp := range st.spots {
		if sp.lotID != lotID {
			kept = append(kept, sp)
		}
	}
	st.spots = kept
	return nil
}

func (st *Store) AddSpot(lotID int) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, l := range st.lots {
		if l.id == lotID {
			return st.addSpotLocked(lotID), nil
		}
	}
	return 0, ErrLotNotFound
}

func (st *Store) addSpotLocked(lotID int) int {
	sp := &spot{id: st.nextSpot, lotID: lotID, status: entities.SpotVacant}
	st.nextSpot++
	st.spots = append(st.spots, sp)
	return sp.id
}

func (st *Store) DeleteSpot(spotID int) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, sp := range st.spots {
		if sp.id == spotID {
			st.spots = append(st.spots[:i], st.spots[i+1:]...)
			return nil
		}
	}
	return ErrSpotNotFound
}

// Lots returns the user view of the directory, with derived vacant counts.
func (st *Store) Lots() []entities.ParkingLot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lotsLocked()
}

func (st *Store) lotsLocked() []entities.ParkingLot {
	out := make([]entities.ParkingLot, 0, len(st.lots))
	for _, l := range st.lots {
		out = append(out, entities.ParkingLot{
			ID:             l.id,
			LocationName:   l.locationName,
			Address:        l.address,
			PinCode:        l.pinCode,
			Price:          l.price,
			AvailableSpots: st.vacantCountLocked(l.id),
		})
	}
	return out
}

// AdminLots adds max_spots, occupied counts and the per-spot grid.
func (st *Store) AdminLots() []entities.ParkingLot {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]entities.ParkingLot, 0, len(st.lots))
	for _, l := range st.lots {
		item := entities.ParkingLot{
			ID:             l.id,
			LocationName:   l.locationName,
			Address:        l.address,
			PinCode:        l.pinCode,
			Price:          l.price,
			MaxSpots:       l.maxSpots,
			AvailableSpots: st.vacantCountLocked(l.id),
		}
		for _, sp := range st.spots {
			if sp.lotID != l.id {
				continue
			}
			item.Spots = append(item.Spots, entities.Spot{ID: sp.id, Status: sp.status})
			if sp.status == entities.SpotOccupied {
				item.Occupied++
			}
		}
		out = append(out, item)
	}
	return out
}

func (st *Store) SearchLots(filter entities.LotFilter) []entities.ParkingLot {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []entities.ParkingLot
	for _, l := range st.lotsLocked() {
		if filter.Location != "" && !strings.Contains(strings.ToLower(l.Address), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.PinCode != "" && l.PinCode != filter.PinCode {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(l.LocationName), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.AvailableOnly && l.AvailableSpots == 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (st *Store) LotSpots(lotID int) []entities.Spot {
	st.mu.Lock()
	defer st.mu.Unlock()
	var out []entities.Spot
	for _, sp := range st.spots {
		if sp.lotID == lotID {
			out = append(out, entities.Spot{ID: sp.id, Status: sp.status})
		}
	}
	return out
}

// Reserve occupies the first vacant spot in the lot. A vehicle may hold only
// one active reservation at a time.
func (st *Store) Reserve(userID, lotID int, vehicleNumber string) (int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, r := range st.reservations {
		if r.timeOut == nil && r.vehicleNumber == vehicleNumber {
			return 0, ErrDuplicateVehicle
		}
	}
	for _, sp := range st.spots {
		if sp.lotID != lotID || sp.status != entities.SpotVacant {
			continue
		}
		sp.status = entities.SpotOccupied
		r := &reservation{
			id:            st.nextReservation,
			spotID:        sp.id,
			userID:        userID,
			vehicleNumber: vehicleNumber,
			timeIn:        time.Now().UTC().Truncate(time.Second),
		}
		st.nextReservation++
		st.reservations = append(st.reservations, r)
		return sp.id, nil
	}
	return 0, ErrNoVacantSpots
}

// Vacate closes the user's most recent active reservation and returns the
// affected lot and spot.
func (st *Store) Vacate(userID int) (lotID, spotID int, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	var latest *reservation
	for _, r := range st.reservations {
		if r.userID == userID && r.timeOut == nil {
			if latest == nil || r.timeIn.After(latest.timeIn) {
				latest = r
			}
		}
	}
	if latest == nil {
		return 0, 0, ErrNoActiveReservation
	}
	return st.closeLocked(latest)
}

// VacateSpot closes the active reservation on one specific spot, checking the
// vehicle matches.
func (st *Store) VacateSpot(userID, spotID int, vehicleNumber string) (lotID int, err error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, r := range st.reservations {
		if r.spotID == spotID && r.timeOut == nil {
			if r.userID != userID || r.vehicleNumber != vehicleNumber {
				return 0, &DetailsError{
					Message: "Could not vacate spot",
					Details: "no active reservation for this spot and vehicle",
				}
			}
			lotID, _, err := st.closeLocked(r)
			return lotID, err
		}
	}
	return 0, &DetailsError{
		Message: "Could not vacate spot",
		Details: "no active reservation for this spot and vehicle",
	}
}

func (st *Store) closeLocked(r *reservation) (lotID, spotID int, err error) {
	now := time.Now().UTC().Truncate(time.Second)
	r.timeOut = &now
	for _, sp := range st.spots {
		if sp.id == r.spotID {
			sp.status = entities.SpotVacant
			return sp.lotID, sp.id, nil
		}
	}
	return 0, r.spotID, nil
}

// Summary returns a user's full history, newest first like the backend.
func (st *Store) Summary(userID int) []entities.Reservation {
	st.mu.Lock()
	defer st.mu.Unlock()
	var rows []*reservation
	for _, r := range st.reservations {
		if r.userID == userID {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].timeIn.After(rows[j].timeIn) })

	out := make([]entities.Reservation, 0, len(rows))
	for _, r := range rows {
		item := entities.Reservation{
			Spot:          r.spotID,
			VehicleNumber: r.vehicleNumber,
			TimeIn:        r.timeIn.Format(timeLayout),
		}
		if r.timeOut != nil {
			item.TimeOut = r.timeOut.Format(timeLayout)
		}
		if l := st.lotOfSpotLocked(r.spotID); l != nil {
			item.LotName = l.locationName
		}
		out = append(out, item)
	}
	return out
}

func (st *Store) Users() []entities.User {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]entities.User, 0, len(st.users))
	for _, u := range st.users {
		out = append(out, entities.User{
			ID:       u.id,
			Email:    u.email,
			FullName: u.fullName,
			Address:  u.address,
			PinCode:  u.pinCode,
		})
	}
	return out
}

func (st *Store) AdminSummary() entities.AdminSummary {
	st.mu.Lock()
	defer st.mu.Unlock()
	var summary entities.AdminSummary
	for _, l := range st.lots {
		total := 0
		for _, r := range st.reservations {
			if sl := st.lotOfSpotLocked(r.spotID); sl != nil && sl.id == l.id {
				total++
			}
		}
		summary.Revenue = append(summary.Revenue, entities.LotRevenue{
			LotID:             l.id,
			LocationName:      l.locationName,
			Price:             l.price,
			TotalReservations: total,
			Revenue:           l.price * float64(total),
		})
		occ := entities.LotOccupancy{LotID: l.id, LocationName: l.locationName}
		for _, sp := range st.spots {
			if sp.lotID != l.id {
				continue
			}
			if sp.status == entities.SpotOccupied {
				occ.Occupied++
			} else {
				occ.Available++
			}
		}
		summary.Occupancy = append(summary.Occupancy, occ)
	}
	return summary
}

func (st *Store) SpotDetail(spotID int) (*entities.SpotDetail, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for _, sp := range st.spots {
		if sp.id != spotID {
			continue
		}
		detail := &entities.SpotDetail{ID: sp.id, LotID: sp.lotID, Status: sp.status}
		if sp.status != entities.SpotOccupied {
			return detail, nil
		}
		for _, r := range st.reservations {
			if r.spotID == spotID && r.timeOut == nil {
				detail.UserID = r.userID
				detail.VehicleNumber = r.vehicleNumber
				detail.TimeIn = r.timeIn.Format(timeLayout)
				for _, u := range st.users {
					if u.id == r.userID {
						detail.UserName = u.fullName
						detail.UserEmail = u.email
					}
				}
			}
		}
		return detail, nil
	}
	return nil, ErrSpotNotFound
}

// AvailabilitySnapshot maps lot id to vacant-spot count, for the watcher.
func (st *Store) AvailabilitySnapshot() map[int]int {
	st.mu.Lock()
	defer st.mu.Unlock()
	snapshot := make(map[int]int, len(st.lots))
	for _, l := range st.lots {
		snapshot[l.id] = st.vacantCountLocked(l.id)
	}
	return snapshot
}

func (st *Store) vacantCountLocked(lotID int) int {
	count := 0
	for _, sp := range st.spots {
		if sp.lotID == lotID && sp.status == entities.SpotVacant {
			count++
		}
	}
	return count
}

func (st *Store) lotOfSpotLocked(spotID int) *lot {
	for _, sp := range st.spots {
		if sp.id == spotID {
			for _, l := range st.lots {
				if l.id == sp.lotID {
					return l
				}
			}
		}
	}
	return nil
}
