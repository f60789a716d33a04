package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"parkdesk/internal/apierr"
	"parkdesk/internal/client"
	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
	"parkdesk/internal/plate"
	"parkdesk/internal/view"
)

var (
	ErrNoLotSelected = errors.New("no parking lot selected")
	ErrNoVehicle     = errors.New("no vehicle number entered")
)

// ReservationService validates and submits reserve requests and reconciles
// the visible state afterwards. Counts are never updated optimistically; only
// a post-submit refresh is trusted.
type ReservationService struct {
	Client    *client.Client
	Validator *plate.Validator
	Notifier  notify.Notifier
	Directory *DirectoryService
	Summary   *SummaryService
	UserID    int

	mu      sync.Mutex
	vehicle string
}

func NewReservationService(c *client.Client, v *plate.Validator, n notify.Notifier, dir *DirectoryService, sum *SummaryService, userID int) *ReservationService {
	return &ReservationService{Client: c, Validator: v, Notifier: n, Directory: dir, Summary: sum, UserID: userID}
}

// SetVehicleInput stores the pending vehicle-number input. It is cleared only
// by a successful reserve.
func (s *ReservationService) SetVehicleInput(vehicle string) {
	s.mu.Lock()
	s.vehicle = vehicle
	s.mu.Unlock()
}

func (s *ReservationService) VehicleInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicle
}

// Reserve submits a reservation for the selected lot. All preconditions are
// checked before any network call: a concrete lot must be selected (not the
// search sentinel), and the vehicle number must be non-empty and match the
// configured plate policy. Client-side rejection is advisory only; the server
// revalidates.
func (s *ReservationService) Reserve(ctx context.Context, lotID, vehicleNumber string) error {
	if lotID == "" || lotID == view.SearchSentinel {
		s.Notifier.Notify(notify.Warning, "Please select a parking lot")
		return ErrNoLotSelected
	}
	vehicle := plate.Normalize(vehicleNumber)
	if vehicle == "" {
		s.Notifier.Notify(notify.Warning, "Please enter your vehicle number")
		return ErrNoVehicle
	}
	if err := s.Validator.Validate(vehicle); err != nil {
		s.Notifier.Notify(notify.Error, err.Error())
		return err
	}
	id, err := strconv.Atoi(lotID)
	if err != nil {
		s.Notifier.Notify(notify.Warning, "Please select a parking lot")
		return ErrNoLotSelected
	}

	_, err = s.Client.Reserve(ctx, entities.ReserveRequest{
		UserID:        s.UserID,
		LotID:         id,
		VehicleNumber: vehicle,
	})
	if apiErr, ok := apierr.FromServer(err); ok {
		// Server-reported business error: surface the message verbatim, no
		// retry. The refresh still runs since the server state may have moved.
		s.Notifier.Notify(notify.Error, apiErr.Error())
		s.refresh(ctx)
		return err
	}
	if err != nil {
		s.Notifier.Notify(notify.Error, "Error reserving spot. Please try again.")
		return err
	}

	s.Notifier.Notify(notify.Success, "Spot reserved successfully!")
	s.mu.Lock()
	s.vehicle = ""
	s.mu.Unlock()
	s.refresh(ctx)
	return nil
}

func (s *ReservationService) refresh(ctx context.Context) {
	if err := s.Summary.CheckActive(ctx); err != nil {
		log.Printf("Active-reservation refresh failed: %v", err)
	}
	if err := s.Summary.Load(ctx); err != nil {
		log.Printf("Summary refresh failed: %v", err)
	}
	if err := s.Directory.Refresh(ctx); err != nil {
		log.Printf("Directory refresh failed: %v", err)
	}
}
