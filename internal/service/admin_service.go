package service

import (
	"context"
	"errors"
	"fmt"

	"parkdesk/internal/client"
	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
)

var (
	ErrMaxSpotsOutOfRange = errors.New("maximum spots must be between 1 and 10")
	ErrLotOccupied        = errors.New("lot has occupied spots")
	ErrNotEnoughVacant    = errors.New("not enough vacant spots to remove")
	ErrDeleteCancelled    = errors.New("delete cancelled by user")
)

const maxSpotsLimit = 10

// AdminService drives the admin dashboard: lot CRUD with spot-count
// reconciliation, user listing and the summary statistics feed.
type AdminService struct {
	Client   *client.Client
	Notifier notify.Notifier

	// Confirm gates lot deletion; nil refuses deletes.
	Confirm func(prompt string) bool
}

func NewAdminService(c *client.Client, n notify.Notifier) *AdminService {
	return &AdminService{Client: c, Notifier: n}
}

func (s *AdminService) Lots(ctx context.Context) ([]entities.ParkingLot, error) {
	return s.Client.AdminLots(ctx)
}

func (s *AdminService) AddLot(ctx context.Context, req entities.LotRequest) error {
	if req.MaxSpots < 1 || req.MaxSpots > maxSpotsLimit {
		s.Notifier.Notify(notify.Error, "Maximum spots must be between 1 and 10")
		return ErrMaxSpotsOutOfRange
	}
	if _, err := s.Client.CreateLot(ctx, req); err != nil {
		s.Notifier.Notify(notify.Error, "Error adding parking lot")
		return err
	}
	s.Notifier.Notify(notify.Success, "Parking lot added successfully")
	return nil
}

// UpdateLot writes the new lot details and then reconciles the spot count:
// growing adds vacant spots, shrinking removes vacant spots only. When fewer
// vacant spots exist than the shrink requires, the lot details stay updated
// but no spots are removed.
func (s *AdminService) UpdateLot(ctx context.Context, lotID int, req entities.LotRequest) error {
	if req.MaxSpots < 1 || req.MaxSpots > maxSpotsLimit {
		s.Notifier.Notify(notify.Error, "Maximum spots must be between 1 and 10")
		return ErrMaxSpotsOutOfRange
	}

	current, err := s.findLot(ctx, lotID)
	if err != nil {
		return err
	}
	oldMaxSpots := current.MaxSpots

	if err := s.Client.UpdateLot(ctx, lotID, req); err != nil {
		s.Notifier.Notify(notify.Error, "Error updating parking lot")
		return err
	}

	switch {
	case req.MaxSpots > oldMaxSpots:
		for i := 0; i < req.MaxSpots-oldMaxSpots; i++ {
			if err := s.Client.AddSpot(ctx, lotID); err != nil {
				return fmt.Errorf("add spot to lot %d: %w", lotID, err)
			}
		}
	case req.MaxSpots < oldMaxSpots:
		spots, err := s.Client.LotSpots(ctx, lotID)
		if err != nil {
			return fmt.Errorf("list spots of lot %d: %w", lotID, err)
		}
		var vacant []entities.Spot
		for _, spot := range spots {
			if spot.Status == entities.SpotVacant {
				vacant = append(vacant, spot)
			}
		}
		removeCount := oldMaxSpots - req.MaxSpots
		if len(vacant) < removeCount {
			s.Notifier.Notify(notify.Error, "Not enough vacant spots to remove")
			return ErrNotEnoughVacant
		}
		for _, spot := range vacant[:removeCount] {
			if err := s.Client.DeleteSpot(ctx, spot.ID); err != nil {
				return fmt.Errorf("remove spot %d: %w", spot.ID, err)
			}
		}
	}

	s.Notifier.Notify(notify.Success, "Parking lot updated")
	return nil
}

// DeleteLot refuses to delete a lot with occupied spots, then asks for
// confirmation.
func (s *AdminService) DeleteLot(ctx context.Context, lotID int) error {
	lot, err := s.findLot(ctx, lotID)
	if err != nil {
		return err
	}
	if lot.Occupied > 0 {
		s.Notifier.Notify(notify.Error, "In this lot slot is occupied you can not delete this lot")
		return ErrLotOccupied
	}
	if s.Confirm == nil || !s.Confirm(fmt.Sprintf("Are you sure you want to delete parking lot %q?", lot.LocationName)) {
		return ErrDeleteCancelled
	}
	if err := s.Client.DeleteLot(ctx, lotID); err != nil {
		s.Notifier.Notify(notify.Error, "Error deleting parking lot")
		return err
	}
	s.Notifier.Notify(notify.Success, "Parking lot deleted")
	return nil
}

func (s *AdminService) Users(ctx context.Context) ([]entities.User, error) {
	return s.Client.Users(ctx)
}

func (s *AdminService) Summary(ctx context.Context) (*entities.AdminSummary, error) {
	return s.Client.AdminSummary(ctx)
}

func (s *AdminService) SpotDetail(ctx context.Context, spotID int) (*entities.SpotDetail, error) {
	return s.Client.SpotDetail(ctx, spotID)
}

func (s *AdminService) UpdateProfile(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password required")
	}
	if err := s.Client.UpdateProfile(ctx, email, password); err != nil {
		s.Notifier.Notify(notify.Error, "Error updating profile")
		return err
	}
	s.Notifier.Notify(notify.Success, "Profile updated successfully")
	return nil
}

func (s *AdminService) findLot(ctx context.Context, lotID int) (*entities.ParkingLot, error) {
	lots, err := s.Client.AdminLots(ctx)
	if err != nil {
		s.Notifier.Notify(notify.Error, "Error loading parking lots")
		return nil, err
	}
	for i := range lots {
		if lots[i].ID == lotID {
			return &lots[i], nil
		}
	}
	return nil, fmt.Errorf("lot %d not found", lotID)
}
