package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"parkdesk/internal/apierr"
	"parkdesk/internal/client"
	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
)

var ErrVacateCancelled = errors.New("vacate cancelled by user")

// VacateService releases reservations. Vacate releases the user's single
// active reservation; VacateSpot targets one spot in multi-reservation
// deployments and asks for confirmation first, since it is destructive.
type VacateService struct {
	Client    *client.Client
	Notifier  notify.Notifier
	Directory *DirectoryService
	Summary   *SummaryService
	UserID    int

	// Confirm gates VacateSpot. A nil Confirm means no prompt is available
	// and the specific-spot vacate is refused.
	Confirm func(prompt string) bool
}

func NewVacateService(c *client.Client, n notify.Notifier, dir *DirectoryService, sum *SummaryService, userID int) *VacateService {
	return &VacateService{Client: c, Notifier: n, Directory: dir, Summary: sum, UserID: userID}
}

func (s *VacateService) Vacate(ctx context.Context) error {
	return s.submit(ctx, entities.VacateRequest{UserID: s.UserID})
}

func (s *VacateService) VacateSpot(ctx context.Context, spotID int, vehicleNumber string) error {
	prompt := fmt.Sprintf("Vacate spot %d (vehicle %s)?", spotID, vehicleNumber)
	if s.Confirm == nil || !s.Confirm(prompt) {
		return ErrVacateCancelled
	}
	return s.submit(ctx, entities.VacateRequest{
		UserID:        s.UserID,
		SpotID:        spotID,
		VehicleNumber: vehicleNumber,
	})
}

func (s *VacateService) submit(ctx context.Context, req entities.VacateRequest) error {
	_, err := s.Client.Vacate(ctx, req)
	if apiErr, ok := apierr.FromServer(err); ok {
		s.Notifier.Notify(notify.Error, apiErr.Error())
		return err
	}
	if err != nil {
		s.Notifier.Notify(notify.Error, "Error vacating spot. Please try again.")
		return err
	}

	s.Notifier.Notify(notify.Success, "Spot vacated successfully!")
	if err := s.Summary.CheckActive(ctx); err != nil {
		log.Printf("Active-reservation refresh failed: %v", err)
	}
	if err := s.Summary.Load(ctx); err != nil {
		log.Printf("Summary refresh failed: %v", err)
	}
	if err := s.Directory.Refresh(ctx); err != nil {
		log.Printf("Directory refresh failed: %v", err)
	}
	return nil
}
