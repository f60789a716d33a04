package service

import (
	"context"
	"log"
	"sync"

	"parkdesk/internal/client"
	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
	"parkdesk/internal/session"
	"parkdesk/internal/view"
)

// SummaryService loads a user's reservation history and tracks their active
// reservation, which drives whether the reserve or the vacate panel is shown.
type SummaryService struct {
	Client   *client.Client
	Store    *session.Store
	Notifier notify.Notifier
	UserID   int

	mu     sync.Mutex
	rows   []view.SummaryRow
	active *entities.Reservation
}

func NewSummaryService(c *client.Client, store *session.Store, n notify.Notifier, userID int) *SummaryService {
	return &SummaryService{Client: c, Store: store, Notifier: n, UserID: userID}
}

// Load fetches the full history and renders it. Rows keep server order; a
// failed fetch notifies and falls back to the cached copy.
func (s *SummaryService) Load(ctx context.Context) error {
	reservations, err := s.Client.Summary(ctx, s.UserID)
	if err != nil {
		s.Notifier.Notify(notify.Error, "Error loading parking history")
		s.renderCached()
		return err
	}

	s.mu.Lock()
	s.rows = view.SummaryTable(reservations)
	s.setActiveLocked(reservations)
	s.mu.Unlock()

	if s.Store != nil {
		if err := s.Store.SaveSummary(reservations); err != nil {
			log.Printf("Failed to cache reservation history: %v", err)
		}
	}
	return nil
}

// CheckActive refreshes only the active-reservation status.
func (s *SummaryService) CheckActive(ctx context.Context) error {
	reservations, err := s.Client.Summary(ctx, s.UserID)
	if err != nil {
		s.Notifier.Notify(notify.Error, "Error checking reservation status")
		return err
	}
	s.mu.Lock()
	s.setActiveLocked(reservations)
	s.mu.Unlock()
	return nil
}

func (s *SummaryService) Rows() []view.SummaryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]view.SummaryRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// Active returns the current open reservation, or nil.
func (s *SummaryService) Active() *entities.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	r := *s.active
	return &r
}

func (s *SummaryService) setActiveLocked(reservations []entities.Reservation) {
	s.active = nil
	for _, r := range reservations {
		if r.Active() {
			active := r
			s.active = &active
			return
		}
	}
}

func (s *SummaryService) renderCached() {
	if s.Store == nil {
		return
	}
	reservations, err := s.Store.CachedSummary()
	if err != nil || len(reservations) == 0 {
		return
	}
	s.mu.Lock()
	s.rows = view.SummaryTable(reservations)
	s.setActiveLocked(reservations)
	s.mu.Unlock()
}
