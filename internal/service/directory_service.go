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

// DirectoryService keeps the selectable lot list current. It remembers the
// last-applied filter so refreshes triggered by realtime events or the poller
// reapply it instead of reverting to the unfiltered list. Rendering is an
// idempotent full replace, so overlapping refreshes are harmless.
type DirectoryService struct {
	Client   *client.Client
	Store    *session.Store
	Notifier notify.Notifier

	mu         sync.Mutex
	lastFilter *entities.LotFilter
	entries    []view.DirectoryEntry
}

func NewDirectoryService(c *client.Client, store *session.Store, n notify.Notifier) *DirectoryService {
	return &DirectoryService{Client: c, Store: store, Notifier: n}
}

// Load fetches the lot directory. A nil or all-blank filter loads the full
// list; otherwise the filtered search is used and the filter is retained for
// later refreshes. On a filtered fetch failure the service notifies and falls
// back to an unfiltered load; if even that fails, the last cached directory
// is rendered so the interface stays usable.
func (s *DirectoryService) Load(ctx context.Context, filter *entities.LotFilter) error {
	if filter != nil && filter.IsZero() {
		filter = nil
	}

	var lots []entities.ParkingLot
	var err error
	if filter != nil {
		lots, err = s.Client.SearchLots(ctx, *filter)
		if err != nil {
			s.Notifier.Notify(notify.Error, "Error searching lots")
			return s.Load(ctx, nil)
		}
	} else {
		lots, err = s.Client.Lots(ctx)
		if err != nil {
			s.Notifier.Notify(notify.Error, "Error loading parking lots")
			s.renderCached()
			return err
		}
	}

	s.mu.Lock()
	s.lastFilter = filter
	s.entries = view.Directory(lots)
	s.mu.Unlock()

	if filter == nil && s.Store != nil {
		if err := s.Store.SaveLots(lots); err != nil {
			log.Printf("Failed to cache lot directory: %v", err)
		}
	}
	return nil
}

// Refresh reloads the directory with the last-applied filter.
func (s *DirectoryService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	filter := s.lastFilter
	s.mu.Unlock()
	return s.Load(ctx, filter)
}

// PatchAvailability updates visible counts in place from a push update, no
// refetch.
func (s *DirectoryService) PatchAvailability(counts map[int]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view.PatchAvailability(s.entries, counts)
}

func (s *DirectoryService) Entries() []view.DirectoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]view.DirectoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *DirectoryService) LastFilter() *entities.LotFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFilter == nil {
		return nil
	}
	f := *s.lastFilter
	return &f
}

func (s *DirectoryService) renderCached() {
	if s.Store == nil {
		return
	}
	lots, err := s.Store.CachedLots()
	if err != nil || len(lots) == 0 {
		return
	}
	s.mu.Lock()
	s.entries = view.Directory(lots)
	s.mu.Unlock()
}
