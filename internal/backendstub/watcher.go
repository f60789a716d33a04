package backendstub

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"parkdesk/internal/entities"
)

// watcher periodically compares vacant counts against the previous sweep and
// pushes spots_available / spots_full transitions plus a fresh
// availability_update frame.
type watcher struct {
	cron *cron.Cron
	mu   sync.Mutex
	prev map[int]int
}

// StartWatcher begins the background availability sweep. Call StopWatcher to
// halt it.
func (s *Server) StartWatcher(every time.Duration) error {
	if s.watcher != nil {
		return fmt.Errorf("watcher already running")
	}
	w := &watcher{cron: cron.New(), prev: s.Store.AvailabilitySnapshot()}
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %s", every), func() { s.sweep() }); err != nil {
		return fmt.Errorf("schedule availability sweep: %w", err)
	}
	s.watcher = w
	w.cron.Start()
	return nil
}

func (s *Server) StopWatcher() {
	if s.watcher == nil {
		return
	}
	// Wait for an in-flight sweep before dropping the handle.
	<-s.watcher.cron.Stop().Done()
	s.watcher = nil
}

// sweep runs one availability comparison. Exported behavior is driven via
// StartWatcher; tests call this directly through Sweep.
func (s *Server) sweep() {
	s.watcher.mu.Lock()
	defer s.watcher.mu.Unlock()
	lots := s.Store.Lots()
	current := make(map[int]int, len(lots))
	for _, l := range lots {
		current[l.ID] = l.AvailableSpots
		prev, seen := s.watcher.prev[l.ID]
		if !seen {
			continue
		}
		switch {
		case prev == 0 && l.AvailableSpots > 0:
			s.Hub.Broadcast(entities.EventSpotsAvailable, entities.CapacityEvent{
				LotID:          l.ID,
				AvailableSpots: l.AvailableSpots,
				Message:        "Spots available in " + l.LocationName,
			})
		case prev > 0 && l.AvailableSpots == 0:
			s.Hub.Broadcast(entities.EventSpotsFull, entities.CapacityEvent{
				LotID:   l.ID,
				Message: l.LocationName + " is now full",
			})
		}
	}
	s.watcher.prev = current
	s.Hub.Broadcast(entities.EventAvailabilityUpdate, availabilityPayload(current))
}

// Sweep triggers one availability comparison immediately. The watcher must be
// running.
func (s *Server) Sweep() {
	if s.watcher != nil {
		s.sweep()
	}
}
