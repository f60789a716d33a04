package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Poller refreshes the directory and the active-reservation status on a fixed
// interval, independent of user actions and realtime events. Overlapping
// triggers are not coalesced; redundant fetches are tolerated because
// rendering is a full replace.
type Poller struct {
	cron *cron.Cron
}

func StartPoller(interval time.Duration, directory *DirectoryService, summary *SummaryService) (*Poller, error) {
	c := cron.New()
	spec := fmt.Sprintf("@every %s", interval)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		directory.Refresh(ctx)
		summary.CheckActive(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	c.Start()
	return &Poller{cron: c}, nil
}

func (p *Poller) Stop() {
	p.cron.Stop()
}
