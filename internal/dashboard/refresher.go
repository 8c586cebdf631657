package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSpec reloads the dashboard every five minutes.
const DefaultRefreshSpec = "@every 5m"

// Refresher periodically reloads a dashboard.
type Refresher struct {
	cron      *cron.Cron
	dashboard *Dashboard
	timeout   time.Duration
}

// NewRefresher schedules ReloadAll on the given cron spec. Each run is bounded
// by timeout; zero means one minute.
func NewRefresher(d *Dashboard, spec string, timeout time.Duration) (*Refresher, error) {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	r := &Refresher{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		dashboard: d,
		timeout:   timeout,
	}

	if _, err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return nil, fmt.Errorf("scheduling refresh %q: %w", spec, err)
	}

	return r, nil
}

// Start begins the schedule.
func (r *Refresher) Start() {
	r.dashboard.log.Info("Starting dashboard refresher")
	r.cron.Start()
}

// Stop halts the schedule and waits for a running reload to finish.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.dashboard.log.Info("Dashboard refresher stopped")
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.dashboard.ReloadAll(ctx); err != nil {
		r.dashboard.log.Warn("Scheduled reload failed", "error", err)
	}
}
