package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/recanto/api/internal/model"
)

// ActivityStore is the slice of activity storage the closer sweeps.
type ActivityStore interface {
	List(ctx context.Context, filters *model.ActivityFilters, limit, offset int) ([]*model.Activity, error)
	Deactivate(ctx context.Context, activityID string) error
}

// ActivityCloser periodically deactivates activities whose schedule
// window has ended, so the catalog stops offering seats for them.
// Occupied counts are left alone; only status changes.
type ActivityCloser struct {
	store    ActivityStore
	interval time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

const closerPageSize = 100

// NewActivityCloser creates a new activity closer job
func NewActivityCloser(store ActivityStore, interval time.Duration, logger *slog.Logger) *ActivityCloser {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityCloser{
		store:    store,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the activity closer job
func (c *ActivityCloser) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run()
	c.logger.Info("activity closer started", slog.Duration("interval", c.interval))
}

// Stop gracefully stops the activity closer job
func (c *ActivityCloser) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.stopCh)
	c.wg.Wait()
	c.logger.Info("activity closer stopped")
}

func (c *ActivityCloser) run() {
	defer c.wg.Done()

	c.sweep()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *ActivityCloser) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := c.RunOnce(ctx); err != nil {
		c.logger.Error("activity sweep failed", slog.String("error", err.Error()))
	}
}

// RunOnce sweeps the active catalog once, closing every activity whose
// end time has passed. Exposed for tests and manual triggers.
func (c *ActivityCloser) RunOnce(ctx context.Context) error {
	now := time.Now()
	status := model.ActivityStatusActive
	filters := &model.ActivityFilters{Status: &status}

	closed := 0
	for offset := 0; ; offset += closerPageSize {
		activities, err := c.store.List(ctx, filters, closerPageSize, offset)
		if err != nil {
			return err
		}
		if len(activities) == 0 {
			break
		}

		for _, activity := range activities {
			if activity.EndsAt.After(now) {
				continue
			}
			if err := c.store.Deactivate(ctx, activity.ID); err != nil {
				c.logger.Error("failed to close ended activity",
					slog.String("activity_id", activity.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			closed++
		}

		if len(activities) < closerPageSize {
			break
		}
	}

	if closed > 0 {
		c.logger.Info("closed ended activities", slog.Int("count", closed))
	}
	return nil
}

// IsRunning returns whether the closer is running
func (c *ActivityCloser) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
