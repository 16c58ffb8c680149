package service

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultEvictSchedule runs idle eviction every five minutes.
const DefaultEvictSchedule = "0 */5 * * * *"

// Evictor periodically drops idle workspaces.
type Evictor struct {
	manager *Manager
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewEvictor(manager *Manager, logger *zap.Logger) *Evictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evictor{
		manager: manager,
		logger:  logger,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start schedules eviction. schedule uses the six-field cron format; empty
// means DefaultEvictSchedule.
func (e *Evictor) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultEvictSchedule
	}

	_, err := e.cron.AddFunc(schedule, func() {
		e.manager.EvictIdle()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule workspace eviction: %w", err)
	}

	e.logger.Info("Workspace evictor started", zap.String("schedule", schedule))
	e.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running eviction to finish.
func (e *Evictor) Stop() {
	<-e.cron.Stop().Done()
}
