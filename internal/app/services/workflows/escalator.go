package workflows

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Escalator runs the overdue-workflow sweep on a schedule.
type Escalator struct {
	service  *Service
	schedule string
	cron     *cron.Cron
	log      *logger.Logger
}

// NewEscalator creates an escalator. schedule is a cron expression; an
// empty schedule defaults to every ten minutes.
func NewEscalator(service *Service, schedule string, log *logger.Logger) *Escalator {
	if log == nil {
		log = logger.NewDefault("workflows")
	}
	if schedule == "" {
		schedule = "@every 10m"
	}
	return &Escalator{
		service:  service,
		schedule: schedule,
		log:      log,
	}
}

// Start begins the periodic sweep.
func (e *Escalator) Start() error {
	e.cron = cron.New()
	_, err := e.cron.AddFunc(e.schedule, func() {
		if _, err := e.service.EscalateOverdue(context.Background()); err != nil {
			e.log.WithError(err).Error("escalation sweep failed")
		}
	})
	if err != nil {
		return err
	}
	e.cron.Start()
	e.log.WithField("schedule", e.schedule).Info("workflow escalator started")
	return nil
}

// Stop halts the sweep and waits for a running sweep to finish.
func (e *Escalator) Stop() {
	if e.cron != nil {
		<-e.cron.Stop().Done()
	}
}
