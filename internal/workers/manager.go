package workers

import (
	"context"

	"edumeet/internal/config"
	"edumeet/internal/domain"
	"edumeet/internal/logger"
)

type Manager struct {
	cfg       *config.Config
	log       logger.Logger
	scheduler *Scheduler

	eventRepo domain.EventRepository
	mailer    domain.Mailer
}

func NewManager(cfg *config.Config, log logger.Logger, scheduler *Scheduler, eventRepo domain.EventRepository, mailer domain.Mailer) *Manager {
	return &Manager{
		cfg:       cfg,
		log:       log,
		scheduler: scheduler,

		eventRepo: eventRepo,
		mailer:    mailer,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.log.Info("worker: manager started")

	m.scheduler.RunByDuration(ctx, m.cfg.ReminderInterval, NewReminderWorker(
		m.eventRepo,
		m.mailer,
		m.cfg.ReminderWindow,
		m.log,
	))
}
