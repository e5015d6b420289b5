package workers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"edumeet/internal/domain"
	"edumeet/internal/logger"
)

// ReminderWorker mails event creators shortly before flagged events start.
// An event is notified once; a failed delivery is retried on the next tick
// because the sent marker is only set after the mail goes out.
type ReminderWorker struct {
	repo   domain.EventRepository
	mailer domain.Mailer
	window time.Duration
	log    logger.Logger
}

func NewReminderWorker(repo domain.EventRepository, mailer domain.Mailer, window time.Duration, log logger.Logger) *ReminderWorker {
	return &ReminderWorker{
		repo:   repo,
		mailer: mailer,
		window: window,
		log:    log,
	}
}

func (w *ReminderWorker) Name() string {
	return "event_reminder"
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	due, err := w.repo.DueReminders(ctx, time.Now().Add(w.window))
	if err != nil {
		return fmt.Errorf("failed to load due reminders: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, reminder := range due {
		g.Go(func() error {
			subject := fmt.Sprintf("Reminder: %s starts soon", reminder.Event.Title)
			body := fmt.Sprintf(
				"Your event %q with speaker %s starts at %s.",
				reminder.Event.Title,
				reminder.Event.Speaker,
				reminder.Event.StartTime.Format(time.RFC1123),
			)

			if err := w.mailer.Send(gctx, reminder.CreatorEmail, subject, body); err != nil {
				w.log.Warn("reminder: delivery failed", "event_id", reminder.Event.ID, "error", err)
				return nil
			}

			if err := w.repo.MarkReminderSent(gctx, reminder.Event.ID); err != nil {
				w.log.Error("reminder: failed to mark sent", "event_id", reminder.Event.ID, "error", err)
			}

			return nil
		})
	}

	return g.Wait()
}
