package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumeet/internal/domain"
)

type fakeReminderRepo struct {
	due    []*domain.DueReminder
	marked []uuid.UUID
}

func (f *fakeReminderRepo) Create(ctx context.Context, event *domain.Event) error { return nil }
func (f *fakeReminderRepo) List(ctx context.Context) ([]*domain.Event, error)     { return nil, nil }
func (f *fakeReminderRepo) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return nil, domain.ErrEventNotFound
}
func (f *fakeReminderRepo) Update(ctx context.Context, event *domain.Event) error { return nil }
func (f *fakeReminderRepo) Delete(ctx context.Context, eventID uuid.UUID) error   { return nil }
func (f *fakeReminderRepo) UpdateLedger(ctx context.Context, eventID uuid.UUID, fn func(*domain.ReactionLedger) error) (domain.ReactionCounts, error) {
	return domain.ReactionCounts{}, domain.ErrEventNotFound
}

func (f *fakeReminderRepo) DueReminders(ctx context.Context, before time.Time) ([]*domain.DueReminder, error) {
	return f.due, nil
}

func (f *fakeReminderRepo) MarkReminderSent(ctx context.Context, eventID uuid.UUID) error {
	f.marked = append(f.marked, eventID)
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func dueReminder(email string) *domain.DueReminder {
	return &domain.DueReminder{
		Event: &domain.Event{
			ID:        uuid.New(),
			Title:     "Go Meetup",
			Speaker:   "R. Pike",
			StartTime: time.Now().Add(30 * time.Minute),
		},
		CreatorEmail: email,
	}
}

func TestReminderWorkerSendsAndMarks(t *testing.T) {
	repo := &fakeReminderRepo{due: []*domain.DueReminder{dueReminder("a@x.com"), dueReminder("b@x.com")}}
	mailer := &fakeMailer{}
	worker := NewReminderWorker(repo, mailer, time.Hour, nopLogger{})

	require.NoError(t, worker.Run(context.Background()))

	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, mailer.sent)
	assert.Len(t, repo.marked, 2)
}

func TestReminderWorkerKeepsUnsentOnDeliveryFailure(t *testing.T) {
	repo := &fakeReminderRepo{due: []*domain.DueReminder{dueReminder("a@x.com")}}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	worker := NewReminderWorker(repo, mailer, time.Hour, nopLogger{})

	require.NoError(t, worker.Run(context.Background()))

	assert.Empty(t, repo.marked, "failed delivery must leave the event due for retry")
}

func TestReminderWorkerNoDueEvents(t *testing.T) {
	repo := &fakeReminderRepo{}
	mailer := &fakeMailer{}
	worker := NewReminderWorker(repo, mailer, time.Hour, nopLogger{})

	require.NoError(t, worker.Run(context.Background()))
	assert.Empty(t, mailer.sent)
}
