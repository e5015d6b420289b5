package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrNotEventCreator = errors.New("only the event creator may modify it")
)

type Event struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	StartTime    time.Time      `json:"start_time"`
	EndTime      time.Time      `json:"end_time"`
	EventDay     string         `json:"event_day"`
	Speaker      string         `json:"speaker"`
	Reminder     bool           `json:"reminder"`
	ReminderSent bool           `json:"-"`
	CreatorID    uuid.UUID      `json:"creator_id"`
	Reactions    ReactionLedger `json:"reactions"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type EventSaveRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	EventDay    string    `json:"event_day" validate:"required"`
	Speaker     string    `json:"speaker" validate:"required"`
	Reminder    bool      `json:"reminder"`
}

// ImageUpload is the inbound image payload before it reaches the blob store.
type ImageUpload struct {
	Name    string
	Content io.Reader
}

// DueReminder pairs an event with its creator's address for the reminder
// worker.
type DueReminder struct {
	Event        *Event
	CreatorEmail string
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, eventID uuid.UUID) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, eventID uuid.UUID) error

	// UpdateLedger applies fn to the event's reaction ledger as a single
	// atomic read-modify-write. An error from fn aborts without mutation.
	UpdateLedger(ctx context.Context, eventID uuid.UUID, fn func(*ReactionLedger) error) (ReactionCounts, error)

	DueReminders(ctx context.Context, before time.Time) ([]*DueReminder, error)
	MarkReminderSent(ctx context.Context, eventID uuid.UUID) error
}

type EventService interface {
	Create(ctx context.Context, req EventSaveRequest, image ImageUpload, creatorID uuid.UUID) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Get(ctx context.Context, eventID uuid.UUID) (*Event, error)
	Update(ctx context.Context, eventID uuid.UUID, req EventSaveRequest, actorID uuid.UUID) error
	Delete(ctx context.Context, eventID uuid.UUID, actorID uuid.UUID) error
	React(ctx context.Context, eventID, userID uuid.UUID, kind Reaction) (ReactionCounts, error)
	Counts(ctx context.Context, eventID uuid.UUID) (ReactionCounts, error)
}

// BlobStore stores uploaded images and returns an opaque handle.
type BlobStore interface {
	Store(ctx context.Context, name string, content io.Reader) (string, error)
	Delete(ctx context.Context, handle string) error
}
