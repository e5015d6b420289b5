package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edumeet/internal/domain"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) domain.EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `
	id, title, description, image, start_time, end_time, event_day, speaker,
	reminder, reminder_sent, creator_id, likes, dislikes, user_reactions,
	created_at, updated_at
`

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (
			id, title, description, image, start_time, end_time, event_day,
			speaker, reminder, creator_id, likes, dislikes, user_reactions,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	reactions, err := json.Marshal(event.Reactions.UserReactions)
	if err != nil {
		return fmt.Errorf("failed to marshal reactions: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.Image,
		event.StartTime,
		event.EndTime,
		event.EventDay,
		event.Speaker,
		event.Reminder,
		event.CreatorID,
		event.Reactions.Likes,
		event.Reactions.Dislikes,
		reactions,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}

	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_time = $3, end_time = $4,
			event_day = $5, speaker = $6, reminder = $7, updated_at = $8
		WHERE id = $9
	`

	ct, err := r.db.Exec(ctx, query,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.EventDay,
		event.Speaker,
		event.Reminder,
		time.Now().UTC(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

func (r *EventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// UpdateLedger runs fn against the event's ledger inside a transaction that
// locks the event row, so the read-modify-write is atomic against concurrent
// reactions. Counters and the reaction map are written back together.
func (r *EventRepository) UpdateLedger(ctx context.Context, eventID uuid.UUID, fn func(*domain.ReactionLedger) error) (domain.ReactionCounts, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.ReactionCounts{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT likes, dislikes, user_reactions FROM events WHERE id = $1 FOR UPDATE`

	ledger := domain.NewReactionLedger()
	var rawReactions []byte
	if err := tx.QueryRow(ctx, query, eventID).Scan(&ledger.Likes, &ledger.Dislikes, &rawReactions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReactionCounts{}, domain.ErrEventNotFound
		}
		return domain.ReactionCounts{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	if len(rawReactions) > 0 {
		if err := json.Unmarshal(rawReactions, &ledger.UserReactions); err != nil {
			return domain.ReactionCounts{}, fmt.Errorf("failed to unmarshal reactions: %w", err)
		}
	}

	if err := fn(&ledger); err != nil {
		return ledger.Counts(), err
	}

	updated, err := json.Marshal(ledger.UserReactions)
	if err != nil {
		return domain.ReactionCounts{}, fmt.Errorf("failed to marshal reactions: %w", err)
	}

	update := `UPDATE events SET likes = $1, dislikes = $2, user_reactions = $3, updated_at = $4 WHERE id = $5`
	if _, err := tx.Exec(ctx, update, ledger.Likes, ledger.Dislikes, updated, time.Now().UTC(), eventID); err != nil {
		return domain.ReactionCounts{}, fmt.Errorf("failed to store ledger: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ReactionCounts{}, fmt.Errorf("failed to commit ledger update: %w", err)
	}

	return ledger.Counts(), nil
}

func (r *EventRepository) DueReminders(ctx context.Context, before time.Time) ([]*domain.DueReminder, error) {
	query := `
		SELECT ` + prefixedEventColumns("e") + `, u.email
		FROM events e
		JOIN users u ON e.creator_id = u.id
		WHERE e.reminder AND NOT e.reminder_sent
		  AND e.start_time > now() AND e.start_time <= $1
	`

	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var due []*domain.DueReminder
	for rows.Next() {
		var event domain.Event
		var rawReactions []byte
		var email string

		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Image,
			&event.StartTime,
			&event.EndTime,
			&event.EventDay,
			&event.Speaker,
			&event.Reminder,
			&event.ReminderSent,
			&event.CreatorID,
			&event.Reactions.Likes,
			&event.Reactions.Dislikes,
			&rawReactions,
			&event.CreatedAt,
			&event.UpdatedAt,
			&email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due reminder: %w", err)
		}

		due = append(due, &domain.DueReminder{Event: &event, CreatorEmail: email})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return due, nil
}

func (r *EventRepository) MarkReminderSent(ctx context.Context, eventID uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `UPDATE events SET reminder_sent = true WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	var rawReactions []byte

	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Image,
		&event.StartTime,
		&event.EndTime,
		&event.EventDay,
		&event.Speaker,
		&event.Reminder,
		&event.ReminderSent,
		&event.CreatorID,
		&event.Reactions.Likes,
		&event.Reactions.Dislikes,
		&rawReactions,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}

	event.Reactions.UserReactions = make(map[string]domain.Reaction)
	if len(rawReactions) > 0 {
		if err := json.Unmarshal(rawReactions, &event.Reactions.UserReactions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reactions: %w", err)
		}
	}

	return &event, nil
}

func prefixedEventColumns(alias string) string {
	return fmt.Sprintf(`
		%[1]s.id, %[1]s.title, %[1]s.description, %[1]s.image, %[1]s.start_time,
		%[1]s.end_time, %[1]s.event_day, %[1]s.speaker, %[1]s.reminder,
		%[1]s.reminder_sent, %[1]s.creator_id, %[1]s.likes, %[1]s.dislikes,
		%[1]s.user_reactions, %[1]s.created_at, %[1]s.updated_at`, alias)
}
