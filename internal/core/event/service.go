// Package event implements event CRUD and the per-user reaction ledger.
package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"edumeet/internal/domain"
	"edumeet/internal/logger"
)

// ReactionBroadcaster pushes updated counts to connected clients after a
// successful reaction.
type ReactionBroadcaster interface {
	ReactionsUpdated(eventID uuid.UUID, counts domain.ReactionCounts)
}

type service struct {
	repo      domain.EventRepository
	blobs     domain.BlobStore
	broadcast ReactionBroadcaster
	log       logger.Logger
}

func NewService(repo domain.EventRepository, blobs domain.BlobStore, broadcast ReactionBroadcaster, log logger.Logger) domain.EventService {
	return &service{
		repo:      repo,
		blobs:     blobs,
		broadcast: broadcast,
		log:       log,
	}
}

func (s *service) Create(ctx context.Context, req domain.EventSaveRequest, image domain.ImageUpload, creatorID uuid.UUID) (*domain.Event, error) {
	handle, err := s.blobs.Store(ctx, image.Name, image.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store event image: %w", err)
	}

	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Image:       handle,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		EventDay:    req.EventDay,
		Speaker:     req.Speaker,
		Reminder:    req.Reminder,
		CreatorID:   creatorID,
		Reactions:   domain.NewReactionLedger(),
	}

	if err := s.repo.Create(ctx, event); err != nil {
		if delErr := s.blobs.Delete(ctx, handle); delErr != nil {
			s.log.Warn("event: orphaned image after failed create", "handle", handle, "error", delErr)
		}
		return nil, err
	}

	return event, nil
}

func (s *service) List(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return s.repo.GetByID(ctx, eventID)
}

func (s *service) Update(ctx context.Context, eventID uuid.UUID, req domain.EventSaveRequest, actorID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatorID != actorID {
		return domain.ErrNotEventCreator
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.EventDay = req.EventDay
	event.Speaker = req.Speaker
	event.Reminder = req.Reminder

	return s.repo.Update(ctx, event)
}

func (s *service) Delete(ctx context.Context, eventID uuid.UUID, actorID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatorID != actorID {
		return domain.ErrNotEventCreator
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, event.Image); err != nil {
		s.log.Warn("event: failed to delete image", "handle", event.Image, "error", err)
	}

	return nil
}

// React applies one like/dislike transition. The repository runs the mutation
// as a single atomic read-modify-write on the event row, so two racing
// reactions for the same user cannot double-count.
func (s *service) React(ctx context.Context, eventID, userID uuid.UUID, kind domain.Reaction) (domain.ReactionCounts, error) {
	counts, err := s.repo.UpdateLedger(ctx, eventID, func(l *domain.ReactionLedger) error {
		_, reactErr := l.React(userID, kind)
		return reactErr
	})
	if err != nil {
		return counts, err
	}

	if s.broadcast != nil {
		s.broadcast.ReactionsUpdated(eventID, counts)
	}

	return counts, nil
}

func (s *service) Counts(ctx context.Context, eventID uuid.UUID) (domain.ReactionCounts, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ReactionCounts{}, err
		}
		return domain.ReactionCounts{}, fmt.Errorf("failed to load event: %w", err)
	}

	return event.Reactions.Counts(), nil
}
