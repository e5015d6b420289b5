package event

import (
	"context"
	"io"
	"maps"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edumeet/internal/domain"
	"edumeet/internal/logger"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*domain.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	event.ID = uuid.New()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *domain.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, eventID uuid.UUID) error {
	if _, ok := f.events[eventID]; !ok {
		return domain.ErrEventNotFound
	}
	delete(f.events, eventID)
	return nil
}

// UpdateLedger mirrors the postgres repo: fn runs against a copy and only a
// successful run is written back.
func (f *fakeEventRepo) UpdateLedger(ctx context.Context, eventID uuid.UUID, fn func(*domain.ReactionLedger) error) (domain.ReactionCounts, error) {
	event, ok := f.events[eventID]
	if !ok {
		return domain.ReactionCounts{}, domain.ErrEventNotFound
	}

	ledger := domain.ReactionLedger{
		Likes:         event.Reactions.Likes,
		Dislikes:      event.Reactions.Dislikes,
		UserReactions: maps.Clone(event.Reactions.UserReactions),
	}
	if ledger.UserReactions == nil {
		ledger.UserReactions = make(map[string]domain.Reaction)
	}

	if err := fn(&ledger); err != nil {
		return ledger.Counts(), err
	}

	event.Reactions = ledger
	return ledger.Counts(), nil
}

func (f *fakeEventRepo) DueReminders(ctx context.Context, before time.Time) ([]*domain.DueReminder, error) {
	return nil, nil
}

func (f *fakeEventRepo) MarkReminderSent(ctx context.Context, eventID uuid.UUID) error {
	return nil
}

type fakeBlobStore struct {
	stored  map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{stored: make(map[string][]byte)}
}

func (f *fakeBlobStore) Store(ctx context.Context, name string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	handle := "blobs/" + name
	f.stored[handle] = data
	return handle, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, handle string) error {
	delete(f.stored, handle)
	f.deleted = append(f.deleted, handle)
	return nil
}

type fakeBroadcaster struct {
	updates []broadcastUpdate
}

type broadcastUpdate struct {
	eventID uuid.UUID
	counts  domain.ReactionCounts
}

func (f *fakeBroadcaster) ReactionsUpdated(eventID uuid.UUID, counts domain.ReactionCounts) {
	f.updates = append(f.updates, broadcastUpdate{eventID: eventID, counts: counts})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var _ logger.Logger = nopLogger{}

func newTestService(t *testing.T) (domain.EventService, *fakeEventRepo, *fakeBlobStore, *fakeBroadcaster) {
	t.Helper()
	repo := newFakeEventRepo()
	blobs := newFakeBlobStore()
	broadcast := &fakeBroadcaster{}
	return NewService(repo, blobs, broadcast, nopLogger{}), repo, blobs, broadcast
}

func saveRequest() domain.EventSaveRequest {
	start := time.Now().Add(24 * time.Hour)
	return domain.EventSaveRequest{
		Title:       "Go Meetup",
		Description: "Monthly meetup",
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		EventDay:    "Saturday",
		Speaker:     "R. Pike",
	}
}

func createEvent(t *testing.T, svc domain.EventService, creatorID uuid.UUID) *domain.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), saveRequest(), domain.ImageUpload{
		Name:    "poster.png",
		Content: strings.NewReader("png-bytes"),
	}, creatorID)
	require.NoError(t, err)
	return event
}

func TestCreateStoresImage(t *testing.T) {
	svc, repo, blobs, _ := newTestService(t)
	creatorID := uuid.New()

	event := createEvent(t, svc, creatorID)

	assert.Equal(t, "blobs/poster.png", event.Image)
	assert.Contains(t, blobs.stored, event.Image)
	assert.Equal(t, creatorID, event.CreatorID)
	assert.Contains(t, repo.events, event.ID)
}

func TestFirstLikeIncrementsOnlyLikes(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	event := createEvent(t, svc, uuid.New())
	userID := uuid.New()

	before, err := svc.Counts(ctx, event.ID)
	require.NoError(t, err)

	counts, err := svc.React(ctx, event.ID, userID, domain.ReactionLike)
	require.NoError(t, err)

	assert.Equal(t, before.Likes+1, counts.Likes)
	assert.Equal(t, before.Dislikes, counts.Dislikes)

	after, err := svc.Counts(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, counts, after)
}

func TestRepeatLikeFailsWithoutMutation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	event := createEvent(t, svc, uuid.New())
	userID := uuid.New()

	first, err := svc.React(ctx, event.ID, userID, domain.ReactionLike)
	require.NoError(t, err)

	_, err = svc.React(ctx, event.ID, userID, domain.ReactionLike)
	require.ErrorIs(t, err, domain.ErrAlreadyLiked)

	after, err := svc.Counts(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first, after, "counters unchanged by the failed second call")
}

func TestSwitchReaction(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()
	event := createEvent(t, svc, uuid.New())
	userID := uuid.New()

	first, err := svc.React(ctx, event.ID, userID, domain.ReactionLike)
	require.NoError(t, err)

	second, err := svc.React(ctx, event.ID, userID, domain.ReactionDislike)
	require.NoError(t, err)

	assert.Equal(t, first.Likes-1, second.Likes)
	assert.Equal(t, first.Dislikes+1, second.Dislikes)

	stored := repo.events[event.ID]
	require.Len(t, stored.Reactions.UserReactions, 1)
	assert.Equal(t, domain.ReactionDislike, stored.Reactions.UserReactions[userID.String()])
}

func TestReactUnknownEvent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.React(context.Background(), uuid.New(), uuid.New(), domain.ReactionLike)
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCountsUnknownEvent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Counts(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCountsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	event := createEvent(t, svc, uuid.New())

	_, err := svc.React(ctx, event.ID, uuid.New(), domain.ReactionDislike)
	require.NoError(t, err)

	first, err := svc.Counts(ctx, event.ID)
	require.NoError(t, err)
	second, err := svc.Counts(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReactBroadcastsCounts(t *testing.T) {
	svc, _, _, broadcast := newTestService(t)
	ctx := context.Background()
	event := createEvent(t, svc, uuid.New())
	userID := uuid.New()

	counts, err := svc.React(ctx, event.ID, userID, domain.ReactionLike)
	require.NoError(t, err)

	require.Len(t, broadcast.updates, 1)
	assert.Equal(t, event.ID, broadcast.updates[0].eventID)
	assert.Equal(t, counts, broadcast.updates[0].counts)

	// A failed transition must not broadcast.
	_, err = svc.React(ctx, event.ID, userID, domain.ReactionLike)
	require.Error(t, err)
	assert.Len(t, broadcast.updates, 1)
}

func TestUpdateRequiresCreator(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	creatorID := uuid.New()
	event := createEvent(t, svc, creatorID)

	err := svc.Update(ctx, event.ID, saveRequest(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotEventCreator)

	require.NoError(t, svc.Update(ctx, event.ID, saveRequest(), creatorID))
}

func TestDeleteRequiresCreatorAndRemovesImage(t *testing.T) {
	svc, repo, blobs, _ := newTestService(t)
	ctx := context.Background()
	creatorID := uuid.New()
	event := createEvent(t, svc, creatorID)

	err := svc.Delete(ctx, event.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotEventCreator)

	require.NoError(t, svc.Delete(ctx, event.ID, creatorID))
	assert.NotContains(t, repo.events, event.ID)
	assert.Contains(t, blobs.deleted, event.Image)
}
