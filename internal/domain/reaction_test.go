package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertLedgerConsistent(t *testing.T, l *ReactionLedger) {
	t.Helper()

	likes, dislikes := 0, 0
	for _, r := range l.UserReactions {
		switch r {
		case ReactionLike:
			likes++
		case ReactionDislike:
			dislikes++
		}
	}

	assert.Equal(t, likes, l.Likes, "likes counter must match ledger tally")
	assert.Equal(t, dislikes, l.Dislikes, "dislikes counter must match ledger tally")
}

func TestReactFirstReaction(t *testing.T) {
	userID := uuid.New()

	ledger := NewReactionLedger()
	counts, err := ledger.React(userID, ReactionLike)
	require.NoError(t, err)

	assert.Equal(t, ReactionCounts{Likes: 1, Dislikes: 0}, counts)
	assert.Equal(t, ReactionLike, ledger.UserReactions[userID.String()])
	assertLedgerConsistent(t, &ledger)

	ledger = NewReactionLedger()
	counts, err = ledger.React(userID, ReactionDislike)
	require.NoError(t, err)

	assert.Equal(t, ReactionCounts{Likes: 0, Dislikes: 1}, counts)
	assertLedgerConsistent(t, &ledger)
}

func TestReactRepeatSameDirectionFails(t *testing.T) {
	userID := uuid.New()

	ledger := NewReactionLedger()
	_, err := ledger.React(userID, ReactionLike)
	require.NoError(t, err)

	counts, err := ledger.React(userID, ReactionLike)
	require.ErrorIs(t, err, ErrAlreadyLiked)
	assert.Equal(t, ReactionCounts{Likes: 1, Dislikes: 0}, counts, "failed react must not mutate")

	_, err = ledger.React(userID, ReactionDislike)
	require.NoError(t, err)

	counts, err = ledger.React(userID, ReactionDislike)
	require.ErrorIs(t, err, ErrAlreadyDisliked)
	assert.Equal(t, ReactionCounts{Likes: 0, Dislikes: 1}, counts)
	assertLedgerConsistent(t, &ledger)
}

func TestReactSwitchDirection(t *testing.T) {
	userID := uuid.New()

	ledger := NewReactionLedger()
	_, err := ledger.React(userID, ReactionLike)
	require.NoError(t, err)

	counts, err := ledger.React(userID, ReactionDislike)
	require.NoError(t, err)

	assert.Equal(t, ReactionCounts{Likes: 0, Dislikes: 1}, counts)
	assert.Len(t, ledger.UserReactions, 1, "switch must keep exactly one entry per user")
	assert.Equal(t, ReactionDislike, ledger.UserReactions[userID.String()])
	assertLedgerConsistent(t, &ledger)

	counts, err = ledger.React(userID, ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, ReactionCounts{Likes: 1, Dislikes: 0}, counts)
	assertLedgerConsistent(t, &ledger)
}

func TestReactInvalidKind(t *testing.T) {
	ledger := NewReactionLedger()
	_, err := ledger.React(uuid.New(), Reaction("love"))
	require.ErrorIs(t, err, ErrInvalidReaction)
	assert.Empty(t, ledger.UserReactions)
}

func TestReactTwoUserScenario(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	ledger := NewReactionLedger()

	counts, err := ledger.React(userA, ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, ReactionCounts{Likes: 1, Dislikes: 0}, counts)

	counts, err = ledger.React(userB, ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, ReactionCounts{Likes: 1, Dislikes: 1}, counts)

	counts, err = ledger.React(userA, ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, ReactionCounts{Likes: 0, Dislikes: 2}, counts)

	counts, err = ledger.React(userB, ReactionDislike)
	require.ErrorIs(t, err, ErrAlreadyDisliked)
	assert.Equal(t, ReactionCounts{Likes: 0, Dislikes: 2}, counts)

	assertLedgerConsistent(t, &ledger)
}

func TestCountsIdempotent(t *testing.T) {
	ledger := NewReactionLedger()
	_, err := ledger.React(uuid.New(), ReactionLike)
	require.NoError(t, err)

	first := ledger.Counts()
	second := ledger.Counts()
	assert.Equal(t, first, second)
}
