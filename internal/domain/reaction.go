package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAlreadyLiked    = errors.New("event already liked")
	ErrAlreadyDisliked = errors.New("event already disliked")
	ErrInvalidReaction = errors.New("invalid reaction")
)

type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

func (r Reaction) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}

type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// ReactionLedger records which users reacted to an event and how. Likes and
// Dislikes mirror the tallies of UserReactions and are updated in the same
// step as the map, never derived lazily.
type ReactionLedger struct {
	Likes         int                 `json:"likes"`
	Dislikes      int                 `json:"dislikes"`
	UserReactions map[string]Reaction `json:"user_reactions"`
}

func NewReactionLedger() ReactionLedger {
	return ReactionLedger{UserReactions: make(map[string]Reaction)}
}

// React applies a single user reaction and returns the updated counts.
// A user holds at most one reaction per event: a first reaction inserts it,
// repeating the same direction fails without mutation, and the opposite
// direction swaps the entry while moving one count between the counters.
func (l *ReactionLedger) React(userID uuid.UUID, kind Reaction) (ReactionCounts, error) {
	if !kind.Valid() {
		return l.Counts(), ErrInvalidReaction
	}
	if l.UserReactions == nil {
		l.UserReactions = make(map[string]Reaction)
	}

	key := userID.String()
	current, exists := l.UserReactions[key]

	if exists && current == kind {
		if kind == ReactionLike {
			return l.Counts(), ErrAlreadyLiked
		}
		return l.Counts(), ErrAlreadyDisliked
	}

	if exists {
		// Direction switch: move one count between the counters together
		// with the entry overwrite.
		if current == ReactionLike {
			l.Likes--
			l.Dislikes++
		} else {
			l.Dislikes--
			l.Likes++
		}
		l.UserReactions[key] = kind
		return l.Counts(), nil
	}

	if kind == ReactionLike {
		l.Likes++
	} else {
		l.Dislikes++
	}
	l.UserReactions[key] = kind

	return l.Counts(), nil
}

func (l *ReactionLedger) Counts() ReactionCounts {
	return ReactionCounts{Likes: l.Likes, Dislikes: l.Dislikes}
}
