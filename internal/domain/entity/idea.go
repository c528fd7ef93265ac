package entity

import (
	"time"

	"github.com/google/uuid"
)

// IdeaStatus is the lifecycle status of a pitched product concept.
type IdeaStatus string

const (
	IdeaDraft         IdeaStatus = "draft"
	IdeaPublished     IdeaStatus = "published"
	IdeaInDevelopment IdeaStatus = "in_development"
	IdeaAvailable     IdeaStatus = "available"
	IdeaDiscontinued  IdeaStatus = "discontinued"
)

// IsValid checks if the IdeaStatus is a valid value.
func (s IdeaStatus) IsValid() bool {
	switch s {
	case IdeaDraft, IdeaPublished, IdeaInDevelopment, IdeaAvailable, IdeaDiscontinued:
		return true
	default:
		return false
	}
}

// VoteType is the direction of a community vote.
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// IsValid checks if the VoteType is a valid value.
func (v VoteType) IsValid() bool {
	return v == VoteUp || v == VoteDown
}

// VoterRecord is the single stored vote a given user currently holds on an idea.
type VoterRecord struct {
	UserID  uuid.UUID `json:"userId"`
	Vote    VoteType  `json:"vote"`
	VotedAt time.Time `json:"votedAt"`
}

// IdeaVotes holds the vote tallies and the per-user voter records.
type IdeaVotes struct {
	Upvotes   int           `json:"upvotes"`
	Downvotes int           `json:"downvotes"`
	Voters    []VoterRecord `json:"voters"`
}

// IdeaComment is a community comment embedded in an idea.
type IdeaComment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// PreOrder is a commitment to buy an idea once it is manufactured.
type PreOrder struct {
	UserID    uuid.UUID `json:"userId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}

// Idea is a pitched, not-yet-manufactured product concept subject to
// community voting and pre-orders.
type Idea struct {
	ID             uuid.UUID       `json:"id"`
	ArtisanID      uuid.UUID       `json:"artisanId"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       ProductCategory `json:"category"`
	EstimatedPrice float64         `json:"estimatedPrice"`

	Votes     IdeaVotes     `json:"votes"`
	Comments  []IdeaComment `json:"comments"`
	PreOrders []PreOrder    `json:"preOrders"`

	Status IdeaStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplyVote records a vote by userID. Each user contributes at most one
// current vote: re-voting moves the prior tally contribution to the new
// bucket instead of double-counting.
func (i *Idea) ApplyVote(userID uuid.UUID, vote VoteType, now time.Time) {
	for idx, voter := range i.Votes.Voters {
		if voter.UserID != userID {
			continue
		}

		if voter.Vote == vote {
			return // unchanged
		}

		i.decrementTally(voter.Vote)
		i.incrementTally(vote)
		i.Votes.Voters[idx].Vote = vote
		i.Votes.Voters[idx].VotedAt = now

		return
	}

	i.Votes.Voters = append(i.Votes.Voters, VoterRecord{
		UserID:  userID,
		Vote:    vote,
		VotedAt: now,
	})
	i.incrementTally(vote)
}

func (i *Idea) incrementTally(vote VoteType) {
	if vote == VoteUp {
		i.Votes.Upvotes++
	} else {
		i.Votes.Downvotes++
	}
}

func (i *Idea) decrementTally(vote VoteType) {
	if vote == VoteUp {
		if i.Votes.Upvotes > 0 {
			i.Votes.Upvotes--
		}
	} else if i.Votes.Downvotes > 0 {
		i.Votes.Downvotes--
	}
}
