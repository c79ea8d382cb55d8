package ports

import (
	"context"
	"time"

	"reviewdesk/contexts/programme/review-service/domain/entities"
)

type VoteRepository interface {
	// SaveVote upserts on the unique (reviewer, proposal) pair: a second
	// write for the same pair updates the existing row.
	SaveVote(ctx context.Context, vote entities.Vote) error
	GetVote(ctx context.Context, voteID string) (entities.Vote, error)
	GetVoteByPair(ctx context.Context, reviewerID, proposalID string) (entities.Vote, bool, error)
	ListVotesByReviewer(ctx context.Context, reviewerID string) ([]entities.Vote, error)
	ListVotesByProposal(ctx context.Context, proposalID string) ([]entities.Vote, error)

	// LatestVoteByReviewer returns the reviewer's most recently modified
	// vote, used to seed session timestamps on a first visit.
	LatestVoteByReviewer(ctx context.Context, reviewerID string) (entities.Vote, bool, error)

	// UpdateVotes persists an admin bulk mutation atomically: all rows
	// change or none do.
	UpdateVotes(ctx context.Context, votes []entities.Vote) error
}

// ProposalProjection is the read-side view of a proposal this service needs.
type ProposalProjection struct {
	ProposalID  string
	Type        string
	State       string
	SubmitterID string
	Title       string
	UpdatedAt   time.Time
}

// ReviewableBy applies reviewer eligibility: reviewers never see their own
// proposals, and only administrators review installations.
func (p ProposalProjection) ReviewableBy(reviewerID string, admin bool) bool {
	if admin {
		return true
	}
	if p.SubmitterID == reviewerID {
		return false
	}
	return p.Type != "installation"
}

type ProposalReader interface {
	// ListReviewableProposals returns every proposal in the anonymised
	// state. Reviewer-specific eligibility is applied by the caller.
	ListReviewableProposals(ctx context.Context) ([]ProposalProjection, error)
	GetReviewableProposal(ctx context.Context, proposalID string) (ProposalProjection, error)
}

// ReviewSession is the per-reviewer cached queue state. A zero BuiltAt or
// LastVisit means unset.
type ReviewSession struct {
	Order     []string  `json:"order"`
	BuiltAt   time.Time `json:"built_at"`
	LastVisit time.Time `json:"last_visit"`
}

type SessionStore interface {
	GetReviewSession(ctx context.Context, reviewerID string) (ReviewSession, bool, error)
	PutReviewSession(ctx context.Context, reviewerID string, session ReviewSession) error
	DeleteReviewSession(ctx context.Context, reviewerID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Shuffler randomizes queue buckets. The production implementation draws
// fresh entropy on every call; tests may substitute a deterministic one.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}
