package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"reviewdesk/contexts/programme/review-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/review-service/domain/errors"
	"reviewdesk/contexts/programme/review-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	votes     map[string]entities.Vote
	pairIndex map[string]string

	proposals map[string]ports.ProposalProjection
	sessions  map[string]ports.ReviewSession

	now time.Time
}

func NewStore(seed []entities.Vote) *Store {
	store := &Store{
		votes:     make(map[string]entities.Vote, len(seed)),
		pairIndex: make(map[string]string, len(seed)),
		proposals: make(map[string]ports.ProposalProjection),
		sessions:  make(map[string]ports.ReviewSession),
	}
	for _, vote := range seed {
		store.votes[vote.VoteID] = vote
		store.pairIndex[pairKey(vote.ReviewerID, vote.ProposalID)] = vote.VoteID
	}
	return store
}

// SetNow pins the clock for tests. Zero restores wall time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.now.IsZero() {
		return s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Shuffle is deliberately a no-op so test queues stay deterministic; the
// production shuffler lives in the random adapter.
func (s *Store) Shuffle(_ int, _ func(i, j int)) {}

func (s *Store) SetProposal(proposal ports.ProposalProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[strings.TrimSpace(proposal.ProposalID)] = proposal
}

func (s *Store) RemoveProposal(proposalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.proposals, strings.TrimSpace(proposalID))
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey(vote.ReviewerID, vote.ProposalID)
	if existingID, ok := s.pairIndex[key]; ok && existingID != vote.VoteID {
		// Uphold pair uniqueness the way the database unique index does:
		// a second row for the same pair replaces the first.
		delete(s.votes, existingID)
	}
	s.votes[vote.VoteID] = vote
	s.pairIndex[key] = vote.VoteID
	return nil
}

func (s *Store) GetVote(_ context.Context, voteID string) (entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[strings.TrimSpace(voteID)]
	if !ok {
		return entities.Vote{}, domainerrors.ErrVoteNotFound
	}
	return vote, nil
}

func (s *Store) GetVoteByPair(_ context.Context, reviewerID, proposalID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voteID, ok := s.pairIndex[pairKey(strings.TrimSpace(reviewerID), strings.TrimSpace(proposalID))]
	if !ok {
		return entities.Vote{}, false, nil
	}
	return s.votes[voteID], true, nil
}

func (s *Store) ListVotesByReviewer(_ context.Context, reviewerID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.ReviewerID == strings.TrimSpace(reviewerID) {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func (s *Store) ListVotesByProposal(_ context.Context, proposalID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if vote.ProposalID == strings.TrimSpace(proposalID) {
			items = append(items, vote)
		}
	}
	sortVotes(items)
	return items, nil
}

func (s *Store) LatestVoteByReviewer(_ context.Context, reviewerID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest entities.Vote
	found := false
	for _, vote := range s.votes {
		if vote.ReviewerID != strings.TrimSpace(reviewerID) {
			continue
		}
		if !found || vote.UpdatedAt.After(latest.UpdatedAt) {
			latest = vote
			found = true
		}
	}
	return latest, found, nil
}

func (s *Store) UpdateVotes(_ context.Context, votes []entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vote := range votes {
		if _, ok := s.votes[vote.VoteID]; !ok {
			return domainerrors.ErrVoteNotFound
		}
	}
	for _, vote := range votes {
		s.votes[vote.VoteID] = vote
		s.pairIndex[pairKey(vote.ReviewerID, vote.ProposalID)] = vote.VoteID
	}
	return nil
}

func (s *Store) ListReviewableProposals(_ context.Context) ([]ports.ProposalProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.ProposalProjection, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		if proposal.State == "anonymised" {
			items = append(items, proposal)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.Before(items[j].UpdatedAt)
		}
		return items[i].ProposalID < items[j].ProposalID
	})
	return items, nil
}

func (s *Store) GetReviewableProposal(_ context.Context, proposalID string) (ports.ProposalProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok || proposal.State != "anonymised" {
		return ports.ProposalProjection{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (s *Store) GetReviewSession(_ context.Context, reviewerID string) (ports.ReviewSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(reviewerID)]
	if !ok {
		return ports.ReviewSession{}, false, nil
	}
	return copySession(session), true, nil
}

func (s *Store) PutReviewSession(_ context.Context, reviewerID string, session ports.ReviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[strings.TrimSpace(reviewerID)] = copySession(session)
	return nil
}

func (s *Store) DeleteReviewSession(_ context.Context, reviewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(reviewerID))
	return nil
}

func copySession(session ports.ReviewSession) ports.ReviewSession {
	duplicate := session
	if session.Order != nil {
		duplicate.Order = append([]string(nil), session.Order...)
	}
	return duplicate
}

func sortVotes(items []entities.Vote) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].VoteID < items[j].VoteID
	})
}

func pairKey(reviewerID, proposalID string) string {
	return reviewerID + "|" + proposalID
}

var _ ports.VoteRepository = (*Store)(nil)
var _ ports.ProposalReader = (*Store)(nil)
var _ ports.SessionStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.Shuffler = (*Store)(nil)
