// Package memory backs the ranking module's ports for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainerrors "reviewdesk/contexts/programme/ranking-service/domain/errors"
	"reviewdesk/contexts/programme/ranking-service/ports"
	"reviewdesk/internal/shared/notify"
)

// Proposal is the seedable in-memory projection the store ranks over.
// VoteValues holds the values of votes currently in the voted state.
type Proposal struct {
	ProposalID       string
	Title            string
	State            string
	SubmitterID      string
	HasRejectedEmail bool
	VoteValues       []int
	UpdatedAt        time.Time
}

type Store struct {
	mu            sync.RWMutex
	proposals     map[string]Proposal
	thresholds    map[string]ports.PendingThreshold
	notifications []notify.Notification
	now           time.Time
}

func NewStore(seed []Proposal) *Store {
	store := &Store{
		proposals:  make(map[string]Proposal, len(seed)),
		thresholds: make(map[string]ports.PendingThreshold),
	}
	for _, proposal := range seed {
		store.proposals[proposal.ProposalID] = proposal
	}
	return store
}

func (s *Store) ListRoundCandidates(_ context.Context) ([]ports.RoundCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]ports.RoundCandidate, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		if proposal.State != "anonymised" && proposal.State != "reviewed" {
			continue
		}
		if len(proposal.VoteValues) == 0 {
			continue
		}
		candidates = append(candidates, ports.RoundCandidate{
			ProposalID: proposal.ProposalID,
			Title:      proposal.Title,
			State:      proposal.State,
			VotedCount: len(proposal.VoteValues),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].VotedCount != candidates[j].VotedCount {
			return candidates[i].VotedCount > candidates[j].VotedCount
		}
		return candidates[i].ProposalID < candidates[j].ProposalID
	})
	return candidates, nil
}

func (s *Store) ListRankedCandidates(_ context.Context) ([]ports.RankedCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]ports.RankedCandidate, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		if proposal.State != "reviewed" {
			continue
		}
		values := make([]int, len(proposal.VoteValues))
		copy(values, proposal.VoteValues)
		candidates = append(candidates, ports.RankedCandidate{
			ProposalID:       proposal.ProposalID,
			Title:            proposal.Title,
			SubmitterID:      proposal.SubmitterID,
			HasRejectedEmail: proposal.HasRejectedEmail,
			VoteValues:       values,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ProposalID < candidates[j].ProposalID
	})
	return candidates, nil
}

func (s *Store) CloseRound(_ context.Context, proposalIDs []string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range proposalIDs {
		if _, exists := s.proposals[id]; !exists {
			return domainerrors.ErrInvalidRankingInput
		}
	}
	for _, id := range proposalIDs {
		proposal := s.proposals[id]
		proposal.State = "reviewed"
		proposal.UpdatedAt = updatedAt
		s.proposals[id] = proposal
	}
	return nil
}

func (s *Store) ApplyAcceptance(_ context.Context, acceptIDs, rejectFlagIDs []string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range append(append([]string{}, acceptIDs...), rejectFlagIDs...) {
		if _, exists := s.proposals[id]; !exists {
			return domainerrors.ErrInvalidRankingInput
		}
	}
	for _, id := range acceptIDs {
		proposal := s.proposals[id]
		proposal.State = "accepted"
		proposal.UpdatedAt = updatedAt
		s.proposals[id] = proposal
	}
	for _, id := range rejectFlagIDs {
		proposal := s.proposals[id]
		proposal.HasRejectedEmail = true
		proposal.UpdatedAt = updatedAt
		s.proposals[id] = proposal
	}
	return nil
}

func (s *Store) GetPendingThreshold(_ context.Context, actorID, kind string) (ports.PendingThreshold, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, found := s.thresholds[thresholdKey(actorID, kind)]
	return token, found, nil
}

func (s *Store) PutPendingThreshold(_ context.Context, actorID string, token ports.PendingThreshold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds[thresholdKey(actorID, token.Kind)] = token
	return nil
}

func (s *Store) DeletePendingThreshold(_ context.Context, actorID, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.thresholds, thresholdKey(actorID, kind))
	return nil
}

func (s *Store) Send(_ context.Context, notification notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notification)
	return nil
}

// Notifications returns everything sent so far, for assertions.
func (s *Store) Notifications() []notify.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notify.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// SetNow pins the clock for tests. The zero value falls back to wall time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

// SetProposal seeds or replaces one proposal row.
func (s *Store) SetProposal(proposal Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ProposalID] = proposal
}

// GetProposal reads one proposal row back, for assertions.
func (s *Store) GetProposal(proposalID string) (Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, found := s.proposals[proposalID]
	return proposal, found
}

func thresholdKey(actorID, kind string) string {
	return actorID + "|" + kind
}

var _ ports.Repository = (*Store)(nil)
var _ ports.ThresholdStore = (*Store)(nil)
var _ ports.Notifier = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
