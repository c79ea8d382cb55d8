package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/proposal-service/domain/errors"
	"reviewdesk/contexts/programme/proposal-service/ports"
	"reviewdesk/internal/shared/notify"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	proposals map[string]entities.Proposal
	messages  map[string]entities.Message

	notifications []notify.Notification

	now time.Time
}

func NewStore(seed []entities.Proposal) *Store {
	proposals := make(map[string]entities.Proposal, len(seed))
	for _, proposal := range seed {
		proposals[proposal.ProposalID] = proposal
	}
	return &Store{
		proposals: proposals,
		messages:  make(map[string]entities.Message),
	}
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

func (s *Store) Send(_ context.Context, notification notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notification)
	return nil
}

// Notifications returns a copy of everything sent so far.
func (s *Store) Notifications() []notify.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]notify.Notification(nil), s.notifications...)
}

func (s *Store) SaveProposal(_ context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[strings.TrimSpace(proposal.ProposalID)] = proposal
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (s *Store) UpdateProposalState(
	_ context.Context,
	proposalID string,
	from, to entities.ProposalState,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return domainerrors.ErrProposalNotFound
	}
	if proposal.State != from {
		return domainerrors.ErrInvalidStateTransition
	}
	proposal.State = to
	proposal.UpdatedAt = updatedAt.UTC()
	s.proposals[proposal.ProposalID] = proposal
	return nil
}

func (s *Store) ForceProposalState(
	_ context.Context,
	proposalID string,
	to entities.ProposalState,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	proposal, ok := s.proposals[strings.TrimSpace(proposalID)]
	if !ok {
		return domainerrors.ErrProposalNotFound
	}
	proposal.State = to
	proposal.UpdatedAt = updatedAt.UTC()
	s.proposals[proposal.ProposalID] = proposal
	return nil
}

func (s *Store) ListProposals(_ context.Context, filter ports.ProposalFilter) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Proposal, 0, len(s.proposals))
	for _, proposal := range s.proposals {
		if matchesFilter(proposal, filter) {
			items = append(items, proposal)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].State != items[j].State {
			return items[i].State < items[j].State
		}
		if !items[i].UpdatedAt.Equal(items[j].UpdatedAt) {
			return items[i].UpdatedAt.Before(items[j].UpdatedAt)
		}
		return items[i].ProposalID < items[j].ProposalID
	})
	return items, nil
}

func (s *Store) NextProposalInState(
	_ context.Context,
	state entities.ProposalState,
	after entities.Proposal,
) (entities.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.ProposalID == after.ProposalID || proposal.State != state {
			continue
		}
		if proposal.UpdatedAt.Before(after.UpdatedAt) {
			continue
		}
		candidates = append(candidates, proposal)
	}
	if len(candidates) == 0 {
		return entities.Proposal{}, false, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].UpdatedAt.Equal(candidates[j].UpdatedAt) {
			return candidates[i].UpdatedAt.Before(candidates[j].UpdatedAt)
		}
		return candidates[i].ProposalID < candidates[j].ProposalID
	})
	return candidates[0], true, nil
}

func (s *Store) CountProposalsByState(_ context.Context) (map[entities.ProposalState]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[entities.ProposalState]int)
	for _, proposal := range s.proposals {
		counts[proposal.State]++
	}
	return counts, nil
}

func (s *Store) SaveMessage(_ context.Context, message entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[strings.TrimSpace(message.MessageID)] = message
	return nil
}

func (s *Store) ListMessagesByProposal(_ context.Context, proposalID string) ([]entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Message, 0)
	for _, message := range s.messages {
		if message.ProposalID == strings.TrimSpace(proposalID) {
			items = append(items, message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].MessageID < items[j].MessageID
	})
	return items, nil
}

func (s *Store) MarkMessagesRead(_ context.Context, proposalID string, toAdmin bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, message := range s.messages {
		if message.ProposalID != strings.TrimSpace(proposalID) {
			continue
		}
		if message.IsToAdmin != toAdmin || message.HasBeenRead {
			continue
		}
		message.HasBeenRead = true
		s.messages[id] = message
		count++
	}
	return count, nil
}

func (s *Store) CountUnreadToAdmin(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, message := range s.messages {
		if message.IsToAdmin && !message.HasBeenRead {
			count++
		}
	}
	return count, nil
}

func matchesFilter(proposal entities.Proposal, filter ports.ProposalFilter) bool {
	if len(filter.Types) > 0 && !containsType(filter.Types, proposal.Type) {
		return false
	}
	if len(filter.States) > 0 && !containsState(filter.States, proposal.State) {
		return false
	}
	if filter.NeedsHelp != nil && proposal.NeedsHelp != *filter.NeedsHelp {
		return false
	}
	if filter.NeedsMoney != nil && proposal.NeedsMoney != *filter.NeedsMoney {
		return false
	}
	return true
}

func containsType(types []entities.ProposalType, target entities.ProposalType) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

func containsState(states []entities.ProposalState, target entities.ProposalState) bool {
	for _, s := range states {
		if s == target {
			return true
		}
	}
	return false
}

var _ ports.ProposalRepository = (*Store)(nil)
var _ ports.MessageRepository = (*Store)(nil)
var _ ports.Notifier = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
