package postgresadapter

import (
	"context"
	"log/slog"
	"time"

	"reviewdesk/contexts/programme/ranking-service/ports"

	"gorm.io/gorm"
)

// Repository runs the ranking reads and bulk commits against the shared
// proposals and proposal_votes tables.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type roundCandidateRow struct {
	ID         string
	Title      string
	State      string
	VotedCount int
}

func (r *Repository) ListRoundCandidates(ctx context.Context) ([]ports.RoundCandidate, error) {
	var rows []roundCandidateRow
	err := r.db.WithContext(ctx).
		Table("proposals").
		Select("proposals.id, proposals.title, proposals.state, COUNT(proposal_votes.id) AS voted_count").
		Joins("JOIN proposal_votes ON proposal_votes.proposal_id = proposals.id AND proposal_votes.state = ?", "voted").
		Where("proposals.state IN ?", []string{"anonymised", "reviewed"}).
		Group("proposals.id, proposals.title, proposals.state").
		Order("voted_count DESC, proposals.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("ranking_repo_list_round_candidates_failed", err)
	}
	candidates := make([]ports.RoundCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, ports.RoundCandidate{
			ProposalID: row.ID,
			Title:      row.Title,
			State:      row.State,
			VotedCount: row.VotedCount,
		})
	}
	return candidates, nil
}

type rankedProposalRow struct {
	ID               string
	Title            string
	SubmitterID      string
	HasRejectedEmail bool
}

type voteValueRow struct {
	ProposalID string
	Value      int
}

func (r *Repository) ListRankedCandidates(ctx context.Context) ([]ports.RankedCandidate, error) {
	var proposals []rankedProposalRow
	err := r.db.WithContext(ctx).
		Table("proposals").
		Select("id, title, submitter_id, has_rejected_email").
		Where("state = ?", "reviewed").
		Order("id ASC").
		Scan(&proposals).
		Error
	if err != nil {
		return nil, r.logError("ranking_repo_list_ranked_candidates_failed", err)
	}
	if len(proposals) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(proposals))
	for _, row := range proposals {
		ids = append(ids, row.ID)
	}
	var votes []voteValueRow
	err = r.db.WithContext(ctx).
		Table("proposal_votes").
		Select("proposal_id, value").
		Where("proposal_id IN ?", ids).
		Where("state = ?", "voted").
		Scan(&votes).
		Error
	if err != nil {
		return nil, r.logError("ranking_repo_list_vote_values_failed", err)
	}
	valuesByProposal := make(map[string][]int, len(proposals))
	for _, vote := range votes {
		valuesByProposal[vote.ProposalID] = append(valuesByProposal[vote.ProposalID], vote.Value)
	}

	candidates := make([]ports.RankedCandidate, 0, len(proposals))
	for _, row := range proposals {
		candidates = append(candidates, ports.RankedCandidate{
			ProposalID:       row.ID,
			Title:            row.Title,
			SubmitterID:      row.SubmitterID,
			HasRejectedEmail: row.HasRejectedEmail,
			VoteValues:       valuesByProposal[row.ID],
		})
	}
	return candidates, nil
}

func (r *Repository) CloseRound(ctx context.Context, proposalIDs []string, updatedAt time.Time) error {
	if len(proposalIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table("proposals").
			Where("id IN ?", proposalIDs).
			Where("state IN ?", []string{"anonymised", "reviewed"}).
			Updates(map[string]any{
				"state":      "reviewed",
				"updated_at": updatedAt.UTC(),
			}).Error
	})
	if err != nil {
		return r.logError("ranking_repo_close_round_failed", err, "count", len(proposalIDs))
	}
	return nil
}

func (r *Repository) ApplyAcceptance(ctx context.Context, acceptIDs, rejectFlagIDs []string, updatedAt time.Time) error {
	if len(acceptIDs) == 0 && len(rejectFlagIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(acceptIDs) > 0 {
			if err := tx.Table("proposals").
				Where("id IN ?", acceptIDs).
				Where("state = ?", "reviewed").
				Updates(map[string]any{
					"state":      "accepted",
					"updated_at": updatedAt.UTC(),
				}).Error; err != nil {
				return err
			}
		}
		if len(rejectFlagIDs) > 0 {
			if err := tx.Table("proposals").
				Where("id IN ?", rejectFlagIDs).
				Updates(map[string]any{
					"has_rejected_email": true,
					"updated_at":         updatedAt.UTC(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("ranking_repo_apply_acceptance_failed", err,
			"accepted", len(acceptIDs),
			"rejection_flags", len(rejectFlagIDs),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "programme/ranking-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ranking repository operation failed", fields...)
	return err
}

var _ ports.Repository = (*Repository)(nil)
