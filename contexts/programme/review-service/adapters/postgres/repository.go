package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reviewdesk/contexts/programme/review-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/review-service/domain/errors"
	"reviewdesk/contexts/programme/review-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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

// SaveVote upserts on the unique (reviewer_id, proposal_id) index so a
// second write for the same pair updates the row instead of duplicating it.
func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reviewer_id"}, {Name: "proposal_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"state":         row.State,
			"value":         row.Value,
			"note":          row.Note,
			"has_been_read": row.HasBeenRead,
			"updated_at":    row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrInvalidReviewInput
		}
		return r.logError("review_repo_save_vote_failed", create.Error,
			"vote_id", strings.TrimSpace(vote.VoteID),
			"proposal_id", strings.TrimSpace(vote.ProposalID),
			"reviewer_id", strings.TrimSpace(vote.ReviewerID),
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, voteID string) (entities.Vote, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, domainerrors.ErrVoteNotFound
		}
		return entities.Vote{}, r.logError("review_repo_get_vote_failed", err,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetVoteByPair(ctx context.Context, reviewerID, proposalID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("review_repo_get_vote_by_pair_failed", err,
			"reviewer_id", strings.TrimSpace(reviewerID),
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByReviewer(ctx context.Context, reviewerID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("review_repo_list_votes_by_reviewer_failed", err,
			"reviewer_id", strings.TrimSpace(reviewerID),
		)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) ListVotesByProposal(ctx context.Context, proposalID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("review_repo_list_votes_by_proposal_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) LatestVoteByReviewer(ctx context.Context, reviewerID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		Order("updated_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("review_repo_latest_vote_failed", err,
			"reviewer_id", strings.TrimSpace(reviewerID),
		)
	}
	return row.toEntity(), true, nil
}

// UpdateVotes applies an admin bulk mutation in one transaction: all rows
// change or none do.
func (r *Repository) UpdateVotes(ctx context.Context, votes []entities.Vote) error {
	if len(votes) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, vote := range votes {
			row := voteModelFromEntity(vote)
			result := tx.Model(&voteModel{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"state":         row.State,
					"value":         row.Value,
					"note":          row.Note,
					"has_been_read": row.HasBeenRead,
					"updated_at":    row.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainerrors.ErrVoteNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrVoteNotFound) {
			return err
		}
		return r.logError("review_repo_update_votes_failed", err, "count", len(votes))
	}
	return nil
}

func (r *Repository) ListReviewableProposals(ctx context.Context) ([]ports.ProposalProjection, error) {
	var rows []proposalProjectionModel
	if err := r.db.WithContext(ctx).
		Where("state = ?", "anonymised").
		Order("updated_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("review_repo_list_reviewable_failed", err)
	}
	items := make([]ports.ProposalProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toProjection())
	}
	return items, nil
}

func (r *Repository) GetReviewableProposal(ctx context.Context, proposalID string) (ports.ProposalProjection, error) {
	var row proposalProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		Where("state = ?", "anonymised").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ProposalProjection{}, domainerrors.ErrProposalNotFound
		}
		return ports.ProposalProjection{}, r.logError("review_repo_get_reviewable_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "programme/review-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("review repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProposalID  string    `gorm:"column:proposal_id"`
	ReviewerID  string    `gorm:"column:reviewer_id"`
	State       string    `gorm:"column:state"`
	Value       int       `gorm:"column:value"`
	Note        string    `gorm:"column:note"`
	HasBeenRead bool      `gorm:"column:has_been_read"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "proposal_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:          strings.TrimSpace(vote.VoteID),
		ProposalID:  strings.TrimSpace(vote.ProposalID),
		ReviewerID:  strings.TrimSpace(vote.ReviewerID),
		State:       string(vote.State),
		Value:       vote.Value,
		Note:        vote.Note,
		HasBeenRead: vote.HasBeenRead,
		CreatedAt:   vote.CreatedAt.UTC(),
		UpdatedAt:   vote.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:      m.ID,
		ProposalID:  m.ProposalID,
		ReviewerID:  m.ReviewerID,
		State:       entities.VoteState(m.State),
		Value:       m.Value,
		Note:        m.Note,
		HasBeenRead: m.HasBeenRead,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type proposalProjectionModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Type        string    `gorm:"column:type"`
	State       string    `gorm:"column:state"`
	SubmitterID string    `gorm:"column:submitter_id"`
	Title       string    `gorm:"column:title"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (proposalProjectionModel) TableName() string {
	return "proposals"
}

func (m proposalProjectionModel) toProjection() ports.ProposalProjection {
	return ports.ProposalProjection{
		ProposalID:  m.ID,
		Type:        m.Type,
		State:       m.State,
		SubmitterID: m.SubmitterID,
		Title:       m.Title,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func toVoteEntities(rows []voteModel) []entities.Vote {
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.ProposalReader = (*Repository)(nil)
