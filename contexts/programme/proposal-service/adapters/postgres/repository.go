package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/proposal-service/domain/errors"
	"reviewdesk/contexts/programme/proposal-service/ports"

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

func (r *Repository) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	row := proposalModelFromEntity(proposal)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"state":              row.State,
			"anonymiser_id":      row.AnonymiserID,
			"has_rejected_email": row.HasRejectedEmail,
			"title":              row.Title,
			"description":        row.Description,
			"requirements":       row.Requirements,
			"length":             row.Length,
			"notice_required":    row.NoticeRequired,
			"needs_help":         row.NeedsHelp,
			"needs_money":        row.NeedsMoney,
			"one_day":            row.OneDay,
			"attendees":          row.Attendees,
			"cost":               row.Cost,
			"size":               row.Size,
			"funds":              row.Funds,
			"updated_at":         row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("proposal_repo_save_failed", create.Error,
			"proposal_id", strings.TrimSpace(proposal.ProposalID),
		)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(proposalID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("proposal_repo_get_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return row.toEntity(), nil
}

// UpdateProposalState is the single-entity atomic transition: the row only
// changes if it is still in the expected from state, so two racing
// transitions cannot both land.
func (r *Repository) UpdateProposalState(
	ctx context.Context,
	proposalID string,
	from, to entities.ProposalState,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("id = ?", strings.TrimSpace(proposalID)).
		Where("state = ?", string(from)).
		Updates(map[string]any{
			"state":      string(to),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("proposal_repo_update_state_failed", result.Error,
			"proposal_id", strings.TrimSpace(proposalID),
			"from", string(from),
			"to", string(to),
		)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&proposalModel{}).
			Where("id = ?", strings.TrimSpace(proposalID)).
			Count(&count).Error; err != nil {
			return r.logError("proposal_repo_update_state_recheck_failed", err,
				"proposal_id", strings.TrimSpace(proposalID),
			)
		}
		if count == 0 {
			return domainerrors.ErrProposalNotFound
		}
		return domainerrors.ErrInvalidStateTransition
	}
	return nil
}

func (r *Repository) ForceProposalState(
	ctx context.Context,
	proposalID string,
	to entities.ProposalState,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Where("id = ?", strings.TrimSpace(proposalID)).
		Updates(map[string]any{
			"state":      string(to),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("proposal_repo_force_state_failed", result.Error,
			"proposal_id", strings.TrimSpace(proposalID),
			"to", string(to),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProposalNotFound
	}
	return nil
}

func (r *Repository) ListProposals(ctx context.Context, filter ports.ProposalFilter) ([]entities.Proposal, error) {
	tx := r.db.WithContext(ctx).Model(&proposalModel{})
	if len(filter.Types) > 0 {
		tx = tx.Where("type IN ?", typeStrings(filter.Types))
	}
	if len(filter.States) > 0 {
		tx = tx.Where("state IN ?", stateStrings(filter.States))
	}
	if filter.NeedsHelp != nil {
		tx = tx.Where("needs_help = ?", *filter.NeedsHelp)
	}
	if filter.NeedsMoney != nil {
		tx = tx.Where("needs_money = ?", *filter.NeedsMoney)
	}
	var rows []proposalModel
	if err := tx.Order("state ASC, updated_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("proposal_repo_list_failed", err)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) NextProposalInState(
	ctx context.Context,
	state entities.ProposalState,
	after entities.Proposal,
) (entities.Proposal, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id <> ?", strings.TrimSpace(after.ProposalID)).
		Where("state = ?", string(state)).
		Where("updated_at >= ?", after.UpdatedAt.UTC()).
		Order("updated_at ASC, id ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, false, nil
		}
		return entities.Proposal{}, false, r.logError("proposal_repo_next_in_state_failed", err,
			"state", string(state),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountProposalsByState(ctx context.Context) (map[entities.ProposalState]int, error) {
	type stateCount struct {
		State string `gorm:"column:state"`
		Total int    `gorm:"column:total"`
	}
	var rows []stateCount
	err := r.db.WithContext(ctx).
		Model(&proposalModel{}).
		Select("state, COUNT(*) AS total").
		Group("state").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("proposal_repo_count_by_state_failed", err)
	}
	counts := make(map[entities.ProposalState]int, len(rows))
	for _, row := range rows {
		counts[entities.ProposalState(row.State)] = row.Total
	}
	return counts, nil
}

func (r *Repository) SaveMessage(ctx context.Context, message entities.Message) error {
	row := messageModelFromEntity(message)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrInvalidMessageInput
		}
		return r.logError("proposal_repo_save_message_failed", create.Error,
			"message_id", strings.TrimSpace(message.MessageID),
			"proposal_id", strings.TrimSpace(message.ProposalID),
		)
	}
	return nil
}

func (r *Repository) ListMessagesByProposal(ctx context.Context, proposalID string) ([]entities.Message, error) {
	var rows []messageModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("proposal_repo_list_messages_failed", err,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	items := make([]entities.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkMessagesRead(ctx context.Context, proposalID string, toAdmin bool) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Where("is_to_admin = ?", toAdmin).
		Where("has_been_read = ?", false).
		Update("has_been_read", true)
	if result.Error != nil {
		return 0, r.logError("proposal_repo_mark_messages_read_failed", result.Error,
			"proposal_id", strings.TrimSpace(proposalID),
		)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) CountUnreadToAdmin(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("is_to_admin = ?", true).
		Where("has_been_read = ?", false).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("proposal_repo_count_unread_failed", err)
	}
	return int(count), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "programme/proposal-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("proposal repository operation failed", fields...)
	return err
}

type proposalModel struct {
	ID               string  `gorm:"column:id;primaryKey"`
	Type             string  `gorm:"column:type"`
	State            string  `gorm:"column:state"`
	SubmitterID      string  `gorm:"column:submitter_id"`
	AnonymiserID     *string `gorm:"column:anonymiser_id"`
	HasRejectedEmail bool    `gorm:"column:has_rejected_email"`

	Title          string `gorm:"column:title"`
	Description    string `gorm:"column:description"`
	Requirements   string `gorm:"column:requirements"`
	Length         string `gorm:"column:length"`
	NoticeRequired string `gorm:"column:notice_required"`
	NeedsHelp      bool   `gorm:"column:needs_help"`
	NeedsMoney     bool   `gorm:"column:needs_money"`
	OneDay         bool   `gorm:"column:one_day"`

	Attendees string `gorm:"column:attendees"`
	Cost      string `gorm:"column:cost"`
	Size      string `gorm:"column:size"`
	Funds     string `gorm:"column:funds"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (proposalModel) TableName() string {
	return "proposals"
}

func proposalModelFromEntity(proposal entities.Proposal) proposalModel {
	row := proposalModel{
		ID:               strings.TrimSpace(proposal.ProposalID),
		Type:             string(proposal.Type),
		State:            string(proposal.State),
		SubmitterID:      strings.TrimSpace(proposal.SubmitterID),
		HasRejectedEmail: proposal.HasRejectedEmail,
		Title:            proposal.Title,
		Description:      proposal.Description,
		Requirements:     proposal.Requirements,
		Length:           proposal.Length,
		NoticeRequired:   proposal.NoticeRequired,
		NeedsHelp:        proposal.NeedsHelp,
		NeedsMoney:       proposal.NeedsMoney,
		OneDay:           proposal.OneDay,
		Attendees:        proposal.Attendees,
		Cost:             proposal.Cost,
		Size:             proposal.Size,
		Funds:            proposal.Funds,
		CreatedAt:        proposal.CreatedAt.UTC(),
		UpdatedAt:        proposal.UpdatedAt.UTC(),
	}
	if anonymiserID := strings.TrimSpace(proposal.AnonymiserID); anonymiserID != "" {
		row.AnonymiserID = &anonymiserID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m proposalModel) toEntity() entities.Proposal {
	anonymiserID := ""
	if m.AnonymiserID != nil {
		anonymiserID = strings.TrimSpace(*m.AnonymiserID)
	}
	return entities.Proposal{
		ProposalID:       m.ID,
		Type:             entities.ProposalType(m.Type),
		State:            entities.ProposalState(m.State),
		SubmitterID:      m.SubmitterID,
		AnonymiserID:     anonymiserID,
		HasRejectedEmail: m.HasRejectedEmail,
		Title:            m.Title,
		Description:      m.Description,
		Requirements:     m.Requirements,
		Length:           m.Length,
		NoticeRequired:   m.NoticeRequired,
		NeedsHelp:        m.NeedsHelp,
		NeedsMoney:       m.NeedsMoney,
		OneDay:           m.OneDay,
		Attendees:        m.Attendees,
		Cost:             m.Cost,
		Size:             m.Size,
		Funds:            m.Funds,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type messageModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProposalID  string    `gorm:"column:proposal_id"`
	FromUserID  string    `gorm:"column:from_user_id"`
	Body        string    `gorm:"column:body"`
	IsToAdmin   bool      `gorm:"column:is_to_admin"`
	HasBeenRead bool      `gorm:"column:has_been_read"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (messageModel) TableName() string {
	return "proposal_messages"
}

func messageModelFromEntity(message entities.Message) messageModel {
	row := messageModel{
		ID:          strings.TrimSpace(message.MessageID),
		ProposalID:  strings.TrimSpace(message.ProposalID),
		FromUserID:  strings.TrimSpace(message.FromUserID),
		Body:        message.Body,
		IsToAdmin:   message.IsToAdmin,
		HasBeenRead: message.HasBeenRead,
		CreatedAt:   message.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m messageModel) toEntity() entities.Message {
	return entities.Message{
		MessageID:   m.ID,
		ProposalID:  m.ProposalID,
		FromUserID:  m.FromUserID,
		Body:        m.Body,
		IsToAdmin:   m.IsToAdmin,
		HasBeenRead: m.HasBeenRead,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func typeStrings(types []entities.ProposalType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func stateStrings(states []entities.ProposalState) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, string(s))
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.MessageRepository = (*Repository)(nil)
