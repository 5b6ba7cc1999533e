package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type VoteRepo interface {
  // Upsert replaces a member's existing ballot for the poll, if any.
  Upsert(ctx context.Context, tx *gorm.DB, vote *types.Vote) error
  ListByPoll(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) ([]*types.Vote, error)
  CountByPoll(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (int64, error)
}

type voteRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
  repoLog := baseLog.With("repo", "VoteRepo")
  return &voteRepo{db: db, log: repoLog}
}

func (vr *voteRepo) Upsert(ctx context.Context, tx *gorm.DB, vote *types.Vote) error {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "poll_id"}, {Name: "membership_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"option_id", "abstain", "cast_at"}),
    }).
    Create(vote).Error
}

func (vr *voteRepo) ListByPoll(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) ([]*types.Vote, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  var results []*types.Vote
  if err := transaction.WithContext(ctx).
    Where("poll_id = ?", pollID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (vr *voteRepo) CountByPoll(ctx context.Context, tx *gorm.DB, pollID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = vr.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Vote{}).
    Where("poll_id = ?", pollID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
