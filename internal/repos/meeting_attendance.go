package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

type MeetingAttendanceRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, records []*types.MeetingAttendance) error
  ListByMeeting(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) ([]*types.MeetingAttendance, error)
  CountPresent(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) (int64, error)
}

type meetingAttendanceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMeetingAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) MeetingAttendanceRepo {
  repoLog := baseLog.With("repo", "MeetingAttendanceRepo")
  return &meetingAttendanceRepo{db: db, log: repoLog}
}

func (ar *meetingAttendanceRepo) Upsert(ctx context.Context, tx *gorm.DB, records []*types.MeetingAttendance) error {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  if len(records) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "membership_id"}},
      DoUpdates: clause.AssignmentColumns([]string{"present", "updated_at"}),
    }).
    Create(&records).Error
}

func (ar *meetingAttendanceRepo) ListByMeeting(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) ([]*types.MeetingAttendance, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var results []*types.MeetingAttendance
  if err := transaction.WithContext(ctx).
    Preload("Membership").
    Where("meeting_id = ?", meetingID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *meetingAttendanceRepo) CountPresent(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.MeetingAttendance{}).
    Where("meeting_id = ? AND present = ?", meetingID, true).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
