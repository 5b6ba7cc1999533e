package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  MeetingStatusScheduled    = "scheduled"
  MeetingStatusInProgress   = "in_progress"
  MeetingStatusAdjourned    = "adjourned"
  MeetingStatusCanceled     = "canceled"
)

type Meeting struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  Title            string          `gorm:"not null;column:title" json:"title"`
  Location         string          `gorm:"column:location" json:"location"`
  ScheduledAt      time.Time       `gorm:"not null;index" json:"scheduled_at"`
  Status           string          `gorm:"not null;default:scheduled;index;column:status" json:"status"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Meeting) TableName() string {
  return "meeting"
}
