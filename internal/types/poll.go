package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  PollStatusOpen     = "open"
  PollStatusClosed   = "closed"
)

type Poll struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  MotionID         *uuid.UUID      `gorm:"type:uuid;index" json:"motion_id,omitempty"`
  Motion           *Motion         `gorm:"constraint:OnDelete:SET NULL;foreignKey:MotionID;references:ID" json:"motion,omitempty"`
  Question         string          `gorm:"not null;column:question" json:"question"`
  Threshold        string          `gorm:"not null;default:majority;column:threshold" json:"threshold"`
  // QuorumBps overrides the organization default when > 0.
  QuorumBps        int             `gorm:"not null;default:0;column:quorum_bps" json:"quorum_bps"`
  Status           string          `gorm:"not null;default:open;index;column:status" json:"status"`
  OpensAt          time.Time       `gorm:"not null;default:now()" json:"opens_at"`
  ClosesAt         *time.Time      `json:"closes_at,omitempty"`
  Options          []*PollOption   `gorm:"foreignKey:PollID;references:ID" json:"options,omitempty"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Poll) TableName() string {
  return "poll"
}

type PollOption struct {
  ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  PollID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"poll_id"`
  Label       string      `gorm:"not null;column:label" json:"label"`
  Position    int         `gorm:"not null;default:0;column:position" json:"position"`
  CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (PollOption) TableName() string {
  return "poll_option"
}
