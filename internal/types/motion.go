package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  MotionStatusDraft       = "draft"
  MotionStatusOpen        = "open"
  MotionStatusPassed      = "passed"
  MotionStatusFailed      = "failed"
  MotionStatusWithdrawn   = "withdrawn"

  ThresholdMajority    = "majority"
  ThresholdTwoThirds   = "two_thirds"
)

type Motion struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  MeetingID        *uuid.UUID      `gorm:"type:uuid;index" json:"meeting_id,omitempty"`
  Meeting          *Meeting        `gorm:"constraint:OnDelete:SET NULL;foreignKey:MeetingID;references:ID" json:"meeting,omitempty"`
  MoverID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"mover_id"`
  Mover            *Membership     `gorm:"foreignKey:MoverID;references:ID" json:"mover,omitempty"`
  Title            string          `gorm:"not null;column:title" json:"title"`
  Body             string          `gorm:"type:text;column:body" json:"body"`
  Threshold        string          `gorm:"not null;default:majority;column:threshold" json:"threshold"`
  Status           string          `gorm:"not null;default:draft;index;column:status" json:"status"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Motion) TableName() string {
  return "motion"
}
