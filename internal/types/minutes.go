package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  MinutesStatusDraft      = "draft"
  MinutesStatusApproved   = "approved"
)

type Minutes struct {
  ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  MeetingID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"meeting_id"`
  Meeting      *Meeting     `gorm:"constraint:OnDelete:CASCADE;foreignKey:MeetingID;references:ID" json:"meeting,omitempty"`
  Body         string       `gorm:"type:text;column:body" json:"body"`
  Status       string       `gorm:"not null;default:draft;column:status" json:"status"`
  ApprovedBy   *uuid.UUID   `gorm:"type:uuid" json:"approved_by,omitempty"`
  ApprovedAt   *time.Time   `json:"approved_at,omitempty"`
  CreatedAt    time.Time    `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt    time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Minutes) TableName() string {
  return "minutes"
}
