package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  InteractionKindCall      = "call"
  InteractionKindEmail     = "email"
  InteractionKindMeeting   = "meeting"
  InteractionKindNote      = "note"
)

type Interaction struct {
  ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ContactID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"contact_id"`
  Contact        *Contact      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContactID;references:ID" json:"contact,omitempty"`
  MembershipID   *uuid.UUID    `gorm:"type:uuid;index" json:"membership_id,omitempty"`
  Membership     *Membership   `gorm:"constraint:OnDelete:SET NULL;foreignKey:MembershipID;references:ID" json:"membership,omitempty"`
  Kind           string        `gorm:"not null;default:note;column:kind" json:"kind"`
  OccurredAt     time.Time     `gorm:"not null;index" json:"occurred_at"`
  Notes          string        `gorm:"type:text;column:notes" json:"notes"`
  CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Interaction) TableName() string {
  return "interaction"
}
