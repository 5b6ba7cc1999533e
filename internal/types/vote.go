package types

import (
  "time"
  "github.com/google/uuid"
)

type Vote struct {
  ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  PollID         uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:uniq_vote_poll_member" json:"poll_id"`
  Poll           *Poll         `gorm:"constraint:OnDelete:CASCADE;foreignKey:PollID;references:ID" json:"poll,omitempty"`
  MembershipID   uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:uniq_vote_poll_member" json:"membership_id"`
  Membership     *Membership   `gorm:"constraint:OnDelete:CASCADE;foreignKey:MembershipID;references:ID" json:"membership,omitempty"`
  OptionID       *uuid.UUID    `gorm:"type:uuid;index" json:"option_id,omitempty"`
  Option         *PollOption   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OptionID;references:ID" json:"option,omitempty"`
  Abstain        bool          `gorm:"not null;default:false" json:"abstain"`
  CastAt         time.Time     `gorm:"not null;default:now()" json:"cast_at"`
}

func (Vote) TableName() string {
  return "vote"
}
