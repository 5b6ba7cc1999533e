package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

const (
  OrgKindNonprofit    = "nonprofit"
  OrgKindFraternal    = "fraternal"
  OrgKindClub         = "club"
  OrgKindOther        = "other"
)

type Organization struct {
  ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name        string          `gorm:"not null;column:name" json:"name"`
  Slug        string          `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
  Kind        string          `gorm:"not null;default:other;column:kind" json:"kind"`
  // QuorumBps is the default poll quorum in basis points of active members.
  QuorumBps   int             `gorm:"not null;default:5000;column:quorum_bps" json:"quorum_bps"`
  Settings    datatypes.JSON  `gorm:"type:jsonb;column:settings" json:"settings,omitempty"`
  CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt   time.Time       `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt   gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Organization) TableName() string {
  return "organization"
}
