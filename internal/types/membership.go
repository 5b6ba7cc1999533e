package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  RoleOwner     = "owner"
  RoleAdmin     = "admin"
  RoleOfficer   = "officer"
  RoleMember    = "member"

  MembershipStatusActive    = "active"
  MembershipStatusInvited   = "invited"
  MembershipStatusLapsed    = "lapsed"
)

// RoleRank orders roles for permission comparisons. Unknown roles rank 0.
func RoleRank(role string) int {
  switch role {
  case RoleOwner:
    return 4
  case RoleAdmin:
    return 3
  case RoleOfficer:
    return 2
  case RoleMember:
    return 1
  }
  return 0
}

type Membership struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_membership_org_user" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  UserID           uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_membership_org_user" json:"user_id"`
  User             *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  Role             string          `gorm:"not null;default:member;column:role" json:"role"`
  Status           string          `gorm:"not null;default:active;index;column:status" json:"status"`
  JoinedAt         time.Time       `gorm:"not null;default:now()" json:"joined_at"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Membership) TableName() string {
  return "membership"
}
