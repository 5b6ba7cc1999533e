package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  ContactKindDonor      = "donor"
  ContactKindVendor     = "vendor"
  ContactKindProspect   = "prospect"
  ContactKindOther      = "other"
)

type Contact struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  Kind             string          `gorm:"not null;default:other;index;column:kind" json:"kind"`
  FirstName        string          `gorm:"not null;column:first_name" json:"first_name"`
  LastName         string          `gorm:"column:last_name" json:"last_name"`
  Email            string          `gorm:"index;column:email" json:"email"`
  Phone            string          `gorm:"column:phone" json:"phone"`
  Notes            string          `gorm:"type:text;column:notes" json:"notes"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contact) TableName() string {
  return "contact"
}
