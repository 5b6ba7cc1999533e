package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  DonationMethodCash     = "cash"
  DonationMethodCheck    = "check"
  DonationMethodCard     = "card"
  DonationMethodInKind   = "in_kind"
)

type Donation struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  ContactID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"contact_id"`
  Contact          *Contact        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContactID;references:ID" json:"contact,omitempty"`
  AmountCents      int64           `gorm:"not null;column:amount_cents" json:"amount_cents"`
  Method           string          `gorm:"not null;default:cash;column:method" json:"method"`
  ReceivedAt       time.Time       `gorm:"not null;index" json:"received_at"`
  JournalEntryID   *uuid.UUID      `gorm:"type:uuid" json:"journal_entry_id,omitempty"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Donation) TableName() string {
  return "donation"
}
