package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  JournalEntryStatusPosted   = "posted"
  JournalEntryStatusVoid     = "void"

  JournalSourceManual     = "manual"
  JournalSourceRevenue    = "revenue"
  JournalSourceDonation   = "donation"

  LineSideDebit    = "debit"
  LineSideCredit   = "credit"
)

type JournalEntry struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  EntryDate        time.Time       `gorm:"not null;index;column:entry_date" json:"entry_date"`
  Memo             string          `gorm:"column:memo" json:"memo"`
  Status           string          `gorm:"not null;default:posted;index;column:status" json:"status"`
  Source           string          `gorm:"not null;default:manual;column:source" json:"source"`
  PostedBy         uuid.UUID       `gorm:"type:uuid;not null" json:"posted_by"`
  Lines            []*JournalLine  `gorm:"foreignKey:EntryID;references:ID" json:"lines,omitempty"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (JournalEntry) TableName() string {
  return "journal_entry"
}

type JournalLine struct {
  ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  EntryID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"entry_id"`
  AccountID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
  Account       *Account        `gorm:"foreignKey:AccountID;references:ID" json:"account,omitempty"`
  Side          string          `gorm:"not null;column:side" json:"side"`
  AmountCents   int64           `gorm:"not null;column:amount_cents" json:"amount_cents"`
  Description   string          `gorm:"column:description" json:"description"`
  CreatedAt     time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (JournalLine) TableName() string {
  return "journal_line"
}
