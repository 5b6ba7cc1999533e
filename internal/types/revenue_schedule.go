package types

import (
  "time"
  "github.com/google/uuid"
)

type RevenueSchedule struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ContractLineID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"contract_line_id"`
  ContractLine     *ContractLine   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContractLineID;references:ID" json:"contract_line,omitempty"`
  PeriodStart      time.Time       `gorm:"not null;index;column:period_start" json:"period_start"`
  AmountCents      int64           `gorm:"not null;column:amount_cents" json:"amount_cents"`
  Recognized       bool            `gorm:"not null;default:false;index" json:"recognized"`
  RecognizedAt     *time.Time      `json:"recognized_at,omitempty"`
  JournalEntryID   *uuid.UUID      `gorm:"type:uuid" json:"journal_entry_id,omitempty"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (RevenueSchedule) TableName() string {
  return "revenue_schedule"
}
