package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  ContractStatusDraft       = "draft"
  ContractStatusActive      = "active"
  ContractStatusCompleted   = "completed"
  ContractStatusCanceled    = "canceled"
)

type Contract struct {
  ID                uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization      *Organization    `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  ContactID         *uuid.UUID       `gorm:"type:uuid;index" json:"contact_id,omitempty"`
  Contact           *Contact         `gorm:"constraint:OnDelete:SET NULL;foreignKey:ContactID;references:ID" json:"contact,omitempty"`
  Name              string           `gorm:"not null;column:name" json:"name"`
  Status            string           `gorm:"not null;default:draft;index;column:status" json:"status"`
  TotalPriceCents   int64            `gorm:"not null;column:total_price_cents" json:"total_price_cents"`
  StartDate         time.Time        `gorm:"not null;column:start_date" json:"start_date"`
  EndDate           *time.Time       `gorm:"column:end_date" json:"end_date,omitempty"`
  Lines             []*ContractLine  `gorm:"foreignKey:ContractID;references:ID" json:"lines,omitempty"`
  CreatedAt         time.Time        `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt         time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (Contract) TableName() string {
  return "contract"
}

type ContractLine struct {
  ID               uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ContractID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"contract_id"`
  Description      string              `gorm:"not null;column:description" json:"description"`
  // SSPCents is the standalone selling price used for ASC 606 allocation.
  SSPCents         int64               `gorm:"not null;column:ssp_cents" json:"ssp_cents"`
  AllocatedCents   int64               `gorm:"not null;default:0;column:allocated_cents" json:"allocated_cents"`
  ServiceMonths    int                 `gorm:"not null;default:1;column:service_months" json:"service_months"`
  Schedules        []*RevenueSchedule  `gorm:"foreignKey:ContractLineID;references:ID" json:"schedules,omitempty"`
  CreatedAt        time.Time           `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContractLine) TableName() string {
  return "contract_line"
}
