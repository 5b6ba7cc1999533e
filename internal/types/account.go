package types

import (
  "time"
  "github.com/google/uuid"
)

const (
  AccountTypeAsset       = "asset"
  AccountTypeLiability   = "liability"
  AccountTypeEquity      = "equity"
  AccountTypeRevenue     = "revenue"
  AccountTypeExpense     = "expense"
)

func ValidAccountType(t string) bool {
  switch t {
  case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
    return true
  }
  return false
}

// DebitNormal reports whether accounts of the given type carry a debit-normal
// balance in reports.
func DebitNormal(accountType string) bool {
  return accountType == AccountTypeAsset || accountType == AccountTypeExpense
}

type Account struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:uniq_account_org_code" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  Code             string          `gorm:"not null;uniqueIndex:uniq_account_org_code;column:code" json:"code"`
  Name             string          `gorm:"not null;column:name" json:"name"`
  Type             string          `gorm:"not null;index;column:type" json:"type"`
  Active           bool            `gorm:"not null;default:true" json:"active"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Account) TableName() string {
  return "account"
}
