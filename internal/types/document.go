package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Document struct {
  ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  OrganizationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
  Organization     *Organization   `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
  Title            string          `gorm:"not null;column:title" json:"title"`
  BucketKey        string          `gorm:"not null;uniqueIndex;column:bucket_key" json:"bucket_key"`
  ContentType      string          `gorm:"column:content_type" json:"content_type"`
  SizeBytes        int64           `gorm:"not null;default:0;column:size_bytes" json:"size_bytes"`
  UploadedBy       uuid.UUID       `gorm:"type:uuid;not null" json:"uploaded_by"`
  Tags             datatypes.JSON  `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`
  CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
  DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string {
  return "document"
}
