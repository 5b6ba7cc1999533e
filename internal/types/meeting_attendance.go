package types

import (
  "time"
  "github.com/google/uuid"
)

type MeetingAttendance struct {
  ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  MeetingID      uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:uniq_attendance_meeting_member" json:"meeting_id"`
  Meeting        *Meeting      `gorm:"constraint:OnDelete:CASCADE;foreignKey:MeetingID;references:ID" json:"meeting,omitempty"`
  MembershipID   uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:uniq_attendance_meeting_member" json:"membership_id"`
  Membership     *Membership   `gorm:"constraint:OnDelete:CASCADE;foreignKey:MembershipID;references:ID" json:"membership,omitempty"`
  Present        bool          `gorm:"not null;default:false" json:"present"`
  CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (MeetingAttendance) TableName() string {
  return "meeting_attendance"
}
