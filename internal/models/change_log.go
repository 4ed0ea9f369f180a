package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChangeKind classifies an audit entry.
type ChangeKind string

const (
	ChangeCreate            ChangeKind = "create"
	ChangeUpdate            ChangeKind = "update"
	ChangeDelete            ChangeKind = "delete"
	ChangeLogin             ChangeKind = "login"
	ChangePassword          ChangeKind = "password_change"
	ChangeEmailVerification ChangeKind = "email_verification"
	ChangePhoneVerification ChangeKind = "phone_verification"
	ChangeSecurityUpdate    ChangeKind = "security_update"
)

// ProfileChangeLog is an append-only audit record of a profile mutation.
type ProfileChangeLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_change_logs_user_ts,priority:1" json:"-"`
	User       *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ChangeType ChangeKind `gorm:"size:20;not null" json:"change_type"`
	FieldName  string     `gorm:"size:100" json:"field_name"`
	OldValue   string     `gorm:"type:text" json:"old_value"`
	NewValue   string     `gorm:"type:text" json:"new_value"`
	IPAddress  string     `gorm:"size:45" json:"ip_address"`
	UserAgent  string     `gorm:"type:text" json:"user_agent"`
	Timestamp  time.Time  `gorm:"not null;index:idx_change_logs_user_ts,priority:2,sort:desc" json:"timestamp"`
}

func (ProfileChangeLog) TableName() string { return "profile_change_logs" }

func (l *ProfileChangeLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}
