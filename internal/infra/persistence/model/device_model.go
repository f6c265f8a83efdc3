package model

import (
	"time"

	"github.com/google/uuid"
)

// DeviceModel mirrors the 'user_devices' table: one row per user and client
// installation. Deactivated rows stay so a reinstall reuses its row.
type DeviceModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_devices_installation,priority:1"`
	DeviceID  string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_devices_installation,priority:2"`
	FCMToken  string    `gorm:"column:fcm_token;type:text;not null;index:idx_user_devices_token"`
	Platform  string    `gorm:"type:varchar(16);not null;check:chk_user_devices_platform,platform IN ('ios','android')"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (DeviceModel) TableName() string {
	return "user_devices"
}
