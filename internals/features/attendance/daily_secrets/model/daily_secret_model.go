// file: internals/features/attendance/daily_secrets/model/daily_secret_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Satu baris per hari (mon..sun). Fallback kalau env ATTENDANCE_DAILY_SECRET_* kosong.
type AttendanceDailySecretModel struct {
	AttendanceDailySecretDay       string     `gorm:"type:varchar(3);primaryKey;column:attendance_daily_secret_day" json:"attendance_daily_secret_day"`
	AttendanceDailySecretValue     string     `gorm:"type:text;not null;column:attendance_daily_secret_value" json:"-"`
	AttendanceDailySecretUpdatedBy *uuid.UUID `gorm:"type:uuid;column:attendance_daily_secret_updated_by" json:"attendance_daily_secret_updated_by,omitempty"`

	AttendanceDailySecretCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:attendance_daily_secret_created_at" json:"attendance_daily_secret_created_at"`
	AttendanceDailySecretUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:attendance_daily_secret_updated_at" json:"attendance_daily_secret_updated_at"`
}

func (AttendanceDailySecretModel) TableName() string { return "attendance_daily_secrets" }
