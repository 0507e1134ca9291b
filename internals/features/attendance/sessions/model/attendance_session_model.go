// file: internals/features/attendance/sessions/model/attendance_session_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/*
=========================================================

	Enums
	=========================================================
*/
type ScopeType string

const (
	ScopeYear  ScopeType = "year"
	ScopeClass ScopeType = "class"
	ScopeAll   ScopeType = "all"
)

func (s ScopeType) Valid() bool {
	switch s {
	case ScopeYear, ScopeClass, ScopeAll:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

/*
=========================================================

	Model
	=========================================================
*/
type AttendanceSessionModel struct {
	// PK
	AttendanceSessionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_session_id" json:"attendance_session_id"`

	// Scope (CHECK di DB: year → year_id, class → kelas_id, all → keduanya NULL)
	AttendanceSessionScopeType    ScopeType  `gorm:"type:varchar(8);not null;column:attendance_session_scope_type" json:"attendance_session_scope_type"`
	AttendanceSessionScopeYearID  *uuid.UUID `gorm:"type:uuid;column:attendance_session_scope_year_id" json:"attendance_session_scope_year_id,omitempty"`
	AttendanceSessionScopeKelasID *uuid.UUID `gorm:"type:uuid;column:attendance_session_scope_kelas_id" json:"attendance_session_scope_kelas_id,omitempty"`

	// Secret HMAC (≥ 32 byte), dibuat sekali saat create, tidak pernah keluar dari server
	AttendanceSessionSecret []byte `gorm:"type:bytea;not null;column:attendance_session_secret" json:"-"`

	// Lifecycle
	AttendanceSessionStatus           SessionStatus `gorm:"type:varchar(8);not null;default:'open';index:idx_attendance_session_status_date,priority:1;column:attendance_session_status" json:"attendance_session_status"`
	AttendanceSessionDate             time.Time     `gorm:"type:date;not null;index:idx_attendance_session_status_date,priority:2;column:attendance_session_date" json:"attendance_session_date"`
	AttendanceSessionTokenStepSeconds int           `gorm:"not null;default:20;column:attendance_session_token_step_seconds" json:"attendance_session_token_step_seconds"`

	AttendanceSessionCreatedByUserID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_session_created_by_user_id" json:"attendance_session_created_by_user_id"`

	// Audit (tidak ada soft delete: sesi disimpan untuk audit)
	AttendanceSessionCreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:attendance_session_created_at" json:"attendance_session_created_at"`
	AttendanceSessionEndedAt   *time.Time `gorm:"type:timestamptz;column:attendance_session_ended_at" json:"attendance_session_ended_at,omitempty"`
	AttendanceSessionUpdatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoUpdateTime;column:attendance_session_updated_at" json:"attendance_session_updated_at"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }

func (m *AttendanceSessionModel) IsOpen() bool {
	return m != nil && m.AttendanceSessionStatus == SessionOpen
}
