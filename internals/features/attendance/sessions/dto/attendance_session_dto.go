// file: internals/features/attendance/sessions/dto/attendance_session_dto.go
package dto

import (
	"strings"
	"time"

	"presensi_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
)

/* ===================== REQUEST ===================== */

type CreateAttendanceSessionRequest struct {
	ScopeType        string     `json:"scope_type" validate:"required,oneof=year class all"`
	ScopeYearID      *uuid.UUID `json:"scope_year_id,omitempty"`
	ScopeKelasID     *uuid.UUID `json:"scope_kelas_id,omitempty"`
	TokenStepSeconds *int       `json:"token_step_seconds,omitempty" validate:"omitempty,min=5,max=300"`
}

func (r *CreateAttendanceSessionRequest) Normalize() {
	r.ScopeType = strings.ToLower(strings.TrimSpace(r.ScopeType))
	if r.ScopeYearID != nil && *r.ScopeYearID == uuid.Nil {
		r.ScopeYearID = nil
	}
	if r.ScopeKelasID != nil && *r.ScopeKelasID == uuid.Nil {
		r.ScopeKelasID = nil
	}
}

type ListAttendanceSessionQuery struct {
	Status string `query:"status"`
	Date   string `query:"date"` // YYYY-MM-DD
	Mine   bool   `query:"mine"`
}

/* ===================== RESPONSE ===================== */

// Secret sengaja tidak ada di response manapun.
type AttendanceSessionResponse struct {
	SessionID       uuid.UUID  `json:"session_id"`
	ScopeType       string     `json:"scope_type"`
	ScopeYearID     *uuid.UUID `json:"scope_year_id,omitempty"`
	ScopeKelasID    *uuid.UUID `json:"scope_kelas_id,omitempty"`
	Status          string     `json:"status"`
	SessionDate     string     `json:"session_date"`
	Step            int        `json:"step"`
	CreatedByUserID uuid.UUID  `json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}

func FromModel(m *model.AttendanceSessionModel) AttendanceSessionResponse {
	return AttendanceSessionResponse{
		SessionID:       m.AttendanceSessionID,
		ScopeType:       string(m.AttendanceSessionScopeType),
		ScopeYearID:     m.AttendanceSessionScopeYearID,
		ScopeKelasID:    m.AttendanceSessionScopeKelasID,
		Status:          string(m.AttendanceSessionStatus),
		SessionDate:     m.AttendanceSessionDate.Format("2006-01-02"),
		Step:            m.AttendanceSessionTokenStepSeconds,
		CreatedByUserID: m.AttendanceSessionCreatedByUserID,
		CreatedAt:       m.AttendanceSessionCreatedAt,
		EndedAt:         m.AttendanceSessionEndedAt,
	}
}

func FromModels(rows []model.AttendanceSessionModel) []AttendanceSessionResponse {
	out := make([]AttendanceSessionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type SessionTokenResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	Token       string    `json:"token"`
	ValidForSec int       `json:"valid_for_sec"`
	Step        int       `json:"step"`
	Slot        int64     `json:"slot"`
}
