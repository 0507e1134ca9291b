// file: internals/features/attendance/scans/dto/scan_dto.go
package dto

import (
	"strings"
	"time"

	"presensi_backend/internals/features/attendance/scans/model"

	"github.com/google/uuid"
)

/* ===================== REQUEST ===================== */

// Isi QR: {"scope_key": "<session_id>|daily", "token": "..."}
type SubmitScanRequest struct {
	ScopeKey string `json:"scope_key" validate:"required,max=64"`
	Token    string `json:"token" validate:"required,max=64"`
}

func (r *SubmitScanRequest) Normalize() {
	r.ScopeKey = strings.ToLower(strings.TrimSpace(r.ScopeKey))
	r.Token = strings.TrimSpace(r.Token)
}

type ListScanQuery struct {
	Result    string `query:"result"` // ok | invalid
	SubjectID string `query:"subject_id"`
}

/* ===================== RESPONSE ===================== */

type ScanRecordResponse struct {
	RecordID  uuid.UUID      `json:"record_id"`
	SubjectID uuid.UUID      `json:"subject_id"`
	ScopeKey  string         `json:"scope_key"`
	SessionID *uuid.UUID     `json:"session_id,omitempty"`
	Result    string         `json:"result"`
	Reason    *string        `json:"reason,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func FromModel(m *model.AttendanceScanRecordModel) ScanRecordResponse {
	return ScanRecordResponse{
		RecordID:  m.AttendanceScanRecordID,
		SubjectID: m.AttendanceScanRecordSubjectID,
		ScopeKey:  m.AttendanceScanRecordScopeKey,
		SessionID: m.AttendanceScanRecordSessionID,
		Result:    string(m.AttendanceScanRecordResult),
		Reason:    m.AttendanceScanRecordReason,
		Meta:      m.AttendanceScanRecordMeta,
		CreatedAt: m.AttendanceScanRecordCreatedAt,
	}
}

func FromModels(rows []model.AttendanceScanRecordModel) []ScanRecordResponse {
	out := make([]ScanRecordResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
