// file: internals/features/attendance/scans/model/scan_record_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ScanResult string

const (
	ScanOK        ScanResult = "ok"
	ScanDuplicate ScanResult = "duplicate" // tidak pernah disimpan, hanya dikembalikan ke client
	ScanInvalid   ScanResult = "invalid"
)

/*
Maksimal satu baris result='ok' per (subject, scope_key):

	CREATE UNIQUE INDEX uq_scan_ok_subject_scope
	  ON attendance_scan_records (attendance_scan_record_subject_id, attendance_scan_record_scope_key)
	  WHERE attendance_scan_record_result = 'ok';

Baris 'invalid' hanya untuk audit dan tidak kena index ini.
*/
type AttendanceScanRecordModel struct {
	AttendanceScanRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_scan_record_id" json:"attendance_scan_record_id"`

	AttendanceScanRecordSubjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_scan_record_subject;column:attendance_scan_record_subject_id" json:"attendance_scan_record_subject_id"`

	// session_id (mode sesi) atau "daily:YYYY-MM-DD" (mode harian)
	AttendanceScanRecordScopeKey  string     `gorm:"type:varchar(64);not null;index:idx_scan_record_scope;column:attendance_scan_record_scope_key" json:"attendance_scan_record_scope_key"`
	AttendanceScanRecordSessionID *uuid.UUID `gorm:"type:uuid;index:idx_scan_record_session;column:attendance_scan_record_session_id" json:"attendance_scan_record_session_id,omitempty"`

	AttendanceScanRecordResult ScanResult        `gorm:"type:varchar(10);not null;column:attendance_scan_record_result" json:"attendance_scan_record_result"`
	AttendanceScanRecordReason *string           `gorm:"type:varchar(32);column:attendance_scan_record_reason" json:"attendance_scan_record_reason,omitempty"`
	AttendanceScanRecordMeta   datatypes.JSONMap `gorm:"type:jsonb;column:attendance_scan_record_meta" json:"attendance_scan_record_meta,omitempty"`

	AttendanceScanRecordCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime;column:attendance_scan_record_created_at" json:"attendance_scan_record_created_at"`
}

func (AttendanceScanRecordModel) TableName() string { return "attendance_scan_records" }
