package database

import (
	"fmt"
	"log"

	dailyModel "presensi_backend/internals/features/attendance/daily_secrets/model"
	scanModel "presensi_backend/internals/features/attendance/scans/model"
	sessionModel "presensi_backend/internals/features/attendance/sessions/model"

	"gorm.io/gorm"
)

// DDL yang tidak bisa diekspresikan lewat tag gorm. Semua idempotent.
var attendanceDDL = []string{
	// maksimal satu 'ok' per (subject, scope_key); baris 'invalid' bebas
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_scan_ok_subject_scope
	   ON attendance_scan_records (attendance_scan_record_subject_id, attendance_scan_record_scope_key)
	   WHERE attendance_scan_record_result = 'ok'`,

	`DO $$ BEGIN
	   ALTER TABLE attendance_scan_records
	     ADD CONSTRAINT ck_scan_record_result CHECK (attendance_scan_record_result IN ('ok','invalid'));
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE attendance_sessions
	     ADD CONSTRAINT ck_attendance_session_scope CHECK (
	       (attendance_session_scope_type = 'year'  AND attendance_session_scope_year_id IS NOT NULL AND attendance_session_scope_kelas_id IS NULL) OR
	       (attendance_session_scope_type = 'class' AND attendance_session_scope_kelas_id IS NOT NULL AND attendance_session_scope_year_id IS NULL) OR
	       (attendance_session_scope_type = 'all'   AND attendance_session_scope_year_id IS NULL AND attendance_session_scope_kelas_id IS NULL)
	     );
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE attendance_sessions
	     ADD CONSTRAINT ck_attendance_session_status CHECK (attendance_session_status IN ('open','closed'));
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE attendance_sessions
	     ADD CONSTRAINT ck_attendance_session_step CHECK (attendance_session_token_step_seconds BETWEEN 5 AND 300);
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,

	`DO $$ BEGIN
	   ALTER TABLE attendance_daily_secrets
	     ADD CONSTRAINT ck_daily_secret_day CHECK (attendance_daily_secret_day IN ('mon','tue','wed','thu','fri','sat','sun'));
	 EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}

// Migrate membuat tabel presensi + index/constraint tambahan.
func Migrate(db *gorm.DB) error {
	log.Println("[INFO] Migrasi tabel presensi...")
	if err := db.AutoMigrate(
		&sessionModel.AttendanceSessionModel{},
		&scanModel.AttendanceScanRecordModel{},
		&dailyModel.AttendanceDailySecretModel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for i, stmt := range attendanceDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ddl #%d: %w", i+1, err)
		}
	}
	log.Println("✅ Migrasi presensi selesai.")
	return nil
}
