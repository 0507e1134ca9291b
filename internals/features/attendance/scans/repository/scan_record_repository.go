// file: internals/features/attendance/scans/repository/scan_record_repository.go
package repository

import (
	"context"
	"errors"

	"presensi_backend/internals/features/attendance/scans/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateScan: insert 'ok' ditolak unique index (race dua scan bersamaan).
var ErrDuplicateScan = errors.New("scan ok sudah tercatat")

const uniqueViolation = "23505"

type ListFilter struct {
	SessionID *uuid.UUID
	SubjectID *uuid.UUID
	ScopeKey  string
	Result    *model.ScanResult
	Offset    int
	Limit     int
}

type ScanRecordRepository struct {
	DB *gorm.DB
}

func NewScanRecordRepository(db *gorm.DB) *ScanRecordRepository {
	return &ScanRecordRepository{DB: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *ScanRecordRepository) HasOK(ctx context.Context, subjectID uuid.UUID, scopeKey string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.AttendanceScanRecordModel{}).
		Where("attendance_scan_record_subject_id = ? AND attendance_scan_record_scope_key = ? AND attendance_scan_record_result = ?",
			subjectID, scopeKey, model.ScanOK).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// InsertOK mengandalkan unique index parsial; pelanggaran → ErrDuplicateScan.
func (r *ScanRecordRepository) InsertOK(ctx context.Context, m *model.AttendanceScanRecordModel) error {
	m.AttendanceScanRecordResult = model.ScanOK
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateScan
		}
		return err
	}
	return nil
}

func (r *ScanRecordRepository) InsertAudit(ctx context.Context, m *model.AttendanceScanRecordModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *ScanRecordRepository) List(ctx context.Context, f ListFilter) ([]model.AttendanceScanRecordModel, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.AttendanceScanRecordModel{})
	if f.SessionID != nil {
		tx = tx.Where("attendance_scan_record_session_id = ?", *f.SessionID)
	}
	if f.SubjectID != nil {
		tx = tx.Where("attendance_scan_record_subject_id = ?", *f.SubjectID)
	}
	if f.ScopeKey != "" {
		tx = tx.Where("attendance_scan_record_scope_key = ?", f.ScopeKey)
	}
	if f.Result != nil {
		tx = tx.Where("attendance_scan_record_result = ?", *f.Result)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AttendanceScanRecordModel
	q := tx.Order("attendance_scan_record_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
