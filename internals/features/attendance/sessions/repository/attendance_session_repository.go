// file: internals/features/attendance/sessions/repository/attendance_session_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"presensi_backend/internals/features/attendance/sessions/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	Status    *model.SessionStatus
	Date      *time.Time
	CreatedBy *uuid.UUID
	Offset    int
	Limit     int
}

type AttendanceSessionRepository struct {
	DB *gorm.DB
}

func NewAttendanceSessionRepository(db *gorm.DB) *AttendanceSessionRepository {
	return &AttendanceSessionRepository{DB: db}
}

func (r *AttendanceSessionRepository) Create(ctx context.Context, m *model.AttendanceSessionModel) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// FindByID selalu membaca state terbaru (tanpa cache). (nil, nil) kalau tidak ada.
func (r *AttendanceSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AttendanceSessionModel, error) {
	var m model.AttendanceSessionModel
	err := r.DB.WithContext(ctx).
		Where("attendance_session_id = ?", id).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CloseIfOpen: satu UPDATE atomik open → closed.
// changed=false kalau sesi sudah closed atau tidak ada (row nil).
func (r *AttendanceSessionRepository) CloseIfOpen(ctx context.Context, id uuid.UUID, endedAt time.Time) (*model.AttendanceSessionModel, bool, error) {
	var rows []model.AttendanceSessionModel
	res := r.DB.WithContext(ctx).
		Model(&rows).
		Clauses(clause.Returning{}).
		Where("attendance_session_id = ? AND attendance_session_status = ?", id, model.SessionOpen).
		Updates(map[string]any{
			"attendance_session_status":     model.SessionClosed,
			"attendance_session_ended_at":   endedAt,
			"attendance_session_updated_at": endedAt,
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 && len(rows) > 0 {
		return &rows[0], true, nil
	}

	m, err := r.FindByID(ctx, id)
	return m, false, err
}

// CloseOpenBefore menutup semua sesi open dengan tanggal < date. Dipakai cron auto-close.
func (r *AttendanceSessionRepository) CloseOpenBefore(ctx context.Context, date time.Time, endedAt time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.AttendanceSessionModel{}).
		Where("attendance_session_status = ? AND attendance_session_date < ?", model.SessionOpen, date).
		Updates(map[string]any{
			"attendance_session_status":     model.SessionClosed,
			"attendance_session_ended_at":   endedAt,
			"attendance_session_updated_at": endedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *AttendanceSessionRepository) List(ctx context.Context, f ListFilter) ([]model.AttendanceSessionModel, int64, error) {
	tx := r.DB.WithContext(ctx).Model(&model.AttendanceSessionModel{})
	if f.Status != nil {
		tx = tx.Where("attendance_session_status = ?", *f.Status)
	}
	if f.Date != nil {
		tx = tx.Where("attendance_session_date = ?", *f.Date)
	}
	if f.CreatedBy != nil {
		tx = tx.Where("attendance_session_created_by_user_id = ?", *f.CreatedBy)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AttendanceSessionModel
	q := tx.Order("attendance_session_created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
