// file: internals/features/attendance/daily_secrets/repository/daily_secret_repository.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"presensi_backend/internals/features/attendance/daily_secrets/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailySecretRepository struct {
	DB *gorm.DB
}

func NewDailySecretRepository(db *gorm.DB) *DailySecretRepository {
	return &DailySecretRepository{DB: db}
}

// FindSecret: ("", false, nil) kalau baris belum ada.
func (r *DailySecretRepository) FindSecret(ctx context.Context, dayCode string) (string, bool, error) {
	var row model.AttendanceDailySecretModel
	err := r.DB.WithContext(ctx).
		Where("attendance_daily_secret_day = ?", strings.ToLower(dayCode)).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.AttendanceDailySecretValue, true, nil
}

func (r *DailySecretRepository) List(ctx context.Context) ([]model.AttendanceDailySecretModel, error) {
	var rows []model.AttendanceDailySecretModel
	err := r.DB.WithContext(ctx).
		Order("attendance_daily_secret_day ASC").
		Find(&rows).Error
	return rows, err
}

// Upsert: ON CONFLICT (day) DO UPDATE value/updated_by/updated_at
func (r *DailySecretRepository) Upsert(ctx context.Context, dayCode, secret string, updatedBy *uuid.UUID) error {
	row := model.AttendanceDailySecretModel{
		AttendanceDailySecretDay:       strings.ToLower(dayCode),
		AttendanceDailySecretValue:     secret,
		AttendanceDailySecretUpdatedBy: updatedBy,
		AttendanceDailySecretUpdatedAt: time.Now().UTC(),
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attendance_daily_secret_day"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_daily_secret_value",
			"attendance_daily_secret_updated_by",
			"attendance_daily_secret_updated_at",
		}),
	}).Create(&row).Error
}

// Delete: (false, nil) kalau memang tidak ada.
func (r *DailySecretRepository) Delete(ctx context.Context, dayCode string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("attendance_daily_secret_day = ?", strings.ToLower(dayCode)).
		Delete(&model.AttendanceDailySecretModel{})
	return res.RowsAffected > 0, res.Error
}
