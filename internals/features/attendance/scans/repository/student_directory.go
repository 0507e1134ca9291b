// file: internals/features/attendance/scans/repository/student_directory.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Placement: tahun ajaran & kelas siswa saat ini. nil kalau belum ditempatkan.
type Placement struct {
	YearID  *uuid.UUID `gorm:"column:student_year_id"`
	KelasID *uuid.UUID `gorm:"column:student_kelas_id"`
}

// StudentDirectory membaca tabel students (dikelola modul master data, bukan modul ini).
type StudentDirectory struct {
	DB *gorm.DB
}

func NewStudentDirectory(db *gorm.DB) *StudentDirectory {
	return &StudentDirectory{DB: db}
}

// Placement: (nil, nil) kalau siswa tidak ditemukan.
func (d *StudentDirectory) Placement(ctx context.Context, studentID uuid.UUID) (*Placement, error) {
	var p Placement
	err := d.DB.WithContext(ctx).
		Table("students").
		Select("student_year_id, student_kelas_id").
		Where("student_id = ?", studentID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
