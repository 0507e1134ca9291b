// file: internals/features/attendance/sessions/service/session_service.go
package service

import (
	"context"
	"crypto/rand"
	"log"
	"time"

	"presensi_backend/internals/configs"
	tokenSvc "presensi_backend/internals/features/attendance/qr_tokens/service"
	"presensi_backend/internals/features/attendance/sessions/model"
	"presensi_backend/internals/features/attendance/sessions/repository"
	"presensi_backend/internals/helpers/apperr"
	"presensi_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

// SecretBytes: 256 bit
const SecretBytes = 32

type SessionRepository interface {
	Create(ctx context.Context, m *model.AttendanceSessionModel) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AttendanceSessionModel, error)
	CloseIfOpen(ctx context.Context, id uuid.UUID, endedAt time.Time) (*model.AttendanceSessionModel, bool, error)
	CloseOpenBefore(ctx context.Context, date time.Time, endedAt time.Time) (int64, error)
	List(ctx context.Context, f repository.ListFilter) ([]model.AttendanceSessionModel, int64, error)
}

type CreateInput struct {
	ScopeType        model.ScopeType
	ScopeYearID      *uuid.UUID
	ScopeKelasID     *uuid.UUID
	TokenStepSeconds *int
	CreatedByUserID  uuid.UUID
}

type IssuedToken struct {
	SessionID   uuid.UUID
	Token       string
	ValidForSec int
	Step        int
	Slot        int64
}

type SessionService struct {
	Repo        SessionRepository
	Location    *time.Location
	DefaultStep int
	Now         func() time.Time
	Rand        func([]byte) (int, error)
}

func NewSessionService(repo SessionRepository, cfg configs.AttendanceConfig) *SessionService {
	return &SessionService{
		Repo:        repo,
		Location:    cfg.Location,
		DefaultStep: cfg.TokenStepSeconds,
		Now:         time.Now,
		Rand:        rand.Read,
	}
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func validateScope(in CreateInput) error {
	if !in.ScopeType.Valid() {
		return apperr.Validation("invalid_scope_type", "scope_type harus year, class, atau all")
	}
	switch in.ScopeType {
	case model.ScopeYear:
		if in.ScopeYearID == nil {
			return apperr.Validation("scope_year_required", "scope_year_id wajib untuk scope year")
		}
		if in.ScopeKelasID != nil {
			return apperr.Validation("scope_kelas_forbidden", "scope_kelas_id tidak boleh diisi untuk scope year")
		}
	case model.ScopeClass:
		if in.ScopeKelasID == nil {
			return apperr.Validation("scope_kelas_required", "scope_kelas_id wajib untuk scope class")
		}
		if in.ScopeYearID != nil {
			return apperr.Validation("scope_year_forbidden", "scope_year_id tidak boleh diisi untuk scope class")
		}
	case model.ScopeAll:
		if in.ScopeYearID != nil || in.ScopeKelasID != nil {
			return apperr.Validation("scope_ids_forbidden", "scope all tidak memakai scope_year_id/scope_kelas_id")
		}
	}
	return nil
}

// Create membuka sesi baru dengan secret acak. Secret tidak pernah dikembalikan ke caller (json:"-").
func (s *SessionService) Create(ctx context.Context, in CreateInput) (*model.AttendanceSessionModel, error) {
	if in.CreatedByUserID == uuid.Nil {
		return nil, apperr.Validation("creator_required", "created_by_user_id wajib")
	}
	if err := validateScope(in); err != nil {
		return nil, err
	}

	step := s.DefaultStep
	if step <= 0 {
		step = configs.DefaultTokenStepSeconds
	}
	if in.TokenStepSeconds != nil {
		if *in.TokenStepSeconds < configs.MinTokenStepSeconds || *in.TokenStepSeconds > configs.MaxTokenStepSeconds {
			return nil, apperr.Validation("invalid_step", "token_step_seconds harus 5..300")
		}
		step = *in.TokenStepSeconds
	}

	secret := make([]byte, SecretBytes)
	if _, err := s.Rand(secret); err != nil {
		return nil, apperr.Internal("gagal membuat secret sesi", err)
	}

	now := s.now()
	m := &model.AttendanceSessionModel{
		AttendanceSessionID:               uuid.New(),
		AttendanceSessionScopeType:        in.ScopeType,
		AttendanceSessionScopeYearID:      in.ScopeYearID,
		AttendanceSessionScopeKelasID:     in.ScopeKelasID,
		AttendanceSessionSecret:           secret,
		AttendanceSessionStatus:           model.SessionOpen,
		AttendanceSessionDate:             dbtime.CivilDate(now, s.Location),
		AttendanceSessionTokenStepSeconds: step,
		AttendanceSessionCreatedByUserID:  in.CreatedByUserID,
		AttendanceSessionCreatedAt:        now,
		AttendanceSessionUpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		return nil, apperr.Internal("gagal menyimpan sesi presensi", err)
	}
	log.Printf("[ATTENDANCE] sesi %s dibuka scope=%s oleh %s", m.AttendanceSessionID, m.AttendanceSessionScopeType, in.CreatedByUserID)
	return m, nil
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*model.AttendanceSessionModel, error) {
	m, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("gagal membaca sesi presensi", err)
	}
	if m == nil {
		return nil, apperr.NotFound("session_not_found", "Sesi presensi tidak ditemukan")
	}
	return m, nil
}

// Close: idempotent. Sesi yang sudah closed dikembalikan apa adanya (ended_at tidak berubah).
func (s *SessionService) Close(ctx context.Context, id uuid.UUID) (*model.AttendanceSessionModel, bool, error) {
	m, changed, err := s.Repo.CloseIfOpen(ctx, id, s.now())
	if err != nil {
		return nil, false, apperr.Internal("gagal menutup sesi presensi", err)
	}
	if m == nil {
		return nil, false, apperr.NotFound("session_not_found", "Sesi presensi tidak ditemukan")
	}
	if changed {
		log.Printf("[ATTENDANCE] sesi %s ditutup", id)
	}
	return m, changed, nil
}

// OpenSession membaca state terbaru; StateError kalau tidak open.
func (s *SessionService) OpenSession(ctx context.Context, id uuid.UUID) (*model.AttendanceSessionModel, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsOpen() {
		return nil, apperr.State("session_not_open", "Sesi presensi sudah ditutup")
	}
	return m, nil
}

// IssueToken: token untuk slot sekarang + sisa detik berlaku.
func (s *SessionService) IssueToken(ctx context.Context, id uuid.UUID) (*IssuedToken, error) {
	m, err := s.OpenSession(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	step := m.AttendanceSessionTokenStepSeconds
	slot := tokenSvc.SlotAt(now, step)
	token, err := tokenSvc.GenerateSessionToken(m.AttendanceSessionID.String(), slot, m.AttendanceSessionSecret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{
		SessionID:   m.AttendanceSessionID,
		Token:       token,
		ValidForSec: tokenSvc.ValidFor(now, step),
		Step:        step,
		Slot:        slot,
	}, nil
}

func (s *SessionService) List(ctx context.Context, f repository.ListFilter) ([]model.AttendanceSessionModel, int64, error) {
	rows, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Internal("gagal membaca daftar sesi", err)
	}
	return rows, total, nil
}

// AutoCloseStale menutup sesi open dari hari-hari sebelum hari ini (kalender lokal).
func (s *SessionService) AutoCloseStale(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.Repo.CloseOpenBefore(ctx, dbtime.CivilDate(now, s.Location), now)
	if err != nil {
		return 0, apperr.Internal("gagal auto-close sesi", err)
	}
	return n, nil
}
