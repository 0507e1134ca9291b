// file: internals/features/attendance/scans/service/scan_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	tokenSvc "presensi_backend/internals/features/attendance/qr_tokens/service"
	"presensi_backend/internals/features/attendance/scans/model"
	"presensi_backend/internals/features/attendance/scans/repository"
	sessionModel "presensi_backend/internals/features/attendance/sessions/model"
	"presensi_backend/internals/helpers/apperr"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ScopeDaily adalah scope key yang dikirim scanner untuk mode harian (tanpa sesi).
const ScopeDaily = "daily"

// alasan penolakan yang dicatat di audit
const (
	ReasonTokenMismatch = "token_mismatch"
	ReasonOutOfScope    = "out_of_scope"
)

type SessionReader interface {
	Get(ctx context.Context, id uuid.UUID) (*sessionModel.AttendanceSessionModel, error)
}

type DailyVerifier interface {
	Verify(ctx context.Context, presented string, now time.Time) (bool, string, error)
}

type SubjectDirectory interface {
	Placement(ctx context.Context, subjectID uuid.UUID) (*repository.Placement, error)
}

type ScanRepository interface {
	HasOK(ctx context.Context, subjectID uuid.UUID, scopeKey string) (bool, error)
	InsertOK(ctx context.Context, m *model.AttendanceScanRecordModel) error
	InsertAudit(ctx context.Context, m *model.AttendanceScanRecordModel) error
	List(ctx context.Context, f repository.ListFilter) ([]model.AttendanceScanRecordModel, int64, error)
}

type ScanInput struct {
	ScopeKey  string
	Token     string
	SubjectID uuid.UUID
	Now       time.Time
	Meta      map[string]any
}

type Outcome struct {
	Status    model.ScanResult `json:"status"`
	ScopeKey  string           `json:"scope_key"`
	SessionID *uuid.UUID       `json:"session_id,omitempty"`
	RecordID  *uuid.UUID       `json:"record_id,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	ScannedAt time.Time        `json:"scanned_at"`
}

// Err: nil untuk ok; duplicate/invalid dipetakan ke taksonomi apperr supaya
// controller memakai status HTTP & error_code yang sama dengan error lain.
func (o *Outcome) Err() *apperr.Error {
	switch o.Status {
	case model.ScanOK:
		return nil
	case model.ScanDuplicate:
		return apperr.Duplicate("duplicate_scan", "Presensi sudah tercatat sebelumnya")
	default:
		return apperr.InvalidToken("invalid_token", "Token tidak valid atau sudah kedaluwarsa, silakan scan ulang")
	}
}

type ScanService struct {
	Sessions  SessionReader
	Daily     DailyVerifier
	Records   ScanRepository
	Directory SubjectDirectory // nil → scope year/class tidak dicek
	Now       func() time.Time
}

func NewScanService(sessions SessionReader, daily DailyVerifier, records ScanRepository, directory SubjectDirectory) *ScanService {
	return &ScanService{
		Sessions:  sessions,
		Daily:     daily,
		Records:   records,
		Directory: directory,
		Now:       time.Now,
	}
}

func (s *ScanService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

/*
Submit = verifyAndRecord.

	ok        → baris 'ok' baru tersimpan
	duplicate → subject sudah punya 'ok' untuk scope ini, tidak ada baris baru
	invalid   → token tidak cocok / di luar scope, baris audit 'invalid' (boleh coba lagi)

Error (bukan Outcome) untuk: validasi input, sesi tidak ada, sesi tidak open,
secret tidak terkonfigurasi, dan kegagalan storage.
*/
func (s *ScanService) Submit(ctx context.Context, in ScanInput) (*Outcome, error) {
	in.ScopeKey = strings.TrimSpace(in.ScopeKey)
	in.Token = strings.TrimSpace(in.Token)
	if in.ScopeKey == "" {
		return nil, apperr.Validation("scope_key_required", "scope_key wajib diisi")
	}
	if in.Token == "" {
		return nil, apperr.Validation("token_required", "token wajib diisi")
	}
	if in.SubjectID == uuid.Nil {
		return nil, apperr.Validation("subject_required", "subject_id wajib diisi")
	}
	if in.Now.IsZero() {
		in.Now = s.now()
	}

	if strings.EqualFold(in.ScopeKey, ScopeDaily) {
		return s.submitDaily(ctx, in)
	}
	return s.submitSession(ctx, in)
}

func (s *ScanService) submitSession(ctx context.Context, in ScanInput) (*Outcome, error) {
	sessionID, err := uuid.Parse(in.ScopeKey)
	if err != nil {
		return nil, apperr.Validation("invalid_scope_key", "scope_key harus session id atau \"daily\"")
	}

	// status dibaca ulang setiap request; sesi bisa ditutup kapan saja
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsOpen() {
		return nil, apperr.State("session_not_open", "Sesi presensi sudah ditutup")
	}

	// scope key kanonik = id sesi (lowercase), sama dengan payload saat issue
	scopeKey := sess.AttendanceSessionID.String()
	out := &Outcome{ScopeKey: scopeKey, SessionID: &sess.AttendanceSessionID, ScannedAt: in.Now}

	matched, err := tokenSvc.VerifySessionToken(scopeKey, in.Token, sess.AttendanceSessionSecret, in.Now, sess.AttendanceSessionTokenStepSeconds)
	if err != nil {
		return nil, err
	}
	if !matched {
		return s.reject(ctx, in, out, ReasonTokenMismatch), nil
	}

	inScope, err := s.subjectInScope(ctx, sess, in.SubjectID)
	if err != nil {
		return nil, err
	}
	if !inScope {
		return s.reject(ctx, in, out, ReasonOutOfScope), nil
	}

	return s.record(ctx, in, out)
}

func (s *ScanService) submitDaily(ctx context.Context, in ScanInput) (*Outcome, error) {
	if s.Daily == nil {
		return nil, apperr.Configuration("not_configured", "Mode presensi harian tidak aktif")
	}
	matched, scopeKey, err := s.Daily.Verify(ctx, in.Token, in.Now)
	if err != nil {
		return nil, err
	}
	out := &Outcome{ScopeKey: scopeKey, ScannedAt: in.Now}
	if !matched {
		return s.reject(ctx, in, out, ReasonTokenMismatch), nil
	}
	return s.record(ctx, in, out)
}

func (s *ScanService) subjectInScope(ctx context.Context, sess *sessionModel.AttendanceSessionModel, subjectID uuid.UUID) (bool, error) {
	if sess.AttendanceSessionScopeType == sessionModel.ScopeAll || s.Directory == nil {
		return true, nil
	}
	p, err := s.Directory.Placement(ctx, subjectID)
	if err != nil {
		return false, apperr.Internal("gagal membaca data siswa", err)
	}
	if p == nil {
		return false, nil
	}
	switch sess.AttendanceSessionScopeType {
	case sessionModel.ScopeYear:
		return sameID(p.YearID, sess.AttendanceSessionScopeYearID), nil
	case sessionModel.ScopeClass:
		return sameID(p.KelasID, sess.AttendanceSessionScopeKelasID), nil
	}
	return false, nil
}

func sameID(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}

// record: cek dulu (jalur cepat), lalu insert; unique index menutup race check-then-insert.
func (s *ScanService) record(ctx context.Context, in ScanInput, out *Outcome) (*Outcome, error) {
	exists, err := s.Records.HasOK(ctx, in.SubjectID, out.ScopeKey)
	if err != nil {
		return nil, apperr.Internal("gagal memeriksa riwayat scan", err)
	}
	if exists {
		out.Status = model.ScanDuplicate
		return out, nil
	}

	rec := s.newRecord(in, out, model.ScanOK, "")
	if err := s.Records.InsertOK(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateScan) {
			out.Status = model.ScanDuplicate
			return out, nil
		}
		return nil, apperr.Internal("gagal menyimpan scan", err)
	}

	out.Status = model.ScanOK
	out.RecordID = &rec.AttendanceScanRecordID
	return out, nil
}

// reject mencatat audit 'invalid'. Gagal simpan audit tidak menggagalkan response.
func (s *ScanService) reject(ctx context.Context, in ScanInput, out *Outcome, reason string) *Outcome {
	out.Status = model.ScanInvalid
	out.Reason = reason

	rec := s.newRecord(in, out, model.ScanInvalid, reason)
	if err := s.Records.InsertAudit(ctx, rec); err != nil {
		log.Printf("[ATTENDANCE] gagal simpan audit scan invalid subject=%s scope=%s: %v", in.SubjectID, out.ScopeKey, err)
	} else {
		out.RecordID = &rec.AttendanceScanRecordID
	}
	return out
}

func (s *ScanService) newRecord(in ScanInput, out *Outcome, result model.ScanResult, reason string) *model.AttendanceScanRecordModel {
	rec := &model.AttendanceScanRecordModel{
		AttendanceScanRecordID:        uuid.New(),
		AttendanceScanRecordSubjectID: in.SubjectID,
		AttendanceScanRecordScopeKey:  out.ScopeKey,
		AttendanceScanRecordSessionID: out.SessionID,
		AttendanceScanRecordResult:    result,
		AttendanceScanRecordCreatedAt: in.Now,
	}
	if reason != "" {
		r := reason
		rec.AttendanceScanRecordReason = &r
	}
	if len(in.Meta) > 0 {
		rec.AttendanceScanRecordMeta = datatypes.JSONMap(in.Meta)
	}
	return rec
}

func (s *ScanService) History(ctx context.Context, f repository.ListFilter) ([]model.AttendanceScanRecordModel, int64, error) {
	rows, total, err := s.Records.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Internal("gagal membaca riwayat scan", err)
	}
	return rows, total, nil
}
