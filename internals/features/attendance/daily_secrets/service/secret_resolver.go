// file: internals/features/attendance/daily_secrets/service/secret_resolver.go
package service

import (
	"context"
	"os"
	"strings"

	"presensi_backend/internals/configs"
	"presensi_backend/internals/helpers/apperr"
	"presensi_backend/internals/helpers/dbtime"
)

// SecretSource adalah satu strategi pencarian secret harian.
// Lookup mengembalikan "" (tanpa error) kalau sumber ini tidak punya secret untuk hari tsb.
type SecretSource interface {
	Name() string
	Lookup(ctx context.Context, day int) (string, error)
}

// Resolver mencoba setiap source berurutan; secret non-blank pertama yang menang.
// Kalau semua kosong → ConfigurationError (fail closed), tidak pernah default.
type Resolver struct {
	Sources []SecretSource
}

func NewResolver(sources ...SecretSource) *Resolver {
	return &Resolver{Sources: sources}
}

func (r *Resolver) Resolve(ctx context.Context, day int) ([]byte, error) {
	if !dbtime.ValidWeekday(day) {
		return nil, apperr.Validation("invalid_day", "day harus 1..7")
	}
	for _, src := range r.Sources {
		secret, err := src.Lookup(ctx, day)
		if err != nil {
			return nil, apperr.Internal("gagal membaca secret harian dari "+src.Name(), err)
		}
		if s := strings.TrimSpace(secret); s != "" {
			return []byte(s), nil
		}
	}
	return nil, apperr.Configuration("not_configured",
		"Secret presensi harian untuk hari "+dbtime.WeekdayCode(day)+" belum dikonfigurasi")
}

/* ===================== ENV ===================== */

// EnvSource membaca ATTENDANCE_DAILY_SECRET_MON .. _SUN.
type EnvSource struct {
	LookupEnv func(string) (string, bool)
}

func NewEnvSource() *EnvSource {
	return &EnvSource{LookupEnv: os.LookupEnv}
}

func (s *EnvSource) Name() string { return "env" }

func (s *EnvSource) Lookup(_ context.Context, day int) (string, error) {
	key := configs.DailySecretEnvKey(day)
	if key == "" {
		return "", nil
	}
	lookup := s.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(key)
	return v, nil
}

/* ===================== SETTINGS TABLE ===================== */

type SettingsStore interface {
	FindSecret(ctx context.Context, dayCode string) (string, bool, error)
}

// SettingsSource membaca tabel attendance_daily_secrets (key = "mon".."sun").
type SettingsSource struct {
	Store SettingsStore
}

func (s *SettingsSource) Name() string { return "settings" }

func (s *SettingsSource) Lookup(ctx context.Context, day int) (string, error) {
	if s.Store == nil {
		return "", nil
	}
	v, ok, err := s.Store.FindSecret(ctx, dbtime.WeekdayCode(day))
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}
