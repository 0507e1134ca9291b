// file: internals/features/attendance/daily_secrets/service/daily_token_service.go
package service

import (
	"context"
	"time"

	tokenSvc "presensi_backend/internals/features/attendance/qr_tokens/service"
	"presensi_backend/internals/helpers/apperr"
	"presensi_backend/internals/helpers/dbtime"
)

type DailySecretResolver interface {
	Resolve(ctx context.Context, day int) ([]byte, error)
}

type DailyToken struct {
	Token   string `json:"token"`
	Day     int    `json:"day"`
	DayCode string `json:"day_code"`
	Date    string `json:"date,omitempty"` // kosong kalau day bukan hari ini
}

// DailyTokenService: mode tanpa sesi, token berlaku sepanjang hari kalender lokal.
type DailyTokenService struct {
	Resolver DailySecretResolver
	Location *time.Location
	Now      func() time.Time
}

func NewDailyTokenService(resolver DailySecretResolver, loc *time.Location) *DailyTokenService {
	return &DailyTokenService{Resolver: resolver, Location: loc, Now: time.Now}
}

func (s *DailyTokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today: hari ISO (1..7) di kalender lokal organisasi.
func (s *DailyTokenService) Today(now time.Time) int {
	return dbtime.ISOWeekday(now, s.Location)
}

// Issue: override hari divalidasi 1..7 SEBELUM secret dicari, dan tidak melewati resolusi secret.
func (s *DailyTokenService) Issue(ctx context.Context, dayOverride *int) (*DailyToken, error) {
	now := s.now()
	day := s.Today(now)
	if dayOverride != nil {
		if !dbtime.ValidWeekday(*dayOverride) {
			return nil, apperr.Validation("invalid_day", "day harus 1..7 (1 = Senin)")
		}
		day = *dayOverride
	}

	token, err := s.Expected(ctx, day)
	if err != nil {
		return nil, err
	}
	out := &DailyToken{
		Token:   token,
		Day:     day,
		DayCode: dbtime.WeekdayCode(day),
	}
	// override ke hari lain tidak punya tanggal yang pasti (minggu lalu atau depan)
	if day == s.Today(now) {
		out.Date = dbtime.DateKey(now, s.Location)
	}
	return out, nil
}

func (s *DailyTokenService) Expected(ctx context.Context, day int) (string, error) {
	secret, err := s.Resolver.Resolve(ctx, day)
	if err != nil {
		return "", err
	}
	return tokenSvc.GenerateDailyToken(day, secret)
}

// Verify: hanya token hari ini yang diterima (tanpa grace ke hari lain).
// Mengembalikan scope key harian "daily:YYYY-MM-DD" untuk pencatatan.
func (s *DailyTokenService) Verify(ctx context.Context, presented string, now time.Time) (bool, string, error) {
	day := s.Today(now)
	expected, err := s.Expected(ctx, day)
	if err != nil {
		return false, "", err
	}
	return tokenSvc.Equal(expected, presented), DailyScopeKey(now, s.Location), nil
}

func DailyScopeKey(now time.Time, loc *time.Location) string {
	return tokenSvc.DailyPayloadPrefix + ":" + dbtime.DateKey(now, loc)
}
