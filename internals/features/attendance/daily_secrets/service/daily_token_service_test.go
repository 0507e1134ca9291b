package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"presensi_backend/internals/helpers/apperr"
)

var wib = time.FixedZone("WIB", 7*3600)

// Senin 2026-10-12 10:00 WIB
var monday = time.Date(2026, 10, 12, 10, 0, 0, 0, wib)

type countingSource struct {
	name    string
	secrets map[int]string
	err     error
	calls   int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Lookup(_ context.Context, day int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.secrets[day], nil
}

type mapStore map[string]string

func (m mapStore) FindSecret(_ context.Context, code string) (string, bool, error) {
	v, ok := m[code]
	return v, ok, nil
}

func envFrom(m map[string]string) *EnvSource {
	return &EnvSource{LookupEnv: func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}}
}

func newDaily(sources ...SecretSource) *DailyTokenService {
	svc := NewDailyTokenService(NewResolver(sources...), wib)
	svc.Now = func() time.Time { return monday }
	return svc
}

func TestResolverPrecedenceEnvFirst(t *testing.T) {
	env := envFrom(map[string]string{"ATTENDANCE_DAILY_SECRET_MON": "senin-rahasia"})
	settings := &SettingsSource{Store: mapStore{"mon": "dari-db", "tue": "selasa-db"}}
	r := NewResolver(env, settings)

	got, err := r.Resolve(context.Background(), 1)
	if err != nil || string(got) != "senin-rahasia" {
		t.Fatalf("mon = %q, %v; want env secret", got, err)
	}

	got, err = r.Resolve(context.Background(), 2)
	if err != nil || string(got) != "selasa-db" {
		t.Fatalf("tue = %q, %v; want settings fallback", got, err)
	}
}

func TestResolverBlankEnvFallsThrough(t *testing.T) {
	env := envFrom(map[string]string{"ATTENDANCE_DAILY_SECRET_WED": "   "})
	settings := &SettingsSource{Store: mapStore{"wed": "rabu-db"}}

	got, err := NewResolver(env, settings).Resolve(context.Background(), 3)
	if err != nil || string(got) != "rabu-db" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestResolverFailsClosed(t *testing.T) {
	env := envFrom(nil)
	settings := &SettingsSource{Store: mapStore{"fri": ""}}

	_, err := NewResolver(env, settings).Resolve(context.Background(), 5)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindConfiguration || ae.Code != "not_configured" {
		t.Fatalf("err = %v, want not_configured", err)
	}
}

func TestResolverStorageErrorIsInternal(t *testing.T) {
	broken := &countingSource{name: "settings", err: errors.New("db down")}
	_, err := NewResolver(envFrom(nil), broken).Resolve(context.Background(), 1)
	if !apperr.IsKind(err, apperr.KindInternal) {
		t.Fatalf("err = %v, want internal", err)
	}
}

func TestIssueUsesLocalWeekday(t *testing.T) {
	svc := newDaily(envFrom(map[string]string{"ATTENDANCE_DAILY_SECRET_MON": "senin-rahasia"}))

	tok, err := svc.Issue(context.Background(), nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.Day != 1 || tok.DayCode != "mon" || tok.Date != "2026-10-12" {
		t.Fatalf("tok = %+v", tok)
	}
	if tok.Token != "05d372a0e2dc7c74" {
		t.Fatalf("token = %s", tok.Token)
	}
}

func TestIssueOverrideValidatedBeforeLookup(t *testing.T) {
	src := &countingSource{name: "spy", secrets: map[int]string{1: "x"}}
	svc := newDaily(src)

	for _, day := range []int{0, 8} {
		d := day
		_, err := svc.Issue(context.Background(), &d)
		if !apperr.IsKind(err, apperr.KindValidation) {
			t.Fatalf("day %d: err = %v, want validation", day, err)
		}
	}
	if src.calls != 0 {
		t.Fatalf("secret lookup dipanggil %d kali untuk hari invalid", src.calls)
	}
}

func TestIssueOverrideStillResolvesSecret(t *testing.T) {
	svc := newDaily(envFrom(map[string]string{"ATTENDANCE_DAILY_SECRET_MON": "senin-rahasia"}))
	day := 4
	_, err := svc.Issue(context.Background(), &day)
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("err = %v, want configuration (kamis tanpa secret)", err)
	}
}

func TestIssueOverrideDateOnlyForToday(t *testing.T) {
	svc := newDaily(envFrom(map[string]string{
		"ATTENDANCE_DAILY_SECRET_MON": "senin-rahasia",
		"ATTENDANCE_DAILY_SECRET_WED": "rabu-rahasia",
	}))

	cases := []struct {
		name     string
		day      int
		wantDate string
	}{
		{"override ke hari ini", 1, "2026-10-12"},
		{"override ke rabu", 3, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.day
			tok, err := svc.Issue(context.Background(), &d)
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			if tok.Day != tc.day || tok.Date != tc.wantDate {
				t.Fatalf("tok = %+v, want day %d date %q", tok, tc.day, tc.wantDate)
			}
		})
	}
}

func TestVerifyOnlyToday(t *testing.T) {
	svc := newDaily(envFrom(map[string]string{
		"ATTENDANCE_DAILY_SECRET_MON": "senin-rahasia",
		"ATTENDANCE_DAILY_SECRET_TUE": "selasa-rahasia",
	}))

	ok, key, err := svc.Verify(context.Background(), "05d372a0e2dc7c74", monday)
	if err != nil || !ok {
		t.Fatalf("verify senin: ok=%v err=%v", ok, err)
	}
	if key != "daily:2026-10-12" {
		t.Fatalf("key = %s", key)
	}

	ok, _, err = svc.Verify(context.Background(), "05d372a0e2dc7c74", monday.Add(24*time.Hour))
	if err != nil || ok {
		t.Fatalf("token senin dipakai selasa: ok=%v err=%v", ok, err)
	}
}
