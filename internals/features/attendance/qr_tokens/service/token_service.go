// file: internals/features/attendance/qr_tokens/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"

	"presensi_backend/internals/helpers/apperr"
)

const (
	SessionTokenLength = 12 // hex chars (48 bit)
	DailyTokenLength   = 16 // hex chars (64 bit)

	DailyPayloadPrefix = "daily"
)

// SessionPayload: "{scopeKey}:{slot}". Harus identik di issuer & verifier.
func SessionPayload(scopeKey string, slot int64) string {
	return scopeKey + ":" + strconv.FormatInt(slot, 10)
}

// DailyPayload: "daily:{day}", day 1..7 (1 = Senin).
func DailyPayload(day int) string {
	return DailyPayloadPrefix + ":" + strconv.Itoa(day)
}

func sign(secret []byte, payload string, length int) (string, error) {
	if len(secret) == 0 {
		return "", apperr.Configuration("not_configured", "Secret token presensi belum dikonfigurasi")
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))[:length], nil
}

// GenerateSessionToken: HMAC-SHA256(secret, "{scopeKey}:{slot}") → 12 hex pertama.
func GenerateSessionToken(scopeKey string, slot int64, secret []byte) (string, error) {
	return sign(secret, SessionPayload(scopeKey, slot), SessionTokenLength)
}

// GenerateDailyToken: HMAC-SHA256(secret, "daily:{day}") → 16 hex pertama.
func GenerateDailyToken(day int, secret []byte) (string, error) {
	if day < 1 || day > 7 {
		return "", apperr.Validation("invalid_day", "day harus 1..7")
	}
	return sign(secret, DailyPayload(day), DailyTokenLength)
}

// SlotAt: floor(unixSeconds / step). Floor juga untuk waktu sebelum epoch.
func SlotAt(t time.Time, step int) int64 {
	if step <= 0 {
		step = 1
	}
	sec := t.Unix()
	s := int64(step)
	slot := sec / s
	if sec%s != 0 && sec < 0 {
		slot--
	}
	return slot
}

// ValidFor: sisa detik sampai slot berikutnya (1..step).
func ValidFor(t time.Time, step int) int {
	if step <= 0 {
		return 0
	}
	next := (SlotAt(t, step) + 1) * int64(step)
	return int(next - t.Unix())
}

// Equal: perbandingan constant-time.
func Equal(expected, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}

// AcceptedSlots: slot sekarang + satu slot sebelumnya (grace). Slot masa depan tidak pernah diterima.
func AcceptedSlots(now time.Time, step int) []int64 {
	cur := SlotAt(now, step)
	return []int64{cur, cur - 1}
}

// VerifySessionToken mencocokkan token terhadap semua slot yang diterima.
// Semua kandidat tetap dihitung supaya waktu respon tidak bergantung slot mana yang cocok.
func VerifySessionToken(scopeKey, presented string, secret []byte, now time.Time, step int) (bool, error) {
	matched := false
	for _, slot := range AcceptedSlots(now, step) {
		expected, err := GenerateSessionToken(scopeKey, slot, secret)
		if err != nil {
			return false, err
		}
		if Equal(expected, presented) {
			matched = true
		}
	}
	return matched, nil
}
