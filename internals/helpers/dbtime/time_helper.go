// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"log"
	"strings"
	"time"
)

const (
	DefaultTimezone = "Asia/Jakarta"
	DateLayout      = "2006-01-02"
)

// kode hari lowercase, index 1..7 (1 = Senin)
var weekdayCodes = [...]string{"", "mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// LoadLocation:
// 1) nama timezone dari config
// 2) fallback Asia/Jakarta
// 3) fallback terakhir time.UTC
func LoadLocation(name string) *time.Location {
	if s := strings.TrimSpace(name); s != "" {
		if loc, err := time.LoadLocation(s); err == nil {
			return loc
		}
		log.Printf("[WARN] timezone %q tidak dikenal, fallback ke %s", s, DefaultTimezone)
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// ISOWeekday: 1=Senin .. 7=Minggu, dihitung di kalender lokal loc (bukan UTC).
func ISOWeekday(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return (int(t.Weekday())+6)%7 + 1
}

func ValidWeekday(day int) bool { return day >= 1 && day <= 7 }

// WeekdayCode: 1 → "mon" .. 7 → "sun"; "" kalau di luar range.
func WeekdayCode(day int) string {
	if !ValidWeekday(day) {
		return ""
	}
	return weekdayCodes[day]
}

// ParseWeekdayCode menerima "mon".."sun" (case-insensitive) atau "1".."7".
func ParseWeekdayCode(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := 1; i <= 7; i++ {
		if weekdayCodes[i] == s {
			return i, true
		}
	}
	if len(s) == 1 && s[0] >= '1' && s[0] <= '7' {
		return int(s[0] - '0'), true
	}
	return 0, false
}

// CivilDate: tengah malam tanggal lokal t, dikembalikan sebagai tanggal UTC
// supaya aman disimpan ke kolom DATE.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey: "YYYY-MM-DD" di kalender lokal.
func DateKey(t time.Time, loc *time.Location) string {
	return CivilDate(t, loc).Format(DateLayout)
}
