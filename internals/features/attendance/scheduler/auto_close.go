// file: internals/features/attendance/scheduler/auto_close.go
package scheduler

import (
	"context"
	"log"
	"time"

	"presensi_backend/internals/configs"

	"github.com/robfig/cron/v3"
)

// SessionCloser: sessions/service.SessionService
type SessionCloser interface {
	AutoCloseStale(ctx context.Context) (int64, error)
}

// RunAutoClose satu kali jalan; dipakai cron dan test.
func RunAutoClose(ctx context.Context, closer SessionCloser) (int64, error) {
	n, err := closer.AutoCloseStale(ctx)
	if err != nil {
		log.Printf("[CRON] auto-close sesi gagal: %v", err)
		return 0, err
	}
	if n > 0 {
		log.Printf("[CRON] auto-close: %d sesi basi ditutup", n)
	} else {
		log.Printf("[CRON] auto-close: tidak ada sesi basi")
	}
	return n, nil
}

// StartAutoCloseCron: panggil dari main.go setelah DB siap. Jadwal mengikuti zona waktu organisasi.
// Mengembalikan *cron.Cron supaya bisa di-Stop saat shutdown (nil kalau dimatikan).
func StartAutoCloseCron(cfg configs.AttendanceConfig, closer SessionCloser) (*cron.Cron, error) {
	if !cfg.AutoCloseEnabled {
		log.Printf("[CRON] auto-close sesi dimatikan (ATTENDANCE_AUTOCLOSE_ENABLED=false)")
		return nil, nil
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(cfg.AutoCloseCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_, _ = RunAutoClose(ctx, closer)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[CRON] auto-close started schedule=%q tz=%s", cfg.AutoCloseCron, loc)
	c.Start()
	return c, nil
}
