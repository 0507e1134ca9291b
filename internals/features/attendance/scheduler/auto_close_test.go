package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"presensi_backend/internals/configs"
)

type stubCloser struct {
	n     int64
	err   error
	calls int
}

func (s *stubCloser) AutoCloseStale(context.Context) (int64, error) {
	s.calls++
	return s.n, s.err
}

func TestRunAutoClose(t *testing.T) {
	ok := &stubCloser{n: 3}
	if n, err := RunAutoClose(context.Background(), ok); err != nil || n != 3 {
		t.Fatalf("n=%d err=%v", n, err)
	}

	broken := &stubCloser{err: errors.New("db down")}
	if _, err := RunAutoClose(context.Background(), broken); err == nil {
		t.Fatal("error harus diteruskan")
	}
}

func TestStartAutoCloseCron(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)

	c, err := StartAutoCloseCron(configs.AttendanceConfig{AutoCloseEnabled: false}, &stubCloser{})
	if err != nil || c != nil {
		t.Fatalf("disabled: c=%v err=%v", c, err)
	}

	if _, err := StartAutoCloseCron(configs.AttendanceConfig{
		Location: wib, AutoCloseEnabled: true, AutoCloseCron: "bukan cron",
	}, &stubCloser{}); err == nil {
		t.Fatal("jadwal invalid harus error")
	}

	c, err = StartAutoCloseCron(configs.AttendanceConfig{
		Location: wib, AutoCloseEnabled: true, AutoCloseCron: "5 0 * * *",
	}, &stubCloser{})
	if err != nil || c == nil {
		t.Fatalf("c=%v err=%v", c, err)
	}
	defer c.Stop()

	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	next := entries[0].Schedule.Next(time.Date(2026, 10, 15, 12, 0, 0, 0, wib))
	if want := time.Date(2026, 10, 16, 0, 5, 0, 0, wib); !next.Equal(want) {
		t.Fatalf("next = %s, want %s", next, want)
	}
}
