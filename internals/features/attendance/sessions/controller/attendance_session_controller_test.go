package controller

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"presensi_backend/internals/configs"
	"presensi_backend/internals/features/attendance/sessions/dto"
	"presensi_backend/internals/features/attendance/sessions/model"
	"presensi_backend/internals/features/attendance/sessions/repository"
	sessionSvc "presensi_backend/internals/features/attendance/sessions/service"
	helperAuth "presensi_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type memSessions struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.AttendanceSessionModel
}

func newMemSessions() *memSessions {
	return &memSessions{rows: map[uuid.UUID]model.AttendanceSessionModel{}}
}

func (r *memSessions) Create(_ context.Context, m *model.AttendanceSessionModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.AttendanceSessionID] = *m
	return nil
}

func (r *memSessions) FindByID(_ context.Context, id uuid.UUID) (*model.AttendanceSessionModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memSessions) CloseIfOpen(_ context.Context, id uuid.UUID, endedAt time.Time) (*model.AttendanceSessionModel, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	if m.AttendanceSessionStatus != model.SessionOpen {
		return &m, false, nil
	}
	m.AttendanceSessionStatus = model.SessionClosed
	m.AttendanceSessionEndedAt = &endedAt
	r.rows[id] = m
	return &m, true, nil
}

func (r *memSessions) CloseOpenBefore(_ context.Context, date time.Time, endedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.rows {
		if m.AttendanceSessionStatus == model.SessionOpen && m.AttendanceSessionDate.Before(date) {
			m.AttendanceSessionStatus = model.SessionClosed
			m.AttendanceSessionEndedAt = &endedAt
			r.rows[id] = m
			n++
		}
	}
	return n, nil
}

func (r *memSessions) List(_ context.Context, f repository.ListFilter) ([]model.AttendanceSessionModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AttendanceSessionModel, 0, len(r.rows))
	for _, m := range r.rows {
		if f.Status != nil && m.AttendanceSessionStatus != *f.Status {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

// secret deterministik 0x00..0x1f supaya bisa dicari di body response
var fixedSecret = func() []byte {
	b := make([]byte, sessionSvc.SecretBytes)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}()

func newSessionApp(t *testing.T) (*fiber.App, *memSessions) {
	t.Helper()
	wib := time.FixedZone("WIB", 7*3600)
	repo := newMemSessions()
	svc := sessionSvc.NewSessionService(repo, configs.AttendanceConfig{Location: wib, TokenStepSeconds: 20})
	svc.Now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 5, 0, wib) }
	svc.Rand = func(b []byte) (int, error) { return copy(b, fixedSecret), nil }

	ctl := NewAttendanceSessionController(svc)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocUserID, "6f1c2b9e-0000-4000-8000-000000000001")
		return c.Next()
	})
	g := app.Group("/attendance/sessions")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Post("/:id/close", ctl.Close)
	g.Get("/:id/token", ctl.Token)
	g.Get("/:id/qr.png", ctl.QR)
	return app, repo
}

func doReq(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

func createSession(t *testing.T, app *fiber.App) dto.AttendanceSessionResponse {
	t.Helper()
	resp, raw := doReq(t, app, "POST", "/attendance/sessions", `{"scope_type":"all","token_step_seconds":30}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.StatusCode, raw)
	}
	var out struct {
		Success bool                          `json:"success"`
		Data    dto.AttendanceSessionResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	return out.Data
}

func assertNoSecret(t *testing.T, label string, raw []byte) {
	t.Helper()
	for _, enc := range []string{
		hex.EncodeToString(fixedSecret),
		base64.StdEncoding.EncodeToString(fixedSecret),
		base64.RawURLEncoding.EncodeToString(fixedSecret),
	} {
		if bytes.Contains(raw, []byte(enc)) {
			t.Fatalf("%s: body memuat secret sesi: %s", label, raw)
		}
	}
	if bytes.Contains(raw, []byte("secret")) {
		t.Fatalf("%s: body memuat field secret: %s", label, raw)
	}
}

func TestCreateSessionShape(t *testing.T) {
	app, _ := newSessionApp(t)
	resp, raw := doReq(t, app, "POST", "/attendance/sessions", `{"scope_type":"ALL"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, raw)
	}

	var out struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Success {
		t.Fatalf("success = false, body = %s", raw)
	}
	for _, key := range []string{"session_id", "scope_type", "status", "session_date", "step", "created_by_user_id", "created_at"} {
		if _, ok := out.Data[key]; !ok {
			t.Errorf("data tidak punya key %q: %s", key, raw)
		}
	}
	if out.Data["status"] != "open" || out.Data["scope_type"] != "all" {
		t.Errorf("status/scope = %v/%v", out.Data["status"], out.Data["scope_type"])
	}
	if out.Data["step"] != float64(20) {
		t.Errorf("step = %v, want default 20", out.Data["step"])
	}
	if out.Data["session_date"] != "2026-10-15" {
		t.Errorf("session_date = %v", out.Data["session_date"])
	}
	if _, ok := out.Data["ended_at"]; ok {
		t.Errorf("ended_at harus kosong untuk sesi open")
	}
}

func TestCreateSessionRejectsBadScope(t *testing.T) {
	app, _ := newSessionApp(t)
	cases := []struct {
		name string
		body string
	}{
		{"unknown scope", `{"scope_type":"school"}`},
		{"class without kelas", `{"scope_type":"class"}`},
		{"step too small", `{"scope_type":"all","token_step_seconds":2}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doReq(t, app, "POST", "/attendance/sessions", tc.body)
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, raw)
			}
		})
	}
}

func TestSessionResponsesNeverCarrySecret(t *testing.T) {
	app, _ := newSessionApp(t)

	resp, raw := doReq(t, app, "POST", "/attendance/sessions", `{"scope_type":"all"}`)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	assertNoSecret(t, "create", raw)

	var created struct {
		Data dto.AttendanceSessionResponse `json:"data"`
	}
	_ = json.Unmarshal(raw, &created)
	id := created.Data.SessionID.String()

	_, raw = doReq(t, app, "GET", "/attendance/sessions/"+id, "")
	assertNoSecret(t, "get", raw)

	_, raw = doReq(t, app, "GET", "/attendance/sessions", "")
	assertNoSecret(t, "list", raw)
	if !bytes.Contains(raw, []byte(id)) {
		t.Fatalf("list tidak memuat sesi %s: %s", id, raw)
	}

	_, raw = doReq(t, app, "GET", "/attendance/sessions/"+id+"/token", "")
	assertNoSecret(t, "token", raw)

	_, raw = doReq(t, app, "POST", "/attendance/sessions/"+id+"/close", "")
	assertNoSecret(t, "close", raw)
}

func TestCloseSessionIsIdempotent(t *testing.T) {
	app, _ := newSessionApp(t)
	s := createSession(t, app)
	path := "/attendance/sessions/" + s.SessionID.String() + "/close"

	type closeBody struct {
		Message string                        `json:"message"`
		Data    dto.AttendanceSessionResponse `json:"data"`
	}

	resp, raw := doReq(t, app, "POST", path, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("close #1 status = %d, body = %s", resp.StatusCode, raw)
	}
	var first closeBody
	_ = json.Unmarshal(raw, &first)
	if first.Data.Status != "closed" || first.Data.EndedAt == nil {
		t.Fatalf("close #1 data = %+v", first.Data)
	}

	resp, raw = doReq(t, app, "POST", path, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("close #2 status = %d, body = %s", resp.StatusCode, raw)
	}
	var second closeBody
	_ = json.Unmarshal(raw, &second)
	if !strings.Contains(second.Message, "sebelumnya") {
		t.Errorf("close #2 message = %q", second.Message)
	}
	if second.Data.EndedAt == nil || !second.Data.EndedAt.Equal(*first.Data.EndedAt) {
		t.Errorf("ended_at berubah: %v → %v", first.Data.EndedAt, second.Data.EndedAt)
	}
}

func TestTokenEndpointNoStore(t *testing.T) {
	app, _ := newSessionApp(t)
	s := createSession(t, app)
	base := "/attendance/sessions/" + s.SessionID.String()

	resp, raw := doReq(t, app, "GET", base+"/token", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("token status = %d, body = %s", resp.StatusCode, raw)
	}
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
	var tok struct {
		Data dto.SessionTokenResponse `json:"data"`
	}
	if err := json.Unmarshal(raw, &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	// 09:00:05 dengan step 30 → sisa 25 detik
	if tok.Data.Token == "" || tok.Data.Step != 30 || tok.Data.ValidForSec != 25 {
		t.Errorf("token = %+v", tok.Data)
	}

	doReq(t, app, "POST", base+"/close", "")

	for _, p := range []string{base + "/token", base + "/qr.png"} {
		resp, raw = doReq(t, app, "GET", p, "")
		if resp.StatusCode != fiber.StatusConflict {
			t.Fatalf("%s status = %d, body = %s", p, resp.StatusCode, raw)
		}
		if !strings.Contains(string(raw), `"error_code":"SESSION_NOT_OPEN"`) {
			t.Errorf("%s body = %s", p, raw)
		}
		if got := resp.Header.Get(fiber.HeaderCacheControl); got != "no-store" {
			t.Errorf("%s Cache-Control = %q", p, got)
		}
	}
}

func TestQREndpointServesPNG(t *testing.T) {
	app, _ := newSessionApp(t)
	s := createSession(t, app)

	resp, raw := doReq(t, app, "GET", "/attendance/sessions/"+s.SessionID.String()+"/qr.png?size=256", "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, raw)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("body bukan PNG (%d byte)", len(raw))
	}
	if resp.Header.Get("X-Token-Valid-For") == "" {
		t.Errorf("X-Token-Valid-For kosong")
	}
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestSessionLookupErrors(t *testing.T) {
	app, _ := newSessionApp(t)
	cases := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{"unknown id", "GET", "/attendance/sessions/" + uuid.NewString(), fiber.StatusNotFound, "SESSION_NOT_FOUND"},
		{"unknown id close", "POST", "/attendance/sessions/" + uuid.NewString() + "/close", fiber.StatusNotFound, "SESSION_NOT_FOUND"},
		{"bad id", "GET", "/attendance/sessions/bukan-uuid/token", fiber.StatusBadRequest, "BAD_REQUEST"},
		{"bad status filter", "GET", "/attendance/sessions?status=paused", fiber.StatusBadRequest, "BAD_REQUEST"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doReq(t, app, tc.method, tc.path, "")
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d, body = %s", resp.StatusCode, tc.status, raw)
			}
			if !strings.Contains(string(raw), `"error_code":"`+tc.code+`"`) {
				t.Errorf("body = %s, want %s", raw, tc.code)
			}
		})
	}
}
