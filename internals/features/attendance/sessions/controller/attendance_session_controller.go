// file: internals/features/attendance/sessions/controller/attendance_session_controller.go
package controller

import (
	"strconv"
	"strings"
	"time"

	tokenSvc "presensi_backend/internals/features/attendance/qr_tokens/service"
	"presensi_backend/internals/features/attendance/sessions/dto"
	"presensi_backend/internals/features/attendance/sessions/model"
	"presensi_backend/internals/features/attendance/sessions/repository"
	sessionSvc "presensi_backend/internals/features/attendance/sessions/service"
	helper "presensi_backend/internals/helpers"
	helperAuth "presensi_backend/internals/helpers/auth"
	"presensi_backend/internals/helpers/dbtime"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AttendanceSessionController struct {
	Sessions  *sessionSvc.SessionService
	Validator *validator.Validate
}

func NewAttendanceSessionController(sessions *sessionSvc.SessionService) *AttendanceSessionController {
	return &AttendanceSessionController{
		Sessions:  sessions,
		Validator: validator.New(),
	}
}

func parseSessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "session id tidak valid")
	}
	return id, nil
}

// POST /attendance/sessions
func (ctl *AttendanceSessionController) Create(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.CreateAttendanceSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m, err := ctl.Sessions.Create(c.UserContext(), sessionSvc.CreateInput{
		ScopeType:        model.ScopeType(req.ScopeType),
		ScopeYearID:      req.ScopeYearID,
		ScopeKelasID:     req.ScopeKelasID,
		TokenStepSeconds: req.TokenStepSeconds,
		CreatedByUserID:  userID,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Sesi presensi dibuka", dto.FromModel(m))
}

// GET /attendance/sessions?status=open&date=2026-10-15&mine=true
func (ctl *AttendanceSessionController) List(c *fiber.Ctx) error {
	var q dto.ListAttendanceSessionQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Query tidak valid")
	}

	paging := helper.ResolvePaging(c, 20, 100)
	f := repository.ListFilter{Offset: paging.Offset, Limit: paging.Limit}

	switch s := model.SessionStatus(strings.ToLower(strings.TrimSpace(q.Status))); s {
	case "":
	case model.SessionOpen, model.SessionClosed:
		f.Status = &s
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "status harus open atau closed")
	}

	if d := strings.TrimSpace(q.Date); d != "" {
		t, err := time.Parse(dbtime.DateLayout, d)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date invalid format, expected YYYY-MM-DD")
		}
		f.Date = &t
	}

	if q.Mine {
		uid, err := helperAuth.GetUserIDFromToken(c)
		if err != nil {
			return helper.JsonAppError(c, err)
		}
		f.CreatedBy = &uid
	}

	rows, total, err := ctl.Sessions.List(c.UserContext(), f)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "Daftar sesi presensi", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// GET /attendance/sessions/:id
func (ctl *AttendanceSessionController) GetByID(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	m, err := ctl.Sessions.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Detail sesi presensi", dto.FromModel(m))
}

// POST /attendance/sessions/:id/close (idempotent)
func (ctl *AttendanceSessionController) Close(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	m, changed, err := ctl.Sessions.Close(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	msg := "Sesi presensi ditutup"
	if !changed {
		msg = "Sesi presensi sudah ditutup sebelumnya"
	}
	return helper.JsonUpdated(c, msg, dto.FromModel(m))
}

// GET /attendance/sessions/:id/token  → dipolling layar QR tiap step detik
func (ctl *AttendanceSessionController) Token(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	// token/QR tidak boleh di-cache, termasuk response error-nya
	c.Set(fiber.HeaderCacheControl, "no-store")
	tok, err := ctl.Sessions.IssueToken(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Token sesi", dto.SessionTokenResponse{
		SessionID:   tok.SessionID,
		Token:       tok.Token,
		ValidForSec: tok.ValidForSec,
		Step:        tok.Step,
		Slot:        tok.Slot,
	})
}

// GET /attendance/sessions/:id/qr.png?size=320
func (ctl *AttendanceSessionController) QR(c *fiber.Ctx) error {
	id, err := parseSessionID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	tok, err := ctl.Sessions.IssueToken(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	content, err := tokenSvc.QRPayload{ScopeKey: tok.SessionID.String(), Token: tok.Token}.Encode()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat payload QR")
	}
	size, _ := strconv.Atoi(c.Query("size"))
	png, err := tokenSvc.RenderQR(content, size)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat QR")
	}

	c.Set("X-Token-Valid-For", strconv.Itoa(tok.ValidForSec))
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
