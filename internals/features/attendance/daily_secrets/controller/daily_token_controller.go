// file: internals/features/attendance/daily_secrets/controller/daily_token_controller.go
package controller

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"presensi_backend/internals/features/attendance/daily_secrets/dto"
	"presensi_backend/internals/features/attendance/daily_secrets/model"
	dailySvc "presensi_backend/internals/features/attendance/daily_secrets/service"
	helper "presensi_backend/internals/helpers"
	helperAuth "presensi_backend/internals/helpers/auth"
	"presensi_backend/internals/helpers/dbtime"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DailySecretStore interface {
	List(ctx context.Context) ([]model.AttendanceDailySecretModel, error)
	Upsert(ctx context.Context, dayCode, secret string, updatedBy *uuid.UUID) error
	Delete(ctx context.Context, dayCode string) (bool, error)
}

type DailyTokenController struct {
	Tokens    *dailySvc.DailyTokenService
	Store     DailySecretStore
	Env       *dailySvc.EnvSource
	Validator *validator.Validate
}

func NewDailyTokenController(tokens *dailySvc.DailyTokenService, store DailySecretStore, env *dailySvc.EnvSource) *DailyTokenController {
	return &DailyTokenController{
		Tokens:    tokens,
		Store:     store,
		Env:       env,
		Validator: validator.New(),
	}
}

/*
GET /attendance/daily/token?day=1..7
day opsional (override untuk inspeksi/testing), default = hari ini di timezone sekolah.
*/
func (ctl *DailyTokenController) IssueToken(c *fiber.Ctx) error {
	var override *int
	if raw := strings.TrimSpace(c.Query("day")); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return helper.JsonErrorCode(c, fiber.StatusBadRequest, "INVALID_DAY", "day harus angka 1..7")
		}
		override = &d
	}

	tok, err := ctl.Tokens.Issue(c.UserContext(), override)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return helper.JsonOK(c, "Token harian", tok)
}

// GET /attendance/daily-secrets
func (ctl *DailyTokenController) ListStatus(c *fiber.Ctx) error {
	rows, err := ctl.Store.List(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	byCode := make(map[string]model.AttendanceDailySecretModel, len(rows))
	for _, r := range rows {
		byCode[r.AttendanceDailySecretDay] = r
	}

	out := make([]dto.DailySecretStatusResponse, 0, 7)
	for day := 1; day <= 7; day++ {
		code := dbtime.WeekdayCode(day)
		item := dto.DailySecretStatusResponse{Day: day, DayCode: code}

		// urutan sama dengan resolver: env dulu, baru settings
		if v, _ := ctl.Env.Lookup(c.UserContext(), day); strings.TrimSpace(v) != "" {
			item.Configured = true
			item.Source = "env"
		} else if r, ok := byCode[code]; ok && strings.TrimSpace(r.AttendanceDailySecretValue) != "" {
			item.Configured = true
			item.Source = "settings"
			ts := r.AttendanceDailySecretUpdatedAt
			item.UpdatedAt = &ts
		}
		out = append(out, item)
	}
	return helper.JsonOK(c, "Status secret harian", out)
}

// PUT /attendance/daily-secrets/:day   (day = mon..sun atau 1..7)
func (ctl *DailyTokenController) Upsert(c *fiber.Ctx) error {
	day, ok := dbtime.ParseWeekdayCode(c.Params("day"))
	if !ok {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "INVALID_DAY", "day harus mon..sun atau 1..7")
	}

	var req dto.UpsertDailySecretRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var updatedBy *uuid.UUID
	if uid, err := helperAuth.GetUserIDFromToken(c); err == nil {
		updatedBy = &uid
	}

	code := dbtime.WeekdayCode(day)
	if err := ctl.Store.Upsert(c.UserContext(), code, req.Secret, updatedBy); err != nil {
		return helper.JsonAppError(c, err)
	}
	log.Printf("[ATTENDANCE] secret harian %s diperbarui oleh %v", code, updatedBy)

	now := time.Now()
	return helper.JsonUpdated(c, "Secret harian disimpan", dto.DailySecretStatusResponse{
		Day:        day,
		DayCode:    code,
		Configured: true,
		Source:     "settings",
		UpdatedAt:  &now,
	})
}

// DELETE /attendance/daily-secrets/:day
func (ctl *DailyTokenController) Delete(c *fiber.Ctx) error {
	day, ok := dbtime.ParseWeekdayCode(c.Params("day"))
	if !ok {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "INVALID_DAY", "day harus mon..sun atau 1..7")
	}
	code := dbtime.WeekdayCode(day)
	deleted, err := ctl.Store.Delete(c.UserContext(), code)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	if !deleted {
		return helper.JsonError(c, fiber.StatusNotFound, "Secret harian "+code+" tidak ditemukan")
	}
	return helper.JsonDeleted(c, "Secret harian dihapus", fiber.Map{"day": day, "day_code": code})
}
