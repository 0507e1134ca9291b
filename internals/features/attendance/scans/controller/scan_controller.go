// file: internals/features/attendance/scans/controller/scan_controller.go
package controller

import (
	"strings"

	"presensi_backend/internals/features/attendance/scans/dto"
	"presensi_backend/internals/features/attendance/scans/model"
	"presensi_backend/internals/features/attendance/scans/repository"
	scanSvc "presensi_backend/internals/features/attendance/scans/service"
	helper "presensi_backend/internals/helpers"
	helperAuth "presensi_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScanController struct {
	Scans     *scanSvc.ScanService
	Validator *validator.Validate
}

func NewScanController(scans *scanSvc.ScanService) *ScanController {
	return &ScanController{
		Scans:     scans,
		Validator: validator.New(),
	}
}

// POST /attendance/scan
//
//	ok        → 201
//	duplicate → 409 (DUPLICATE_SCAN)
//	invalid   → 422 (INVALID_TOKEN), boleh scan ulang
//
// duplicate/invalid tetap membawa Outcome di "data".
func (ctl *ScanController) Submit(c *fiber.Ctx) error {
	subjectID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.SubmitScanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	meta := map[string]any{"ip": c.IP()}
	if ua := strings.TrimSpace(c.Get(fiber.HeaderUserAgent)); ua != "" {
		if len(ua) > 200 {
			ua = ua[:200]
		}
		meta["user_agent"] = ua
	}

	out, err := ctl.Scans.Submit(c.UserContext(), scanSvc.ScanInput{
		ScopeKey:  req.ScopeKey,
		Token:     req.Token,
		SubjectID: subjectID,
		Meta:      meta,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	if e := out.Err(); e != nil {
		return c.Status(helper.AppErrorStatus(e.Kind)).JSON(fiber.Map{
			"success":    false,
			"message":    e.Message,
			"error_code": strings.ToUpper(e.Code),
			"data":       out,
		})
	}
	return helper.JsonCreated(c, "Presensi tercatat", out)
}

// GET /attendance/scans/me?result=ok
func (ctl *ScanController) MyHistory(c *fiber.Ctx) error {
	subjectID, err := helperAuth.GetStudentIDFromToken(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	f, err := parseListQuery(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	f.SubjectID = &subjectID
	return ctl.list(c, f, "Riwayat presensi saya")
}

// GET /attendance/sessions/:id/scans?result=&subject_id=
func (ctl *ScanController) SessionHistory(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "session id tidak valid")
	}
	f, err := parseListQuery(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	f.SessionID = &sessionID
	return ctl.list(c, f, "Riwayat scan sesi")
}

func (ctl *ScanController) list(c *fiber.Ctx, f repository.ListFilter, msg string) error {
	paging := helper.ResolvePaging(c, 50, 200)
	f.Offset, f.Limit = paging.Offset, paging.Limit

	rows, total, err := ctl.Scans.History(c.UserContext(), f)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, msg, dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

func parseListQuery(c *fiber.Ctx) (repository.ListFilter, error) {
	var q dto.ListScanQuery
	if err := c.QueryParser(&q); err != nil {
		return repository.ListFilter{}, fiber.NewError(fiber.StatusBadRequest, "Query tidak valid")
	}

	var f repository.ListFilter
	switch r := model.ScanResult(strings.ToLower(strings.TrimSpace(q.Result))); r {
	case "":
	case model.ScanOK, model.ScanInvalid:
		f.Result = &r
	default:
		return f, fiber.NewError(fiber.StatusBadRequest, "result harus ok atau invalid")
	}

	if s := strings.TrimSpace(q.SubjectID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "subject_id tidak valid")
		}
		f.SubjectID = &id
	}
	return f, nil
}
