// file: internals/features/school/attendance_register/controller/register_attendance_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	attDTO "sekolahku_backend/internals/features/school/attendance_register/dto"
	attService "sekolahku_backend/internals/features/school/attendance_register/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type RegisterAttendanceController struct {
	Service   *attService.AttendanceService
	Validator *validator.Validate
}

func NewRegisterAttendanceController(svc *attService.AttendanceService) *RegisterAttendanceController {
	return &RegisterAttendanceController{
		Service:   svc,
		Validator: validator.New(),
	}
}

// jsonFromServiceError petakan error kind service → status HTTP.
func jsonFromServiceError(c *fiber.Ctx, err error) error {
	switch {
	case attService.IsInvalidTransition(err):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case attService.IsConflict(err):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case attService.IsUnknownEntity(err):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" harus UUID valid")
	}
	return id, nil
}

func parseDateParam(c *fiber.Ctx) (string, error) {
	date, err := attService.NormalizeDate(strings.TrimSpace(c.Params("date")))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return date, nil
}

/*
=========================================================
POST /api/u/register
Marking manual register harian oleh staff (dari token).
=========================================================
*/
func (ctl *RegisterAttendanceController) MarkRegister(c *fiber.Ctx) error {
	staffID, err := helperAuth.GetStaffID(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var req attDTO.MarkRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	status, err := attService.ParseStatus(req.Status)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	date, err := attService.NormalizeDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	key := attService.EntryKey{
		StudentID: uuid.MustParse(req.StudentID),
		ClassID:   uuid.MustParse(req.ClassID),
		Date:      date,
	}

	entry, err := ctl.Service.MarkRegister(c.UserContext(), key, status, staffID, strings.TrimSpace(req.Reason))
	if err != nil {
		return jsonFromServiceError(c, err)
	}
	return helper.JsonUpdated(c, "register berhasil ditandai", attDTO.NewRegisterEntryResponse(entry))
}

/*
=========================================================
GET /api/u/register/:class_id/:date
Daftar register satu kelas per hari (anggota roster tanpa
baris muncul sebagai unmarked).
=========================================================
*/
func (ctl *RegisterAttendanceController) ClassRegister(c *fiber.Ctx) error {
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	date, err := parseDateParam(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	entries, err := ctl.Service.ClassRegister(c.UserContext(), classID, date)
	if err != nil {
		return jsonFromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", attDTO.NewRegisterEntryResponses(entries))
}

/*
=========================================================
GET /api/u/register/:class_id/:date/summary
Statistik kelengkapan register (gate penutupan harian).
=========================================================
*/
func (ctl *RegisterAttendanceController) Summary(c *fiber.Ctx) error {
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	date, err := parseDateParam(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	sum, err := ctl.Service.Summary(c.UserContext(), classID, date)
	if err != nil {
		return jsonFromServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", attDTO.NewRegisterSummaryResponse(sum))
}

/*
=========================================================
GET /api/u/register/:student_id/:class_id/:date/amendments
Riwayat amendment (audit display), dengan pagination.
=========================================================
*/
func (ctl *RegisterAttendanceController) AmendmentHistory(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}
	date, err := parseDateParam(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	key := attService.EntryKey{StudentID: studentID, ClassID: classID, Date: date}
	ams, err := ctl.Service.History(c.UserContext(), key)
	if err != nil {
		return jsonFromServiceError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)
	total := int64(len(ams))
	start := paging.Offset
	if start > len(ams) {
		start = len(ams)
	}
	end := start + paging.Limit
	if end > len(ams) {
		end = len(ams)
	}
	page := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", attDTO.NewAmendmentResponses(ams[start:end]), &page)
}
