// file: internals/features/school/attendance_register/controller/lesson_attendance_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	attDTO "sekolahku_backend/internals/features/school/attendance_register/dto"
	attService "sekolahku_backend/internals/features/school/attendance_register/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type LessonAttendanceController struct {
	Service   *attService.AttendanceService
	Validator *validator.Validate
}

func NewLessonAttendanceController(svc *attService.AttendanceService) *LessonAttendanceController {
	return &LessonAttendanceController{
		Service:   svc,
		Validator: validator.New(),
	}
}

/*
=========================================================
POST /api/u/lesson-attendance
Submit marking per pelajaran oleh guru mapel. Setiap submit
men-trigger rekonsiliasi untuk (student, class, date) tsb.
Koreksi = submit ulang key yang sama (record baru, bukan edit).
=========================================================
*/
func (ctl *LessonAttendanceController) Submit(c *fiber.Ctx) error {
	teacherID, err := helperAuth.GetStaffID(c)
	if err != nil {
		return helper.JsonFromFiberError(c, err)
	}

	var req attDTO.SubmitLessonAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "payload tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	date, err := attService.NormalizeDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	presence, err := attService.ParsePresence(req.Presence)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil && strings.TrimSpace(*req.RecordedAt) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.RecordedAt))
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "recorded_at invalid, format harus RFC3339")
		}
		recordedAt = t
	}

	key := attService.LessonKey{
		EntryKey: attService.EntryKey{
			StudentID: uuid.MustParse(req.StudentID),
			ClassID:   uuid.MustParse(req.ClassID),
			Date:      date,
		},
		SubjectID: uuid.MustParse(req.SubjectID),
		Period:    req.Period,
	}

	rec, err := ctl.Service.SubmitLessonAttendance(c.UserContext(), key, presence, teacherID, recordedAt)
	if err != nil {
		return jsonFromServiceError(c, err)
	}
	return helper.JsonCreated(c, "lesson attendance tercatat", attDTO.NewLessonRecordResponse(rec))
}
