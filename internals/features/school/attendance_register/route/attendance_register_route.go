// file: internals/features/school/attendance_register/route/attendance_register_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	attController "sekolahku_backend/internals/features/school/attendance_register/controller"
	attService "sekolahku_backend/internals/features/school/attendance_register/service"
	authMw "sekolahku_backend/internals/middlewares/auth"
)

// NewAttendanceService rakit service produksi di atas GormStore.
func NewAttendanceService(db *gorm.DB) *attService.AttendanceService {
	store := attService.NewGormStore(db)
	return attService.NewAttendanceService(store, store)
}

// AttendanceRegisterRoutes pasang endpoint register + lesson attendance di
// group /api/u (sudah di belakang AuthJWT).
func AttendanceRegisterRoutes(r fiber.Router, svc *attService.AttendanceService) {
	registerCtl := attController.NewRegisterAttendanceController(svc)
	lessonCtl := attController.NewLessonAttendanceController(svc)

	teacherOnly := authMw.RequireRoles("absensi", constants.TeacherAndAbove...)

	r.Post("/register", teacherOnly, registerCtl.MarkRegister)
	r.Post("/lesson-attendance", teacherOnly, lessonCtl.Submit)

	r.Get("/register/:class_id/:date", teacherOnly, registerCtl.ClassRegister)
	r.Get("/register/:class_id/:date/summary", teacherOnly, registerCtl.Summary)
	r.Get("/register/:student_id/:class_id/:date/amendments", teacherOnly, registerCtl.AmendmentHistory)
}
