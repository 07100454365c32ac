// file: internals/route/index.go
package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attRoute "sekolahku_backend/internals/features/school/attendance_register/route"
	attService "sekolahku_backend/internals/features/school/attendance_register/service"
	authRoute "sekolahku_backend/internals/features/users/auth/route"
	authMw "sekolahku_backend/internals/middlewares/auth"
)

// SetupRoutes rakit seluruh routing + service produksi. Mengembalikan
// AttendanceService supaya main bisa menyerahkannya ke scheduler sweep.
func SetupRoutes(app *fiber.App, db *gorm.DB) *attService.AttendanceService {
	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== PRIVATE (STAFF) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		authMw.AuthJWT(authMw.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)

	svc := attRoute.NewAttendanceService(db)

	log.Println("[INFO] Setting up AttendanceRegisterRoutes...")
	attRoute.AttendanceRegisterRoutes(private, svc)

	return svc
}
