// file: internals/seeds/runner.go
package seeds

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	attModel "sekolahku_backend/internals/features/school/attendance_register/model"
	authModel "sekolahku_backend/internals/features/users/auth/model"
	authService "sekolahku_backend/internals/features/users/auth/service"
)

// Run migrasi + isi data contoh (dipanggil lewat `go run . seed`).
func Run() {
	db := configs.InitSeederDB()
	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}
	SeedSampleData(db)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&authModel.StaffModel{},
		&attModel.ClassStudentModel{},
		&attModel.RegisterEntryModel{},
		&attModel.LessonAttendanceModel{},
		&attModel.RegisterAmendmentModel{},
	)
}

// SeedSampleData isi satu kelas contoh + staff untuk coba-coba lokal.
func SeedSampleData(db *gorm.DB) {
	hash, err := authService.HashPassword("rahasia-sekali")
	if err != nil {
		log.Fatalf("❌ Hash password gagal: %v", err)
	}

	staffs := []authModel.StaffModel{
		{StaffName: "Bu Ratna", StaffEmail: "ratna@sekolahku.id", StaffPasswordHash: hash, StaffRole: "admin"},
		{StaffName: "Pak Budi", StaffEmail: "budi@sekolahku.id", StaffPasswordHash: hash, StaffRole: "teacher"},
	}
	for i := range staffs {
		if err := db.Where("staff_email = ?", staffs[i].StaffEmail).
			FirstOrCreate(&staffs[i]).Error; err != nil {
			log.Printf("⚠️ Seed staff %s gagal: %v", staffs[i].StaffEmail, err)
		}
	}

	classID := uuid.MustParse("5d2f0a6e-0c6b-4a4f-9a8e-111111111111")
	students := []attModel.ClassStudentModel{
		{ClassStudentClassID: classID, ClassStudentStudentID: uuid.MustParse("2a40f06a-27fb-4f3a-8a01-222222222201"), ClassStudentName: "Aisyah Putri", ClassStudentGender: "F", ClassStudentIsActive: true},
		{ClassStudentClassID: classID, ClassStudentStudentID: uuid.MustParse("2a40f06a-27fb-4f3a-8a01-222222222202"), ClassStudentName: "Bima Pratama", ClassStudentGender: "M", ClassStudentIsActive: true},
		{ClassStudentClassID: classID, ClassStudentStudentID: uuid.MustParse("2a40f06a-27fb-4f3a-8a01-222222222203"), ClassStudentName: "Citra Lestari", ClassStudentGender: "F", ClassStudentIsActive: true},
	}
	for i := range students {
		if err := db.Where("class_student_class_id = ? AND class_student_student_id = ?",
			students[i].ClassStudentClassID, students[i].ClassStudentStudentID).
			FirstOrCreate(&students[i]).Error; err != nil {
			log.Printf("⚠️ Seed student %s gagal: %v", students[i].ClassStudentName, err)
		}
	}

	log.Println("✅ Seed selesai.")
}
