// file: internals/features/school/attendance_register/model/class_student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassStudentModel: keanggotaan roster kelas. Dikelola layer CRUD di luar
// core absensi; core hanya membaca (Roster Provider).
type ClassStudentModel struct {
	ClassStudentID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_student_id" json:"class_student_id"`
	ClassStudentClassID   uuid.UUID `gorm:"type:uuid;not null;column:class_student_class_id;uniqueIndex:uq_class_students_member" json:"class_student_class_id"`
	ClassStudentStudentID uuid.UUID `gorm:"type:uuid;not null;column:class_student_student_id;uniqueIndex:uq_class_students_member" json:"class_student_student_id"`

	ClassStudentName   string `gorm:"type:varchar(100);not null;column:class_student_name" json:"class_student_name"`
	ClassStudentGender string `gorm:"type:varchar(10);column:class_student_gender"          json:"class_student_gender,omitempty"`

	ClassStudentIsActive bool `gorm:"not null;default:true;column:class_student_is_active" json:"class_student_is_active"`

	ClassStudentCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:class_student_created_at" json:"class_student_created_at"`
	ClassStudentUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:class_student_updated_at" json:"class_student_updated_at"`
	ClassStudentDeletedAt gorm.DeletedAt `gorm:"column:class_student_deleted_at;index"                                    json:"class_student_deleted_at,omitempty"`
}

func (ClassStudentModel) TableName() string {
	return "class_students"
}
