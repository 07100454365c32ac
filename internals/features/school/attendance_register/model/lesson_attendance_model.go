// file: internals/features/school/attendance_register/model/lesson_attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LessonAttendanceModel: marking per pelajaran oleh guru mapel. Append-only:
// koreksi guru menulis baris baru untuk key yang sama, pembacaan selalu ambil
// recorded_at terbaru per (subject, period).
type LessonAttendanceModel struct {
	LessonAttendanceID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:lesson_attendance_id" json:"lesson_attendance_id"`
	LessonAttendanceStudentID uuid.UUID      `gorm:"type:uuid;not null;column:lesson_attendance_student_id;index:idx_lesson_attendances_key" json:"lesson_attendance_student_id"`
	LessonAttendanceClassID   uuid.UUID      `gorm:"type:uuid;not null;column:lesson_attendance_class_id;index:idx_lesson_attendances_key"   json:"lesson_attendance_class_id"`
	LessonAttendanceDate      datatypes.Date `gorm:"type:date;not null;column:lesson_attendance_date;index:idx_lesson_attendances_key"       json:"lesson_attendance_date"`
	LessonAttendanceSubjectID uuid.UUID      `gorm:"type:uuid;not null;column:lesson_attendance_subject_id" json:"lesson_attendance_subject_id"`
	LessonAttendancePeriod    int            `gorm:"not null;column:lesson_attendance_period"                json:"lesson_attendance_period"`

	LessonAttendancePresence   string    `gorm:"type:varchar(8);not null;column:lesson_attendance_presence"              json:"lesson_attendance_presence"`
	LessonAttendanceRecordedAt time.Time `gorm:"type:timestamptz;not null;column:lesson_attendance_recorded_at"          json:"lesson_attendance_recorded_at"`
	LessonAttendanceRecordedBy uuid.UUID `gorm:"type:uuid;not null;column:lesson_attendance_recorded_by"                 json:"lesson_attendance_recorded_by"`

	LessonAttendanceCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:lesson_attendance_created_at" json:"lesson_attendance_created_at"`
}

func (LessonAttendanceModel) TableName() string {
	return "lesson_attendances"
}
