// file: internals/features/school/attendance_register/model/register_entry_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RegisterEntryModel: satu baris per (student, class, date). Status "unmarked"
// direpresentasikan dengan tidak adanya baris; baris pertama ditulis saat
// marking manual pertama atau promosi rekonsiliasi.
type RegisterEntryModel struct {
	RegisterEntryID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:register_entry_id" json:"register_entry_id"`
	RegisterEntryStudentID uuid.UUID      `gorm:"type:uuid;not null;column:register_entry_student_id;uniqueIndex:uq_register_entries_key" json:"register_entry_student_id"`
	RegisterEntryClassID   uuid.UUID      `gorm:"type:uuid;not null;column:register_entry_class_id;uniqueIndex:uq_register_entries_key"   json:"register_entry_class_id"`
	RegisterEntryDate      datatypes.Date `gorm:"type:date;not null;column:register_entry_date;uniqueIndex:uq_register_entries_key"       json:"register_entry_date"`

	RegisterEntryStatus string `gorm:"type:varchar(24);not null;column:register_entry_status" json:"register_entry_status"`

	// Baseline marking manual terakhir; tidak disentuh oleh promosi sistem.
	RegisterEntryMarkedAt *time.Time `gorm:"type:timestamptz;column:register_entry_marked_at" json:"register_entry_marked_at,omitempty"`
	RegisterEntryMarkedBy *uuid.UUID `gorm:"type:uuid;column:register_entry_marked_by"        json:"register_entry_marked_by,omitempty"`

	RegisterEntryCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:register_entry_created_at" json:"register_entry_created_at"`
	RegisterEntryUpdatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:register_entry_updated_at" json:"register_entry_updated_at"`
}

func (RegisterEntryModel) TableName() string {
	return "register_entries"
}
