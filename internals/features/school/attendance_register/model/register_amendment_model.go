// file: internals/features/school/attendance_register/model/register_amendment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RegisterAmendmentModel: audit trail append-only per register entry.
// Baris tidak pernah di-update atau dihapus. Kolom evidence hanya terisi
// untuk amendment bersumber rekonsiliasi dan dipakai guard idempotensi.
type RegisterAmendmentModel struct {
	RegisterAmendmentID        int64          `gorm:"primaryKey;autoIncrement;column:register_amendment_id" json:"register_amendment_id"`
	RegisterAmendmentStudentID uuid.UUID      `gorm:"type:uuid;not null;column:register_amendment_student_id;index:idx_register_amendments_key" json:"register_amendment_student_id"`
	RegisterAmendmentClassID   uuid.UUID      `gorm:"type:uuid;not null;column:register_amendment_class_id;index:idx_register_amendments_key"   json:"register_amendment_class_id"`
	RegisterAmendmentDate      datatypes.Date `gorm:"type:date;not null;column:register_amendment_date;index:idx_register_amendments_key"       json:"register_amendment_date"`

	RegisterAmendmentOriginalStatus string    `gorm:"type:varchar(24);not null;column:register_amendment_original_status" json:"register_amendment_original_status"`
	RegisterAmendmentNewStatus      string    `gorm:"type:varchar(24);not null;column:register_amendment_new_status"      json:"register_amendment_new_status"`
	RegisterAmendmentAmendedAt      time.Time `gorm:"type:timestamptz;not null;column:register_amendment_amended_at"      json:"register_amendment_amended_at"`
	RegisterAmendmentSource         string    `gorm:"type:varchar(16);not null;column:register_amendment_source"          json:"register_amendment_source"`
	RegisterAmendmentAmendedBy      string    `gorm:"type:varchar(64);not null;column:register_amendment_amended_by"      json:"register_amendment_amended_by"`
	RegisterAmendmentReason         string    `gorm:"type:text;not null;column:register_amendment_reason"                 json:"register_amendment_reason"`

	RegisterAmendmentEvidenceSubjectID *uuid.UUID `gorm:"type:uuid;column:register_amendment_evidence_subject_id" json:"register_amendment_evidence_subject_id,omitempty"`
	RegisterAmendmentEvidencePeriod    *int       `gorm:"column:register_amendment_evidence_period"               json:"register_amendment_evidence_period,omitempty"`

	RegisterAmendmentCreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();column:register_amendment_created_at" json:"register_amendment_created_at"`
}

func (RegisterAmendmentModel) TableName() string {
	return "register_amendments"
}
