// file: internals/features/users/auth/model/staff_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffModel struct {
	StaffID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:staff_id" json:"staff_id"`
	StaffName         string    `gorm:"type:varchar(100);not null;column:staff_name"                    json:"staff_name"`
	StaffEmail        string    `gorm:"type:varchar(255);not null;uniqueIndex;column:staff_email"       json:"staff_email"`
	StaffPasswordHash string    `gorm:"type:varchar(255);not null;column:staff_password_hash"           json:"-"`
	StaffRole         string    `gorm:"type:varchar(16);not null;default:'teacher';column:staff_role"   json:"staff_role"`

	StaffCreatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:staff_created_at" json:"staff_created_at"`
	StaffUpdatedAt time.Time      `gorm:"type:timestamptz;not null;default:now();column:staff_updated_at" json:"staff_updated_at"`
	StaffDeletedAt gorm.DeletedAt `gorm:"column:staff_deleted_at;index"                                   json:"staff_deleted_at,omitempty"`
}

func (StaffModel) TableName() string {
	return "staffs"
}
