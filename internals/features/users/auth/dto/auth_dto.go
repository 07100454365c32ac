// file: internals/features/users/auth/dto/auth_dto.go
package dto

import "github.com/google/uuid"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	StaffID     uuid.UUID `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	StaffRole   string    `json:"staff_role"`
}
