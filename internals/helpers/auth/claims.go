// file: internals/helpers/auth/claims.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals yang di-set middleware AuthJWT
const (
	LocStaffID   = "staff_id"
	LocStaffRole = "staff_role"
	LocStaffName = "staff_name"
)

// GetStaffID ambil staff id dari locals (diisi AuthJWT).
func GetStaffID(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocStaffID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "staff_id tidak ditemukan di token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "staff_id tidak valid")
	}
	return id, nil
}

// GetStaffRole ambil role dari locals; kosong jika tidak ada.
func GetStaffRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocStaffRole).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
