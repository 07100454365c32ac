// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	authModel "sekolahku_backend/internals/features/users/auth/model"
)

const accessTTLDefault = 24 * time.Hour

// Login verifikasi email+password lalu terbitkan access token HS256.
func Login(ctx context.Context, db *gorm.DB, email, password string) (string, *authModel.StaffModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var staff authModel.StaffModel
	err := db.WithContext(ctx).
		Where("staff_email = ?", email).
		First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.StaffPasswordHash), []byte(password)) != nil {
		return "", nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	token, err := issueAccessToken(&staff)
	if err != nil {
		return "", nil, err
	}
	return token, &staff, nil
}

func issueAccessToken(staff *authModel.StaffModel) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      staff.StaffID.String(),
		"staff_id": staff.StaffID.String(),
		"name":     staff.StaffName,
		"role":     staff.StaffRole,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTTLDefault).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(configs.JWTSecret))
}

// HashPassword dipakai seeder (dan nanti endpoint manajemen staff).
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
