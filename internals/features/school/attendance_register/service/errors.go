// file: internals/features/school/attendance_register/service/errors.go
package service

import (
	"errors"
	"fmt"
)

// InvalidTransitionError: marking manual dengan status di luar domain manual
// (mis. mencoba menulis "late_after_register" atau "unmarked" lewat tangan).
type InvalidTransitionError struct {
	Status Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("status %q tidak boleh ditulis lewat marking manual (present/late/absent/excused)", e.Status)
}

// ConflictError: status entry berubah di antara baca dan tulis; rantai
// amendment akan putus kalau tetap ditulis, jadi tulisan ditolak dan caller
// harus re-read lalu resubmit.
type ConflictError struct {
	Key      EntryKey
	Expected Status
	Actual   Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("register entry %s berubah: diharapkan %q, sekarang %q", e.Key, e.Expected, e.Actual)
}

// UnknownEntityError: referensi class/student yang tidak dikenal roster.
// Completeness validator menampilkannya sebagai zero-count informasional,
// bukan kegagalan keras.
type UnknownEntityError struct {
	Entity string
	ID     string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("%s %s tidak dikenal", e.Entity, e.ID)
}

func IsInvalidTransition(err error) bool {
	var t *InvalidTransitionError
	return errors.As(err, &t)
}

func IsConflict(err error) bool {
	var t *ConflictError
	return errors.As(err, &t)
}

func IsUnknownEntity(err error) bool {
	var t *UnknownEntityError
	return errors.As(err, &t)
}
