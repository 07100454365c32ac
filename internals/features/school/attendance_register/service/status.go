// file: internals/features/school/attendance_register/service/status.go
package service

import (
	"fmt"
	"strings"
)

// Status register harian. "unmarked" adalah status implisit awal (belum ada
// baris); "late_after_register" hanya bisa ditulis oleh rekonsiliasi.
type Status string

const (
	StatusUnmarked          Status = "unmarked"
	StatusPresent           Status = "present"
	StatusLate              Status = "late"
	StatusAbsent            Status = "absent"
	StatusExcused           Status = "excused"
	StatusLateAfterRegister Status = "late_after_register"
)

// Presence pada lesson attendance (lebih sempit dari Status register).
type Presence string

const (
	PresencePresent Presence = "present"
	PresenceAbsent  Presence = "absent"
)

// Source amendment.
type Source string

const (
	SourceManual         Source = "manual"
	SourceReconciliation Source = "reconciliation"
)

// Identitas amender untuk amendment bersumber sistem.
const SystemAmenderID = "system:reconciliation"

// IsManual: status yang boleh ditulis lewat marking manual. Transisi manual
// dari status apa pun ke salah satu dari empat ini selalu diizinkan;
// late_after_register dan unmarked tidak pernah ditulis tangan.
func (s Status) IsManual() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

// IsConcrete: status selain unmarked (dihitung "sudah ditandai" oleh
// completeness validator).
func (s Status) IsConcrete() bool {
	return s != StatusUnmarked && s.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case StatusUnmarked, StatusPresent, StatusLate, StatusAbsent, StatusExcused, StatusLateAfterRegister:
		return true
	}
	return false
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("status tidak dikenal: %q", raw)
	}
	return s, nil
}

func ParsePresence(raw string) (Presence, error) {
	p := Presence(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PresencePresent, PresenceAbsent:
		return p, nil
	}
	return "", fmt.Errorf("presence tidak dikenal: %q (present/absent)", raw)
}

// CanPromote: satu-satunya transisi sistem, absent → late_after_register,
// satu arah. Sistem tidak pernah menurunkan kembali atau mempromosikan
// status lain (termasuk unmarked).
func CanPromote(from Status) bool {
	return from == StatusAbsent
}
