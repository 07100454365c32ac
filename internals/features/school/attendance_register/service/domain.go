// file: internals/features/school/attendance_register/service/domain.go
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// EntryKey: identitas satu register entry harian.
type EntryKey struct {
	StudentID uuid.UUID
	ClassID   uuid.UUID
	Date      string // YYYY-MM-DD, sudah dinormalisasi
}

func (k EntryKey) String() string {
	return fmt.Sprintf("(student=%s class=%s date=%s)", k.StudentID, k.ClassID, k.Date)
}

// LessonKey: identitas satu marking pelajaran (per subject + period).
type LessonKey struct {
	EntryKey
	SubjectID uuid.UUID
	Period    int
}

// NormalizeDate validasi + normalisasi string tanggal ke YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("tanggal invalid %q, format harus YYYY-MM-DD", raw)
	}
	return t.Format(DateLayout), nil
}

// RegisterEntry: nilai entry saat ini. Entry yang belum pernah ditulis
// dikembalikan store sebagai unmarked dengan MarkedAt/MarkedBy nil.
type RegisterEntry struct {
	Key      EntryKey
	Status   Status
	MarkedAt *time.Time
	MarkedBy *uuid.UUID
}

// LessonRecord: satu marking guru mapel. Immutable; koreksi = record baru
// dengan key sama dan RecordedAt lebih baru.
type LessonRecord struct {
	Key        LessonKey
	Presence   Presence
	RecordedAt time.Time
	RecordedBy uuid.UUID
}

// Amendment: satu perubahan status dalam audit trail.
type Amendment struct {
	Seq            int64
	Key            EntryKey
	OriginalStatus Status
	NewStatus      Status
	AmendedAt      time.Time
	Source         Source
	AmendedBy      string
	Reason         string

	// Evidence (hanya amendment rekonsiliasi): key pelajaran yang dikutip.
	EvidenceSubjectID *uuid.UUID
	EvidencePeriod    *int
}

// SameEvidence: dua amendment mengutip lesson key yang sama.
func (a Amendment) SameEvidence(subjectID uuid.UUID, period int) bool {
	return a.EvidenceSubjectID != nil && *a.EvidenceSubjectID == subjectID &&
		a.EvidencePeriod != nil && *a.EvidencePeriod == period
}

// Summary: statistik kelengkapan register satu kelas per hari.
type Summary struct {
	ClassID           uuid.UUID `json:"class_id"`
	Date              string    `json:"date"`
	Total             int       `json:"total"`
	Unmarked          int       `json:"unmarked"`
	Present           int       `json:"present"`
	Late              int       `json:"late"`
	Absent            int       `json:"absent"`
	Excused           int       `json:"excused"`
	LateAfterRegister int       `json:"late_after_register"`
}

// Complete: register boleh ditutup kalau semua anggota roster punya status
// konkret.
func (s Summary) Complete() bool {
	return s.Unmarked == 0
}
