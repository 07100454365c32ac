// file: internals/features/school/attendance_register/service/attendance_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// AttendanceService: facade yang diekspos ke layer UI/CRUD. Semua operasi
// publik lewat sini: marking register, submit lesson attendance,
// summary kelengkapan, dan riwayat amendment.
type AttendanceService struct {
	store      Store
	roster     RosterProvider
	reconciler *Reconciler
	now        func() time.Time
}

func NewAttendanceService(store Store, roster RosterProvider) *AttendanceService {
	return &AttendanceService{
		store:      store,
		roster:     roster,
		reconciler: NewReconciler(store),
		now:        time.Now,
	}
}

// MarkRegister: marking manual oleh staff. Selalu diizinkan dari status apa
// pun ke empat status manual; selalu meng-update baseline markedAt/markedBy.
// ConflictError diteruskan ke caller (re-read lalu resubmit), tidak di-retry.
func (s *AttendanceService) MarkRegister(ctx context.Context, key EntryKey, status Status, staffID uuid.UUID, reason string) (RegisterEntry, error) {
	if !status.IsManual() {
		return RegisterEntry{}, &InvalidTransitionError{Status: status}
	}

	current, err := s.store.RegisterEntry(ctx, key)
	if err != nil {
		return RegisterEntry{}, err
	}

	now := s.now()
	next := RegisterEntry{
		Key:      key,
		Status:   status,
		MarkedAt: &now,
		MarkedBy: &staffID,
	}
	if reason == "" {
		reason = fmt.Sprintf("marking manual %s → %s", current.Status, status)
	}
	am := Amendment{
		Key:            key,
		OriginalStatus: current.Status,
		NewStatus:      status,
		AmendedAt:      now,
		Source:         SourceManual,
		AmendedBy:      staffID.String(),
		Reason:         reason,
	}

	if err := s.store.ApplyAmendment(ctx, next, am); err != nil {
		return RegisterEntry{}, err
	}
	return next, nil
}

// SubmitLessonAttendance: tulis satu marking guru mapel lalu trigger
// rekonsiliasi untuk entry key tsb. Kegagalan rekonsiliasi tidak pernah
// menggagalkan submit: record sudah tertulis, sweep harian akan menyusul.
func (s *AttendanceService) SubmitLessonAttendance(ctx context.Context, key LessonKey, presence Presence, teacherID uuid.UUID, recordedAt time.Time) (LessonRecord, error) {
	if _, err := ParsePresence(string(presence)); err != nil {
		return LessonRecord{}, err
	}
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	rec := LessonRecord{
		Key:        key,
		Presence:   presence,
		RecordedAt: recordedAt,
		RecordedBy: teacherID,
	}
	if err := s.store.InsertLessonRecord(ctx, rec); err != nil {
		return LessonRecord{}, err
	}

	if err := s.reconciler.Reconcile(ctx, key.EntryKey); err != nil {
		log.Printf("[RECONCILE] gagal untuk %s: %v", key.EntryKey, err)
	}
	return rec, nil
}

// Summary: completeness validator. Class yang tidak dikenal roster dibaca
// sebagai roster kosong (unmarked=0), informasional dan bukan error keras.
// Entry milik student di luar roster tidak dihitung.
func (s *AttendanceService) Summary(ctx context.Context, classID uuid.UUID, date string) (Summary, error) {
	sum := Summary{ClassID: classID, Date: date}

	roster, err := s.roster.Roster(ctx, classID, date)
	if err != nil {
		if IsUnknownEntity(err) {
			return sum, nil
		}
		return Summary{}, err
	}
	sum.Total = len(roster)

	entries, err := s.store.EntriesForClass(ctx, classID, date)
	if err != nil {
		return Summary{}, err
	}

	member := make(map[uuid.UUID]bool, len(roster))
	for _, id := range roster {
		member[id] = true
	}

	marked := 0
	for _, e := range entries {
		if !member[e.Key.StudentID] || !e.Status.IsConcrete() {
			continue
		}
		marked++
		switch e.Status {
		case StatusPresent:
			sum.Present++
		case StatusLate:
			sum.Late++
		case StatusAbsent:
			sum.Absent++
		case StatusExcused:
			sum.Excused++
		case StatusLateAfterRegister:
			sum.LateAfterRegister++
		}
	}
	sum.Unmarked = len(roster) - marked
	return sum, nil
}

// History: audit query read-only, urut amended_at.
func (s *AttendanceService) History(ctx context.Context, key EntryKey) ([]Amendment, error) {
	return s.store.Amendments(ctx, key)
}

// ClassRegister: daftar entry untuk layar register satu kelas per hari;
// anggota roster yang belum punya baris muncul sebagai unmarked.
func (s *AttendanceService) ClassRegister(ctx context.Context, classID uuid.UUID, date string) ([]RegisterEntry, error) {
	roster, err := s.roster.Roster(ctx, classID, date)
	if err != nil {
		if IsUnknownEntity(err) {
			return nil, nil
		}
		return nil, err
	}

	entries, err := s.store.EntriesForClass(ctx, classID, date)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]RegisterEntry, len(entries))
	for _, e := range entries {
		byStudent[e.Key.StudentID] = e
	}

	out := make([]RegisterEntry, 0, len(roster))
	for _, studentID := range roster {
		key := EntryKey{StudentID: studentID, ClassID: classID, Date: date}
		if e, ok := byStudent[studentID]; ok {
			out = append(out, e)
		} else {
			out = append(out, RegisterEntry{Key: key, Status: StatusUnmarked})
		}
	}
	return out, nil
}

// SweepDate: jalankan ulang rekonsiliasi untuk semua entry yang masih absent
// pada tanggal tsb. Idempoten, dipakai scheduler harian sebagai jaring
// pengaman kalau trigger per-submit sempat gagal.
func (s *AttendanceService) SweepDate(ctx context.Context, date string) (promoted int, err error) {
	keys, err := s.store.AbsentEntryKeys(ctx, date)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		before, err := s.store.RegisterEntry(ctx, key)
		if err != nil {
			return promoted, err
		}
		if err := s.reconciler.Reconcile(ctx, key); err != nil {
			log.Printf("[SWEEP] reconcile gagal untuk %s: %v", key, err)
			continue
		}
		after, err := s.store.RegisterEntry(ctx, key)
		if err != nil {
			return promoted, err
		}
		if before.Status == StatusAbsent && after.Status == StatusLateAfterRegister {
			promoted++
		}
	}
	return promoted, nil
}

// Reconcile diekspos untuk trigger eksternal (mis. retry manual dari admin).
func (s *AttendanceService) Reconcile(ctx context.Context, key EntryKey) error {
	return s.reconciler.Reconcile(ctx, key)
}
