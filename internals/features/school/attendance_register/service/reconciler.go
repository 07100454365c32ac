// file: internals/features/school/attendance_register/service/reconciler.go
package service

import (
	"context"
	"fmt"
	"time"
)

// Reconciler: mesin rekonsiliasi register harian vs lesson attendance.
//
// Satu-satunya transisi yang dimiliki sistem: absent → late_after_register,
// dipicu bukti hadir di pelajaran yang direkam setelah register ditandai.
// Reconcile aman dipanggil berulang, duplikat, atau out-of-order; balapan
// dengan marking manual selalu dimenangkan marking manual (prasyarat CAS
// di-recheck saat tulis, kalah → no-op diam).
type Reconciler struct {
	store Store
	now   func() time.Time
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store, now: time.Now}
}

// Reconcile jalankan rekonsiliasi untuk satu entry key. Error yang keluar
// hanya kegagalan storage; keputusan "tidak ada yang perlu dipromosikan"
// dan konflik balapan sama-sama no-op bernilai nil.
func (r *Reconciler) Reconcile(ctx context.Context, key EntryKey) error {
	// 1) Guard: hanya entry yang persis absent yang bisa dipromosikan.
	entry, err := r.store.RegisterEntry(ctx, key)
	if err != nil {
		return err
	}
	if !CanPromote(entry.Status) {
		return nil
	}
	if entry.MarkedAt == nil {
		// Absent tanpa baseline marking tidak punya pembanding waktu.
		return nil
	}

	// 2) Bukti: record terbaru per lesson key, hadir, dan direkam strictly
	//    setelah register ditandai.
	records, err := r.store.LatestLessonRecords(ctx, key)
	if err != nil {
		return err
	}
	evidence, ok := pickEvidence(records, *entry.MarkedAt)
	if !ok {
		return nil
	}

	// 3) Guard idempotensi: promosi dengan bukti yang sama sudah tercatat
	//    (trigger duplikat dari write yang di-retry).
	last, err := r.store.LastAmendment(ctx, key)
	if err != nil {
		return err
	}
	if last != nil && last.Source == SourceReconciliation &&
		last.NewStatus == StatusLateAfterRegister &&
		last.SameEvidence(evidence.Key.SubjectID, evidence.Key.Period) {
		return nil
	}

	// 4) Promosi + amendment, atomik dengan prasyarat CAS "masih absent".
	subjectID := evidence.Key.SubjectID
	period := evidence.Key.Period
	next := entry
	next.Status = StatusLateAfterRegister

	am := Amendment{
		Key:               key,
		OriginalStatus:    StatusAbsent,
		NewStatus:         StatusLateAfterRegister,
		AmendedAt:         r.now(),
		Source:            SourceReconciliation,
		AmendedBy:         SystemAmenderID,
		Reason:            reconcileReason(evidence),
		EvidenceSubjectID: &subjectID,
		EvidencePeriod:    &period,
	}

	if err := r.store.ApplyAmendment(ctx, next, am); err != nil {
		if IsConflict(err) {
			// Kalah balapan dari marking manual (atau promosi paralel):
			// keputusan manusia menang, promosi dibatalkan diam-diam.
			return nil
		}
		return err
	}
	return nil
}

// pickEvidence pilih bukti yang dikutip: record hadir paling awal di antara
// yang qualifying. Tie-break deterministik di recorded_at sama: lesson key
// (subject, period) terkecil, supaya reason stabil berapapun urutan trigger.
func pickEvidence(records []LessonRecord, markedAt time.Time) (LessonRecord, bool) {
	var best LessonRecord
	found := false
	for _, r := range records {
		if r.Presence != PresencePresent || !r.RecordedAt.After(markedAt) {
			continue
		}
		if !found || earlierEvidence(r, best) {
			best = r
			found = true
		}
	}
	return best, found
}

func earlierEvidence(a, b LessonRecord) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.Before(b.RecordedAt)
	}
	if a.Key.SubjectID != b.Key.SubjectID {
		return a.Key.SubjectID.String() < b.Key.SubjectID.String()
	}
	return a.Key.Period < b.Key.Period
}

func reconcileReason(ev LessonRecord) string {
	return fmt.Sprintf(
		"hadir pada pelajaran subject=%s period=%d recorded_at=%s setelah register ditandai absent",
		ev.Key.SubjectID, ev.Key.Period, ev.RecordedAt.Format(time.RFC3339),
	)
}
