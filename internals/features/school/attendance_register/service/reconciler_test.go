package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testStudentID = uuid.MustParse("2a40f06a-27fb-4f3a-8a01-000000000001")
	testClassID   = uuid.MustParse("5d2f0a6e-0c6b-4a4f-9a8e-000000000001")
	testStaffID   = uuid.MustParse("9b1de1a2-4c21-4f0f-9a51-000000000001")
	testTeacherID = uuid.MustParse("9b1de1a2-4c21-4f0f-9a51-000000000002")

	mathSubjectID    = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	englishSubjectID = uuid.MustParse("00000000-0000-0000-0000-0000000000bb")
	scienceSubjectID = uuid.MustParse("00000000-0000-0000-0000-0000000000cc")
)

const testDate = "2026-03-02"

func testKey() EntryKey {
	return EntryKey{StudentID: testStudentID, ClassID: testClassID, Date: testDate}
}

func lessonKey(subjectID uuid.UUID, period int) LessonKey {
	return LessonKey{EntryKey: testKey(), SubjectID: subjectID, Period: period}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

// newTestService: service di atas MemoryStore dengan jam yang bisa dikontrol.
func newTestService(t *testing.T) (*AttendanceService, *MemoryStore, *time.Time) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewAttendanceService(store, store)

	clock := at(8, 0)
	svc.now = func() time.Time { return clock }
	svc.reconciler.now = func() time.Time { return clock }
	return svc, store, &clock
}

func markAbsentAt0800(t *testing.T, svc *AttendanceService, clock *time.Time) {
	t.Helper()
	*clock = at(8, 0)
	_, err := svc.MarkRegister(context.Background(), testKey(), StatusAbsent, testStaffID, "")
	require.NoError(t, err)
}

func submitPresent(t *testing.T, svc *AttendanceService, lk LessonKey, recordedAt time.Time) {
	t.Helper()
	_, err := svc.SubmitLessonAttendance(context.Background(), lk, PresencePresent, testTeacherID, recordedAt)
	require.NoError(t, err)
}

func reconciliationAmendments(t *testing.T, svc *AttendanceService) []Amendment {
	t.Helper()
	all, err := svc.History(context.Background(), testKey())
	require.NoError(t, err)
	var out []Amendment
	for _, a := range all {
		if a.Source == SourceReconciliation {
			out = append(out, a)
		}
	}
	return out
}

/*
=========================================================
Scenario A: absent 08:00, hadir Matematika period 3 10:15
→ late_after_register dengan satu amendment mengutip bukti.
=========================================================
*/
func TestReconcilePromotesAbsentWithLessonEvidence(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	*clock = at(10, 15)
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	entry, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusLateAfterRegister, entry.Status)

	// Baseline marking manual tidak disentuh promosi.
	require.NotNil(t, entry.MarkedAt)
	assert.True(t, entry.MarkedAt.Equal(at(8, 0)))
	require.NotNil(t, entry.MarkedBy)
	assert.Equal(t, testStaffID, *entry.MarkedBy)

	recs := reconciliationAmendments(t, svc)
	require.Len(t, recs, 1)
	am := recs[0]
	assert.Equal(t, StatusAbsent, am.OriginalStatus)
	assert.Equal(t, StatusLateAfterRegister, am.NewStatus)
	assert.Equal(t, SystemAmenderID, am.AmendedBy)
	require.NotNil(t, am.EvidenceSubjectID)
	assert.Equal(t, mathSubjectID, *am.EvidenceSubjectID)
	require.NotNil(t, am.EvidencePeriod)
	assert.Equal(t, 3, *am.EvidencePeriod)

	assert.Contains(t, am.Reason, fmt.Sprintf("subject=%s", mathSubjectID))
	assert.Contains(t, am.Reason, "period=3")
	assert.Contains(t, am.Reason, at(10, 15).Format(time.RFC3339))
}

/*
=========================================================
Scenario B: dua bukti hadir (English 09:00, Science 08:30)
→ yang dikutip Science 08:30 (paling awal), urutan submit
tidak berpengaruh.
=========================================================
*/
func TestReconcileCitesEarliestEvidence(t *testing.T) {
	svc, _, clock := newTestService(t)

	markAbsentAt0800(t, svc, clock)

	// English disubmit duluan walau recorded_at-nya lebih belakangan.
	*clock = at(9, 0)
	submitPresent(t, svc, lessonKey(englishSubjectID, 2), at(9, 0))
	*clock = at(9, 5)
	submitPresent(t, svc, lessonKey(scienceSubjectID, 1), at(8, 30))

	recs := reconciliationAmendments(t, svc)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].EvidenceSubjectID)
	assert.Equal(t, englishSubjectID, *recs[0].EvidenceSubjectID,
		"promosi pertama terjadi saat baru ada bukti English")

	// Rekonsiliasi ulang tidak menulis amendment kedua walau sekarang ada
	// bukti lebih awal: status sudah bukan absent.
	require.NoError(t, svc.Reconcile(context.Background(), testKey()))
	assert.Len(t, reconciliationAmendments(t, svc), 1)
}

func TestReconcileEarliestEvidenceWhenBatchArrives(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	// Dua record masuk ke store dulu (mis. bulk import), baru reconcile.
	require.NoError(t, store.InsertLessonRecord(ctx, LessonRecord{
		Key: lessonKey(englishSubjectID, 2), Presence: PresencePresent,
		RecordedAt: at(9, 0), RecordedBy: testTeacherID,
	}))
	require.NoError(t, store.InsertLessonRecord(ctx, LessonRecord{
		Key: lessonKey(scienceSubjectID, 1), Presence: PresencePresent,
		RecordedAt: at(8, 30), RecordedBy: testTeacherID,
	}))

	*clock = at(9, 5)
	require.NoError(t, svc.Reconcile(ctx, testKey()))

	recs := reconciliationAmendments(t, svc)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].EvidenceSubjectID)
	assert.Equal(t, scienceSubjectID, *recs[0].EvidenceSubjectID)
	assert.Contains(t, recs[0].Reason, at(8, 30).Format(time.RFC3339))
}

func TestReconcileEvidenceTieBreakOnEqualTimestamp(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	ts := at(9, 0)
	require.NoError(t, store.InsertLessonRecord(ctx, LessonRecord{
		Key: lessonKey(scienceSubjectID, 4), Presence: PresencePresent,
		RecordedAt: ts, RecordedBy: testTeacherID,
	}))
	require.NoError(t, store.InsertLessonRecord(ctx, LessonRecord{
		Key: lessonKey(englishSubjectID, 2), Presence: PresencePresent,
		RecordedAt: ts, RecordedBy: testTeacherID,
	}))

	*clock = at(9, 1)
	require.NoError(t, svc.Reconcile(ctx, testKey()))

	recs := reconciliationAmendments(t, svc)
	require.Len(t, recs, 1)
	// englishSubjectID (…bb) < scienceSubjectID (…cc) leksikografis.
	assert.Equal(t, englishSubjectID, *recs[0].EvidenceSubjectID)
	assert.Equal(t, 2, *recs[0].EvidencePeriod)
}

/*
=========================================================
Idempotensi: reconcile dua kali (atau submit duplikat karena
retry) tetap satu amendment rekonsiliasi.
=========================================================
*/
func TestReconcileIdempotent(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	*clock = at(10, 15)
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	require.NoError(t, svc.Reconcile(ctx, testKey()))
	require.NoError(t, svc.Reconcile(ctx, testKey()))

	// Submit duplikat identik (retried write) juga tidak menggandakan.
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	assert.Len(t, reconciliationAmendments(t, svc), 1)
}

/*
=========================================================
Guarded promotion: selain absent (termasuk unmarked) tidak
pernah berubah karena bukti hadir pelajaran.
=========================================================
*/
func TestReconcileOnlyPromotesAbsent(t *testing.T) {
	for _, status := range []Status{StatusPresent, StatusLate, StatusExcused} {
		t.Run(string(status), func(t *testing.T) {
			svc, _, clock := newTestService(t)
			ctx := context.Background()

			*clock = at(8, 0)
			_, err := svc.MarkRegister(ctx, testKey(), status, testStaffID, "")
			require.NoError(t, err)

			*clock = at(10, 0)
			submitPresent(t, svc, lessonKey(mathSubjectID, 1), at(10, 0))

			entry, err := svc.store.RegisterEntry(ctx, testKey())
			require.NoError(t, err)
			assert.Equal(t, status, entry.Status)
			assert.Empty(t, reconciliationAmendments(t, svc))
		})
	}

	t.Run("unmarked", func(t *testing.T) {
		svc, _, clock := newTestService(t)
		ctx := context.Background()

		*clock = at(10, 0)
		submitPresent(t, svc, lessonKey(mathSubjectID, 1), at(10, 0))

		entry, err := svc.store.RegisterEntry(ctx, testKey())
		require.NoError(t, err)
		assert.Equal(t, StatusUnmarked, entry.Status)
		assert.Empty(t, reconciliationAmendments(t, svc))
	})
}

func TestReconcileIgnoresEvidenceBeforeMarking(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	// Hadir 07:45 < marked 08:00: bukan bukti (harus strictly after).
	*clock = at(8, 10)
	submitPresent(t, svc, lessonKey(mathSubjectID, 1), at(7, 45))

	entry, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, entry.Status)
	assert.Empty(t, reconciliationAmendments(t, svc))
}

func TestReconcileIgnoresAbsentLessonRecords(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	*clock = at(10, 0)
	_, err := svc.SubmitLessonAttendance(ctx, lessonKey(mathSubjectID, 1), PresenceAbsent, testTeacherID, at(10, 0))
	require.NoError(t, err)

	entry, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, entry.Status)
}

// Koreksi guru (record baru, key sama) menang atas marking lamanya.
func TestReconcileUsesLatestRecordPerLessonKey(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)

	// Guru awalnya salah tandai absent, lalu koreksi jadi present.
	*clock = at(10, 0)
	_, err := svc.SubmitLessonAttendance(ctx, lessonKey(mathSubjectID, 3), PresenceAbsent, testTeacherID, at(10, 0))
	require.NoError(t, err)

	entry, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	require.Equal(t, StatusAbsent, entry.Status)

	*clock = at(10, 5)
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 5))

	entry, err = svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusLateAfterRegister, entry.Status)
}

/*
=========================================================
One-directionality: tidak ada urutan submit pelajaran yang
bisa mengeluarkan entry dari late_after_register; hanya
markRegister yang bisa.
=========================================================
*/
func TestPromotionIsOneDirectional(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	markAbsentAt0800(t, svc, clock)
	*clock = at(10, 15)
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	// Hujani dengan record lain: absent, present, subject/period berbeda.
	*clock = at(11, 0)
	_, err := svc.SubmitLessonAttendance(ctx, lessonKey(englishSubjectID, 4), PresenceAbsent, testTeacherID, at(11, 0))
	require.NoError(t, err)
	submitPresent(t, svc, lessonKey(scienceSubjectID, 5), at(11, 30))
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(12, 0))

	entry, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusLateAfterRegister, entry.Status)
	assert.Len(t, reconciliationAmendments(t, svc), 1)

	// markRegister manual tetap bisa override.
	*clock = at(13, 0)
	_, err = svc.MarkRegister(ctx, testKey(), StatusExcused, testStaffID, "surat izin menyusul")
	require.NoError(t, err)

	entry, err = svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusExcused, entry.Status)

	all, err := svc.History(ctx, testKey())
	require.NoError(t, err)
	lastAm := all[len(all)-1]
	assert.Equal(t, SourceManual, lastAm.Source)
	assert.Equal(t, StatusLateAfterRegister, lastAm.OriginalStatus)
	assert.Equal(t, StatusExcused, lastAm.NewStatus)
}

/*
=========================================================
Race resolution: marking manual excused commit duluan →
promosi kalah CAS, no-op diam, tanpa amendment rekonsiliasi.
=========================================================
*/

// racingStore selipkan marking manual tepat sebelum ApplyAmendment promosi,
// mensimulasikan admin yang menang balapan tulis.
type racingStore struct {
	*MemoryStore
	svc   *AttendanceService
	raced bool
}

func (s *racingStore) ApplyAmendment(ctx context.Context, next RegisterEntry, am Amendment) error {
	if am.Source == SourceReconciliation && !s.raced {
		s.raced = true
		if _, err := s.svc.MarkRegister(ctx, next.Key, StatusExcused, testStaffID, "izin sakit"); err != nil {
			return err
		}
	}
	return s.MemoryStore.ApplyAmendment(ctx, next, am)
}

func TestManualMarkingWinsRaceAgainstPromotion(t *testing.T) {
	mem := NewMemoryStore()
	racing := &racingStore{MemoryStore: mem}

	svc := NewAttendanceService(racing, mem)
	clock := at(8, 0)
	svc.now = func() time.Time { return clock }
	svc.reconciler.now = func() time.Time { return clock }
	racing.svc = svc

	ctx := context.Background()
	_, err := svc.MarkRegister(ctx, testKey(), StatusAbsent, testStaffID, "")
	require.NoError(t, err)

	clock = at(10, 15)
	// Submit men-trigger reconcile; promosi kalah dari marking excused yang
	// diselipkan racingStore, dan submit tetap sukses.
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	entry, err := mem.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusExcused, entry.Status)
	assert.True(t, racing.raced)

	assert.Empty(t, reconciliationAmendments(t, svc))
}

/*
=========================================================
Chain integrity: replay riwayat, newStatus[i] == originalStatus[i+1],
dan originalStatus[0] == unmarked.
=========================================================
*/
func TestAmendmentChainIntegrity(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	*clock = at(7, 55)
	_, err := svc.MarkRegister(ctx, testKey(), StatusPresent, testStaffID, "")
	require.NoError(t, err)

	*clock = at(8, 0)
	_, err = svc.MarkRegister(ctx, testKey(), StatusAbsent, testStaffID, "ternyata tidak di kelas")
	require.NoError(t, err)

	*clock = at(10, 15)
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	*clock = at(13, 0)
	_, err = svc.MarkRegister(ctx, testKey(), StatusLate, testStaffID, "")
	require.NoError(t, err)

	all, err := svc.History(ctx, testKey())
	require.NoError(t, err)
	require.Len(t, all, 4)

	assert.Equal(t, StatusUnmarked, all[0].OriginalStatus)
	for i := 0; i+1 < len(all); i++ {
		assert.Equal(t, all[i].NewStatus, all[i+1].OriginalStatus,
			"rantai putus antara amendment %d dan %d", i, i+1)
	}
	assert.Equal(t, StatusLate, all[len(all)-1].NewStatus)
}
