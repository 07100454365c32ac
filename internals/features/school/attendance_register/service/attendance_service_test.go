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

func studentN(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("2a40f06a-27fb-4f3a-8a01-%012d", n))
}

func TestMarkRegisterRejectsNonManualStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, status := range []Status{StatusUnmarked, StatusLateAfterRegister, Status("bogus")} {
		_, err := svc.MarkRegister(ctx, testKey(), status, testStaffID, "")
		require.Error(t, err, "status %s", status)
		assert.True(t, IsInvalidTransition(err))
	}

	// Tidak ada jejak apa pun yang tertulis.
	entry, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusUnmarked, entry.Status)
	hist, err := svc.History(ctx, testKey())
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestMarkRegisterUpdatesBaseline(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	*clock = at(8, 0)
	entry, err := svc.MarkRegister(ctx, testKey(), StatusAbsent, testStaffID, "")
	require.NoError(t, err)
	require.NotNil(t, entry.MarkedAt)
	assert.True(t, entry.MarkedAt.Equal(at(8, 0)))

	// Re-mark menggeser baseline: bukti lama jadi tidak qualifying.
	*clock = at(11, 0)
	_, err = svc.MarkRegister(ctx, testKey(), StatusAbsent, testStaffID, "masih tidak ada")
	require.NoError(t, err)

	*clock = at(11, 5)
	submitPresent(t, svc, lessonKey(mathSubjectID, 3), at(10, 15))

	got, err := svc.store.RegisterEntry(ctx, testKey())
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, got.Status, "bukti 10:15 < baseline 11:00 tidak mempromosikan")
}

/*
=========================================================
Scenario C: kelas 30, 25 ditandai, 5 belum → unmarked=5 dan
pecahan status benar (termasuk hasil promosi).
=========================================================
*/
func TestSummaryCounts(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	roster := make([]uuid.UUID, 0, 30)
	for i := 1; i <= 30; i++ {
		roster = append(roster, studentN(i))
	}
	store.SetRoster(testClassID, roster)

	mark := func(n int, status Status) {
		key := EntryKey{StudentID: studentN(n), ClassID: testClassID, Date: testDate}
		_, err := svc.MarkRegister(ctx, key, status, testStaffID, "")
		require.NoError(t, err)
	}

	*clock = at(8, 0)
	for n := 1; n <= 10; n++ {
		mark(n, StatusPresent)
	}
	for n := 11; n <= 15; n++ {
		mark(n, StatusLate)
	}
	for n := 16; n <= 21; n++ {
		mark(n, StatusAbsent)
	}
	for n := 22; n <= 25; n++ {
		mark(n, StatusExcused)
	}
	// Student 16 ternyata hadir di pelajaran jam 10 → dipromosikan.
	*clock = at(10, 0)
	lk := LessonKey{
		EntryKey:  EntryKey{StudentID: studentN(16), ClassID: testClassID, Date: testDate},
		SubjectID: mathSubjectID,
		Period:    3,
	}
	_, err := svc.SubmitLessonAttendance(ctx, lk, PresencePresent, testTeacherID, at(10, 0))
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, testClassID, testDate)
	require.NoError(t, err)

	assert.Equal(t, 30, sum.Total)
	assert.Equal(t, 5, sum.Unmarked)
	assert.Equal(t, 10, sum.Present)
	assert.Equal(t, 5, sum.Late)
	assert.Equal(t, 5, sum.Absent)
	assert.Equal(t, 4, sum.Excused)
	assert.Equal(t, 1, sum.LateAfterRegister)
	assert.False(t, sum.Complete())
}

func TestSummaryUnknownClassIsInformationalNoop(t *testing.T) {
	svc, _, _ := newTestService(t)

	sum, err := svc.Summary(context.Background(), testClassID, testDate)
	require.NoError(t, err, "class tanpa roster bukan error keras")
	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, 0, sum.Unmarked)
	assert.True(t, sum.Complete())
}

func TestSummaryIgnoresEntriesOutsideRoster(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	store.SetRoster(testClassID, []uuid.UUID{studentN(1), studentN(2)})

	*clock = at(8, 0)
	_, err := svc.MarkRegister(ctx,
		EntryKey{StudentID: studentN(1), ClassID: testClassID, Date: testDate},
		StatusPresent, testStaffID, "")
	require.NoError(t, err)

	// Entry untuk student yang sudah pindah kelas: tidak ikut dihitung.
	_, err = svc.MarkRegister(ctx,
		EntryKey{StudentID: studentN(99), ClassID: testClassID, Date: testDate},
		StatusPresent, testStaffID, "")
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, testClassID, testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Present)
	assert.Equal(t, 1, sum.Unmarked)
}

func TestClassRegisterFillsUnmarkedFromRoster(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	store.SetRoster(testClassID, []uuid.UUID{studentN(1), studentN(2), studentN(3)})

	*clock = at(8, 0)
	_, err := svc.MarkRegister(ctx,
		EntryKey{StudentID: studentN(2), ClassID: testClassID, Date: testDate},
		StatusLate, testStaffID, "")
	require.NoError(t, err)

	entries, err := svc.ClassRegister(ctx, testClassID, testDate)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byStudent := map[uuid.UUID]Status{}
	for _, e := range entries {
		byStudent[e.Key.StudentID] = e.Status
	}
	assert.Equal(t, StatusUnmarked, byStudent[studentN(1)])
	assert.Equal(t, StatusLate, byStudent[studentN(2)])
	assert.Equal(t, StatusUnmarked, byStudent[studentN(3)])
}

func TestSweepDatePromotesLeftoverAbsents(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	store.SetRoster(testClassID, []uuid.UUID{studentN(1), studentN(2)})

	*clock = at(8, 0)
	for _, n := range []int{1, 2} {
		_, err := svc.MarkRegister(ctx,
			EntryKey{StudentID: studentN(n), ClassID: testClassID, Date: testDate},
			StatusAbsent, testStaffID, "")
		require.NoError(t, err)
	}

	// Bukti masuk ke store tanpa trigger (mis. trigger per-submit gagal).
	require.NoError(t, store.InsertLessonRecord(ctx, LessonRecord{
		Key: LessonKey{
			EntryKey:  EntryKey{StudentID: studentN(1), ClassID: testClassID, Date: testDate},
			SubjectID: mathSubjectID,
			Period:    3,
		},
		Presence:   PresencePresent,
		RecordedAt: at(10, 0),
		RecordedBy: testTeacherID,
	}))

	*clock = at(21, 0)
	promoted, err := svc.SweepDate(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	e1, _ := store.RegisterEntry(ctx, EntryKey{StudentID: studentN(1), ClassID: testClassID, Date: testDate})
	e2, _ := store.RegisterEntry(ctx, EntryKey{StudentID: studentN(2), ClassID: testClassID, Date: testDate})
	assert.Equal(t, StatusLateAfterRegister, e1.Status)
	assert.Equal(t, StatusAbsent, e2.Status)

	// Sweep ulang: idempoten, tidak ada promosi baru.
	promoted, err = svc.SweepDate(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, promoted)
}

func TestSubmitLessonAttendanceDefaultsRecordedAt(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()

	*clock = at(9, 30)
	rec, err := svc.SubmitLessonAttendance(ctx, lessonKey(mathSubjectID, 2), PresencePresent, testTeacherID, time.Time{})
	require.NoError(t, err)
	assert.True(t, rec.RecordedAt.Equal(at(9, 30)))

	recs, err := store.LatestLessonRecords(ctx, testKey())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, testTeacherID, recs[0].RecordedBy)
}

func TestSubmitLessonAttendanceRejectsBadPresence(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SubmitLessonAttendance(context.Background(), lessonKey(mathSubjectID, 2), Presence("late"), testTeacherID, time.Time{})
	assert.Error(t, err)
}
