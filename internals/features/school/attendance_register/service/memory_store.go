// file: internals/features/school/attendance_register/service/memory_store.go
package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore: implementasi Store + RosterProvider di atas keyed map dengan
// mutex tunggal. Dipakai unit test dan mode dev tanpa Postgres; semantik CAS
// di ApplyAmendment identik dengan GormStore.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[EntryKey]RegisterEntry
	lessons    map[EntryKey][]LessonRecord
	amendments map[EntryKey][]Amendment
	rosters    map[uuid.UUID][]uuid.UUID
	seq        int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:    make(map[EntryKey]RegisterEntry),
		lessons:    make(map[EntryKey][]LessonRecord),
		amendments: make(map[EntryKey][]Amendment),
		rosters:    make(map[uuid.UUID][]uuid.UUID),
	}
}

var _ Store = (*MemoryStore)(nil)
var _ RosterProvider = (*MemoryStore)(nil)

func (s *MemoryStore) RegisterEntry(ctx context.Context, key EntryKey) (RegisterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e, nil
	}
	// Entry dibuat implisit sebagai unmarked saat pertama dirujuk.
	return RegisterEntry{Key: key, Status: StatusUnmarked}, nil
}

func (s *MemoryStore) EntriesForClass(ctx context.Context, classID uuid.UUID, date string) ([]RegisterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []RegisterEntry
	for k, e := range s.entries {
		if k.ClassID == classID && k.Date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.StudentID.String() < out[j].Key.StudentID.String()
	})
	return out, nil
}

func (s *MemoryStore) AbsentEntryKeys(ctx context.Context, date string) ([]EntryKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []EntryKey
	for k, e := range s.entries {
		if k.Date == date && e.Status == StatusAbsent {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StudentID.String() < out[j].StudentID.String()
	})
	return out, nil
}

func (s *MemoryStore) InsertLessonRecord(ctx context.Context, rec LessonRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rec.Key.EntryKey
	s.lessons[key] = append(s.lessons[key], rec)
	return nil
}

func (s *MemoryStore) LatestLessonRecords(ctx context.Context, key EntryKey) ([]LessonRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest := make(map[LessonKey]LessonRecord)
	for _, r := range s.lessons[key] {
		cur, ok := latest[r.Key]
		// Record lebih baru menang; recorded_at sama → yang ditulis belakangan.
		if !ok || !r.RecordedAt.Before(cur.RecordedAt) {
			latest[r.Key] = r
		}
	}
	out := make([]LessonRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.SubjectID != out[j].Key.SubjectID {
			return out[i].Key.SubjectID.String() < out[j].Key.SubjectID.String()
		}
		return out[i].Key.Period < out[j].Key.Period
	})
	return out, nil
}

func (s *MemoryStore) Amendments(ctx context.Context, key EntryKey) ([]Amendment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Amendment(nil), s.amendments[key]...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AmendedAt.Equal(out[j].AmendedAt) {
			return out[i].AmendedAt.Before(out[j].AmendedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (s *MemoryStore) LastAmendment(ctx context.Context, key EntryKey) (*Amendment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.amendments[key]
	if len(log) == 0 {
		return nil, nil
	}
	last := log[len(log)-1]
	return &last, nil
}

func (s *MemoryStore) ApplyAmendment(ctx context.Context, next RegisterEntry, am Amendment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := next.Key
	current := StatusUnmarked
	if e, ok := s.entries[key]; ok {
		current = e.Status
	}
	// Prasyarat CAS: rantai amendment harus nyambung dengan status saat tulis.
	if current != am.OriginalStatus {
		return &ConflictError{Key: key, Expected: am.OriginalStatus, Actual: current}
	}

	s.seq++
	am.Seq = s.seq
	s.amendments[key] = append(s.amendments[key], am)
	s.entries[key] = next
	return nil
}

// SetRoster isi keanggotaan kelas (dev/test).
func (s *MemoryStore) SetRoster(classID uuid.UUID, studentIDs []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rosters[classID] = append([]uuid.UUID(nil), studentIDs...)
}

func (s *MemoryStore) Roster(ctx context.Context, classID uuid.UUID, date string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.rosters[classID]
	if !ok {
		return nil, &UnknownEntityError{Entity: "class", ID: classID.String()}
	}
	return append([]uuid.UUID(nil), roster...), nil
}
