// file: internals/features/school/attendance_register/service/store.go
package service

import (
	"context"

	"github.com/google/uuid"
)

// Store: kontrak penyimpanan register + lesson attendance + amendment log.
// Implementasi: GormStore (produksi) dan MemoryStore (test/dev).
//
// Semantik tulis register mengikuti disiplin compare-and-swap per entry:
// ApplyAmendment memvalidasi status entry saat tulis terhadap
// OriginalStatus amendment, dan menolak dengan ConflictError kalau sudah
// berubah. Tidak ada lock global; linearizability per entry datang dari sini.
type Store interface {
	// RegisterEntry baca entry saat ini; kalau belum pernah ditulis,
	// kembalikan entry unmarked (bukan error).
	RegisterEntry(ctx context.Context, key EntryKey) (RegisterEntry, error)

	// EntriesForClass: semua entry kelas di tanggal tsb (untuk summary/list).
	EntriesForClass(ctx context.Context, classID uuid.UUID, date string) ([]RegisterEntry, error)

	// AbsentEntryKeys: entry yang masih absent pada tanggal tsb (sweep).
	AbsentEntryKeys(ctx context.Context, date string) ([]EntryKey, error)

	// InsertLessonRecord tulis record baru (append-only, tidak pernah update).
	InsertLessonRecord(ctx context.Context, rec LessonRecord) error

	// LatestLessonRecords: untuk satu entry key, record terbaru per
	// (subject, period), last-write-wins per lesson key.
	LatestLessonRecords(ctx context.Context, key EntryKey) ([]LessonRecord, error)

	// Amendments: riwayat terurut amended_at lalu seq (audit display).
	Amendments(ctx context.Context, key EntryKey) ([]Amendment, error)

	// LastAmendment: ekor log untuk guard idempotensi; nil kalau kosong.
	LastAmendment(ctx context.Context, key EntryKey) (*Amendment, error)

	// ApplyAmendment: tulis status entry baru + append amendment secara
	// atomik. Prasyarat CAS: status entry saat ini harus sama dengan
	// am.OriginalStatus (entry yang belum ada dihitung unmarked).
	// Mengembalikan ConflictError kalau prasyarat gagal.
	ApplyAmendment(ctx context.Context, next RegisterEntry, am Amendment) error
}

// RosterProvider: kolaborator eksternal pemilik keanggotaan kelas. Core tidak
// memvalidasi membership; class yang tidak dikenal cukup menghasilkan roster
// kosong atau UnknownEntityError yang diperlakukan informasional.
type RosterProvider interface {
	Roster(ctx context.Context, classID uuid.UUID, date string) ([]uuid.UUID, error)
}
