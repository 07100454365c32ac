// file: internals/features/school/attendance_register/service/gorm_store.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	attModel "sekolahku_backend/internals/features/school/attendance_register/model"
)

// GormStore: implementasi Store + RosterProvider di atas Postgres. CAS
// diwujudkan sebagai conditional UPDATE (WHERE status = expected) di dalam
// satu transaksi bersama append amendment-nya.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)
var _ RosterProvider = (*GormStore)(nil)

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func dateColumn(date string) datatypes.Date {
	t, _ := time.Parse(DateLayout, date)
	return datatypes.Date(t)
}

func dateString(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

/* ===============================
   Register entries
=================================*/

func (s *GormStore) RegisterEntry(ctx context.Context, key EntryKey) (RegisterEntry, error) {
	var m attModel.RegisterEntryModel
	err := s.db.WithContext(ctx).
		Where("register_entry_student_id = ? AND register_entry_class_id = ? AND register_entry_date = ?",
			key.StudentID, key.ClassID, dateColumn(key.Date)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RegisterEntry{Key: key, Status: StatusUnmarked}, nil
	}
	if err != nil {
		return RegisterEntry{}, err
	}
	return entryFromModel(m), nil
}

func (s *GormStore) EntriesForClass(ctx context.Context, classID uuid.UUID, date string) ([]RegisterEntry, error) {
	var ms []attModel.RegisterEntryModel
	err := s.db.WithContext(ctx).
		Where("register_entry_class_id = ? AND register_entry_date = ?", classID, dateColumn(date)).
		Order("register_entry_student_id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]RegisterEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, entryFromModel(m))
	}
	return out, nil
}

func (s *GormStore) AbsentEntryKeys(ctx context.Context, date string) ([]EntryKey, error) {
	var ms []attModel.RegisterEntryModel
	err := s.db.WithContext(ctx).
		Select("register_entry_student_id", "register_entry_class_id", "register_entry_date").
		Where("register_entry_date = ? AND register_entry_status = ?", dateColumn(date), string(StatusAbsent)).
		Order("register_entry_student_id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]EntryKey, 0, len(ms))
	for _, m := range ms {
		out = append(out, EntryKey{
			StudentID: m.RegisterEntryStudentID,
			ClassID:   m.RegisterEntryClassID,
			Date:      dateString(m.RegisterEntryDate),
		})
	}
	return out, nil
}

/* ===============================
   Lesson attendances
=================================*/

func (s *GormStore) InsertLessonRecord(ctx context.Context, rec LessonRecord) error {
	m := attModel.LessonAttendanceModel{
		LessonAttendanceStudentID:  rec.Key.StudentID,
		LessonAttendanceClassID:    rec.Key.ClassID,
		LessonAttendanceDate:       dateColumn(rec.Key.Date),
		LessonAttendanceSubjectID:  rec.Key.SubjectID,
		LessonAttendancePeriod:     rec.Key.Period,
		LessonAttendancePresence:   string(rec.Presence),
		LessonAttendanceRecordedAt: rec.RecordedAt,
		LessonAttendanceRecordedBy: rec.RecordedBy,
	}
	return s.db.WithContext(ctx).Create(&m).Error
}

func (s *GormStore) LatestLessonRecords(ctx context.Context, key EntryKey) ([]LessonRecord, error) {
	var ms []attModel.LessonAttendanceModel
	// Urut per lesson key dengan record terbaru duluan; fold di bawah ambil
	// baris pertama per (subject, period) = last-write-wins.
	err := s.db.WithContext(ctx).
		Where("lesson_attendance_student_id = ? AND lesson_attendance_class_id = ? AND lesson_attendance_date = ?",
			key.StudentID, key.ClassID, dateColumn(key.Date)).
		Order("lesson_attendance_subject_id ASC, lesson_attendance_period ASC, lesson_attendance_recorded_at DESC, lesson_attendance_created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[LessonKey]bool)
	out := make([]LessonRecord, 0, len(ms))
	for _, m := range ms {
		lk := LessonKey{
			EntryKey:  key,
			SubjectID: m.LessonAttendanceSubjectID,
			Period:    m.LessonAttendancePeriod,
		}
		if seen[lk] {
			continue
		}
		seen[lk] = true
		out = append(out, LessonRecord{
			Key:        lk,
			Presence:   Presence(m.LessonAttendancePresence),
			RecordedAt: m.LessonAttendanceRecordedAt,
			RecordedBy: m.LessonAttendanceRecordedBy,
		})
	}
	return out, nil
}

/* ===============================
   Amendment log
=================================*/

func (s *GormStore) Amendments(ctx context.Context, key EntryKey) ([]Amendment, error) {
	var ms []attModel.RegisterAmendmentModel
	err := s.db.WithContext(ctx).
		Where("register_amendment_student_id = ? AND register_amendment_class_id = ? AND register_amendment_date = ?",
			key.StudentID, key.ClassID, dateColumn(key.Date)).
		Order("register_amendment_amended_at ASC, register_amendment_id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]Amendment, 0, len(ms))
	for _, m := range ms {
		out = append(out, amendmentFromModel(m))
	}
	return out, nil
}

func (s *GormStore) LastAmendment(ctx context.Context, key EntryKey) (*Amendment, error) {
	var m attModel.RegisterAmendmentModel
	err := s.db.WithContext(ctx).
		Where("register_amendment_student_id = ? AND register_amendment_class_id = ? AND register_amendment_date = ?",
			key.StudentID, key.ClassID, dateColumn(key.Date)).
		Order("register_amendment_amended_at DESC, register_amendment_id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	am := amendmentFromModel(m)
	return &am, nil
}

func (s *GormStore) ApplyAmendment(ctx context.Context, next RegisterEntry, am Amendment) error {
	key := next.Key
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if am.OriginalStatus == StatusUnmarked {
			// Entry belum ada: INSERT, konflik unique = ada penulis lain duluan.
			m := attModel.RegisterEntryModel{
				RegisterEntryStudentID: key.StudentID,
				RegisterEntryClassID:   key.ClassID,
				RegisterEntryDate:      dateColumn(key.Date),
				RegisterEntryStatus:    string(next.Status),
				RegisterEntryMarkedAt:  next.MarkedAt,
				RegisterEntryMarkedBy:  next.MarkedBy,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
			if res.Error != nil {
				if isDuplicateKey(res.Error) {
					return s.conflictFor(tx, key, am.OriginalStatus)
				}
				return res.Error
			}
			if res.RowsAffected == 0 {
				return s.conflictFor(tx, key, am.OriginalStatus)
			}
		} else {
			// CAS: update hanya kalau status masih sama dengan original.
			res := tx.Model(&attModel.RegisterEntryModel{}).
				Where("register_entry_student_id = ? AND register_entry_class_id = ? AND register_entry_date = ? AND register_entry_status = ?",
					key.StudentID, key.ClassID, dateColumn(key.Date), string(am.OriginalStatus)).
				Updates(map[string]any{
					"register_entry_status":     string(next.Status),
					"register_entry_marked_at":  next.MarkedAt,
					"register_entry_marked_by":  next.MarkedBy,
					"register_entry_updated_at": time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return s.conflictFor(tx, key, am.OriginalStatus)
			}
		}

		amRow := attModel.RegisterAmendmentModel{
			RegisterAmendmentStudentID:         key.StudentID,
			RegisterAmendmentClassID:           key.ClassID,
			RegisterAmendmentDate:              dateColumn(key.Date),
			RegisterAmendmentOriginalStatus:    string(am.OriginalStatus),
			RegisterAmendmentNewStatus:         string(am.NewStatus),
			RegisterAmendmentAmendedAt:         am.AmendedAt,
			RegisterAmendmentSource:            string(am.Source),
			RegisterAmendmentAmendedBy:         am.AmendedBy,
			RegisterAmendmentReason:            am.Reason,
			RegisterAmendmentEvidenceSubjectID: am.EvidenceSubjectID,
			RegisterAmendmentEvidencePeriod:    am.EvidencePeriod,
		}
		return tx.Create(&amRow).Error
	})
}

// conflictFor bangun ConflictError dengan status aktual saat tulis.
func (s *GormStore) conflictFor(tx *gorm.DB, key EntryKey, expected Status) error {
	actual := StatusUnmarked
	var m attModel.RegisterEntryModel
	err := tx.Where("register_entry_student_id = ? AND register_entry_class_id = ? AND register_entry_date = ?",
		key.StudentID, key.ClassID, dateColumn(key.Date)).
		First(&m).Error
	if err == nil {
		actual = Status(m.RegisterEntryStatus)
	}
	return &ConflictError{Key: key, Expected: expected, Actual: actual}
}

/* ===============================
   Roster provider
=================================*/

func (s *GormStore) Roster(ctx context.Context, classID uuid.UUID, date string) ([]uuid.UUID, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&attModel.ClassStudentModel{}).
		Where("class_student_class_id = ?", classID).
		Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, &UnknownEntityError{Entity: "class", ID: classID.String()}
	}

	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&attModel.ClassStudentModel{}).
		Where("class_student_class_id = ? AND class_student_is_active = TRUE", classID).
		Order("class_student_student_id ASC").
		Pluck("class_student_student_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

/* ===============================
   Converters
=================================*/

func entryFromModel(m attModel.RegisterEntryModel) RegisterEntry {
	return RegisterEntry{
		Key: EntryKey{
			StudentID: m.RegisterEntryStudentID,
			ClassID:   m.RegisterEntryClassID,
			Date:      dateString(m.RegisterEntryDate),
		},
		Status:   Status(m.RegisterEntryStatus),
		MarkedAt: m.RegisterEntryMarkedAt,
		MarkedBy: m.RegisterEntryMarkedBy,
	}
}

func amendmentFromModel(m attModel.RegisterAmendmentModel) Amendment {
	return Amendment{
		Seq: m.RegisterAmendmentID,
		Key: EntryKey{
			StudentID: m.RegisterAmendmentStudentID,
			ClassID:   m.RegisterAmendmentClassID,
			Date:      dateString(m.RegisterAmendmentDate),
		},
		OriginalStatus:    Status(m.RegisterAmendmentOriginalStatus),
		NewStatus:         Status(m.RegisterAmendmentNewStatus),
		AmendedAt:         m.RegisterAmendmentAmendedAt,
		Source:            Source(m.RegisterAmendmentSource),
		AmendedBy:         m.RegisterAmendmentAmendedBy,
		Reason:            m.RegisterAmendmentReason,
		EvidenceSubjectID: m.RegisterAmendmentEvidenceSubjectID,
		EvidencePeriod:    m.RegisterAmendmentEvidencePeriod,
	}
}
