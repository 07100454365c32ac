// file: internals/features/school/attendance_register/dto/attendance_register_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	attService "sekolahku_backend/internals/features/school/attendance_register/service"
)

/* ===============================
   Requests
=================================*/

type MarkRegisterRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	ClassID   string `json:"class_id"   validate:"required,uuid"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	Status    string `json:"status"     validate:"required,oneof=present late absent excused"`
	Reason    string `json:"reason"     validate:"omitempty,max=500"`
}

type SubmitLessonAttendanceRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	ClassID   string `json:"class_id"   validate:"required,uuid"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	Period    int    `json:"period"     validate:"required,min=1,max=12"`
	Presence  string `json:"presence"   validate:"required,oneof=present absent"`

	// Opsional: waktu marking menurut guru (RFC3339); default waktu server.
	RecordedAt *string `json:"recorded_at" validate:"omitempty"`
}

/* ===============================
   Responses
=================================*/

type RegisterEntryResponse struct {
	StudentID uuid.UUID  `json:"student_id"`
	ClassID   uuid.UUID  `json:"class_id"`
	Date      string     `json:"date"`
	Status    string     `json:"status"`
	MarkedAt  *time.Time `json:"marked_at,omitempty"`
	MarkedBy  *uuid.UUID `json:"marked_by,omitempty"`
}

func NewRegisterEntryResponse(e attService.RegisterEntry) RegisterEntryResponse {
	return RegisterEntryResponse{
		StudentID: e.Key.StudentID,
		ClassID:   e.Key.ClassID,
		Date:      e.Key.Date,
		Status:    string(e.Status),
		MarkedAt:  e.MarkedAt,
		MarkedBy:  e.MarkedBy,
	}
}

func NewRegisterEntryResponses(entries []attService.RegisterEntry) []RegisterEntryResponse {
	out := make([]RegisterEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewRegisterEntryResponse(e))
	}
	return out
}

type LessonRecordResponse struct {
	StudentID  uuid.UUID `json:"student_id"`
	ClassID    uuid.UUID `json:"class_id"`
	Date       string    `json:"date"`
	SubjectID  uuid.UUID `json:"subject_id"`
	Period     int       `json:"period"`
	Presence   string    `json:"presence"`
	RecordedAt time.Time `json:"recorded_at"`
	RecordedBy uuid.UUID `json:"recorded_by"`
}

func NewLessonRecordResponse(r attService.LessonRecord) LessonRecordResponse {
	return LessonRecordResponse{
		StudentID:  r.Key.StudentID,
		ClassID:    r.Key.ClassID,
		Date:       r.Key.Date,
		SubjectID:  r.Key.SubjectID,
		Period:     r.Key.Period,
		Presence:   string(r.Presence),
		RecordedAt: r.RecordedAt,
		RecordedBy: r.RecordedBy,
	}
}

type AmendmentResponse struct {
	Seq            int64     `json:"seq"`
	OriginalStatus string    `json:"original_status"`
	NewStatus      string    `json:"new_status"`
	AmendedAt      time.Time `json:"amended_at"`
	Source         string    `json:"source"`
	AmendedBy      string    `json:"amended_by"`
	Reason         string    `json:"reason"`

	EvidenceSubjectID *uuid.UUID `json:"evidence_subject_id,omitempty"`
	EvidencePeriod    *int       `json:"evidence_period,omitempty"`
}

func NewAmendmentResponses(ams []attService.Amendment) []AmendmentResponse {
	out := make([]AmendmentResponse, 0, len(ams))
	for _, a := range ams {
		out = append(out, AmendmentResponse{
			Seq:               a.Seq,
			OriginalStatus:    string(a.OriginalStatus),
			NewStatus:         string(a.NewStatus),
			AmendedAt:         a.AmendedAt,
			Source:            string(a.Source),
			AmendedBy:         a.AmendedBy,
			Reason:            a.Reason,
			EvidenceSubjectID: a.EvidenceSubjectID,
			EvidencePeriod:    a.EvidencePeriod,
		})
	}
	return out
}

type RegisterSummaryResponse struct {
	attService.Summary
	Complete bool `json:"complete"`
}

func NewRegisterSummaryResponse(s attService.Summary) RegisterSummaryResponse {
	return RegisterSummaryResponse{Summary: s, Complete: s.Complete()}
}
