package analyses

import (
	"time"
)

// AnalysisID identifier type
type AnalysisID string

// Type enum for the kind of call being evaluated
type Type string

const (
	TypeSales               Type = "sales"
	TypeService             Type = "service"
	TypeAppointmentSetting  Type = "appointment_setting"
	TypeSalesFollowup       Type = "sales_followup"
	TypeAppointmentFollowup Type = "appointment_followup"
)

// Known reports whether t is one of the supported analysis types.
func (t Type) Known() bool {
	switch t {
	case TypeSales, TypeService, TypeAppointmentSetting, TypeSalesFollowup, TypeAppointmentFollowup:
		return true
	}
	return false
}

// Status enum. Transitions only move forward:
// pending -> processing -> done | error. done and error are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Known reports whether s is part of the closed status enumeration.
// Anything else is rendered as "unknown" and never trusted.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDone, StatusError:
		return true
	}
	return false
}

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// CanTransitionTo reports whether next is a legal forward transition from s.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusDone || next == StatusError
	}
	return false
}

// Aggregate Root: Analysis. One call's AI-generated evaluation.
// Only the background processing task mutates Status/Report/Transcription;
// every other field is immutable after creation.
type Analysis struct {
	ID            AnalysisID  `json:"id"`
	OwnerUserID   string      `json:"user_id"`
	CompanyID     string      `json:"company_id"`
	Type          Type        `json:"analysis_type"`
	Status        Status      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	Transcription string      `json:"transcription,omitempty"`
	RecordingURL  string      `json:"recording_url,omitempty"`
	Report        *ReportData `json:"report_data,omitempty"`
}
