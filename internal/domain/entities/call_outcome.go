package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Outcome classifies how a finished session ended.
type Outcome string

// Outcome kinds recorded for finished sessions. Undeliverable is distinct
// from failed: the transcript exists and an operator can still recover it.
const (
	OutcomeCompleted                 Outcome = "completed"
	OutcomeRejected                  Outcome = "rejected"
	OutcomeFailed                    Outcome = "failed"
	OutcomeNotificationUndeliverable Outcome = "notification_undeliverable"
)

// CallOutcome is the durable audit row written once per terminal session.
// The in-memory session is evicted only after this row exists.
type CallOutcome struct {
	ID              uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key"`
	CallSID         string                                     `json:"call_sid" gorm:"type:varchar(64);not null;uniqueIndex"`
	CallerNumber    string                                     `json:"caller_number" gorm:"type:varchar(32);not null;index"`
	Outcome         Outcome                                    `json:"outcome" gorm:"type:varchar(40);not null;index"`
	FailureReason   string                                     `json:"failure_reason,omitempty" gorm:"type:text"`
	TranscriptID    *uuid.UUID                                 `json:"transcript_id,omitempty" gorm:"type:uuid"`
	FormatKind      string                                     `json:"format_kind,omitempty" gorm:"type:varchar(20)"`
	DurationSeconds int                                        `json:"duration_seconds" gorm:"not null;default:0"`
	Details         datatypes.JSONType[map[string]interface{}] `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (CallOutcome) TableName() string {
	return "call_outcomes"
}

// NewCallOutcome captures the terminal snapshot of a session.
func NewCallOutcome(sess *CallSession, outcome Outcome, details map[string]interface{}) *CallOutcome {
	co := &CallOutcome{
		ID:              uuid.New(),
		CallSID:         sess.CallSID,
		CallerNumber:    sess.CallerNumber,
		Outcome:         outcome,
		FailureReason:   sess.FailureReason,
		FormatKind:      string(sess.FormatKind),
		DurationSeconds: sess.DurationSeconds,
		CreatedAt:       time.Now().UTC(),
	}
	if sess.TranscriptID != "" {
		if id, err := uuid.Parse(sess.TranscriptID); err == nil {
			co.TranscriptID = &id
		}
	}
	if details != nil {
		co.Details = datatypes.NewJSONType(details)
	}
	return co
}
