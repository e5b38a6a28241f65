package admin

import "time"

// CallOutcomeResponse is one finished call in the admin listing.
type CallOutcomeResponse struct {
	ID              string                 `json:"id"`
	CallSid         string                 `json:"call_sid"`
	CallerNumber    string                 `json:"caller_number"`
	Outcome         string                 `json:"outcome"`
	FailureReason   string                 `json:"failure_reason,omitempty"`
	TranscriptID    *string                `json:"transcript_id,omitempty"`
	FormatKind      string                 `json:"format_kind,omitempty"`
	DurationSeconds int                    `json:"duration_seconds"`
	Details         map[string]interface{} `json:"details,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

// CallListResponse wraps the admin call listing.
type CallListResponse struct {
	Calls          []*CallOutcomeResponse `json:"calls"`
	Count          int                    `json:"count"`
	ActiveSessions int                    `json:"active_sessions"`
}
