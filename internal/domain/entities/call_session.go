package entities

import (
	"time"
)

// SessionState is the position of a call session in the pipeline.
type SessionState string

const (
	SessionStateReceived     SessionState = "RECEIVED"     // inbound call webhook arrived
	SessionStateValidated    SessionState = "VALIDATED"    // caller policy passed
	SessionStateRecording    SessionState = "RECORDING"    // telephony layer instructed to record
	SessionStateRecorded     SessionState = "RECORDED"     // recording callback delivered the audio reference
	SessionStateTranscribing SessionState = "TRANSCRIBING" // speech-to-text in flight
	SessionStateFormatting   SessionState = "FORMATTING"   // formatting in flight
	SessionStateDelivering   SessionState = "DELIVERING"   // transcript stored, notification pending
	SessionStateComplete     SessionState = "COMPLETE"     // terminal: delivered
	SessionStateRejected     SessionState = "REJECTED"     // terminal: caller not permitted
	SessionStateFailed       SessionState = "FAILED"       // terminal: a stage exhausted its retries
)

// IsTerminal reports whether no further transitions are allowed.
func (s SessionState) IsTerminal() bool {
	return s == SessionStateComplete || s == SessionStateRejected || s == SessionStateFailed
}

// CallSession tracks one phone interaction from the inbound webhook to a
// terminal state. Sessions live only in the in-process registry; the durable
// trace of a finished session is its CallOutcome row. The CallSid issued by
// the telephony provider is the identity and the idempotency key for every
// callback that references the call.
type CallSession struct {
	CallSID         string
	CallerNumber    string
	CalledNumber    string
	State           SessionState
	FormatKind      FormatKind
	RecordingSID    string
	RecordingURL    string
	DurationSeconds int
	TranscriptID    string
	AccessToken     string
	Unformatted     bool
	FailureReason   string
	StartedAt       time.Time
	UpdatedAt       time.Time
}

// NewCallSession creates a session in the initial state.
func NewCallSession(callSID, from, to string) *CallSession {
	now := time.Now().UTC()
	return &CallSession{
		CallSID:      callSID,
		CallerNumber: from,
		CalledNumber: to,
		State:        SessionStateReceived,
		FormatKind:   DefaultFormatKind,
		StartedAt:    now,
		UpdatedAt:    now,
	}
}

// IsTerminal reports whether the session reached a terminal state.
func (s *CallSession) IsTerminal() bool {
	return s.State.IsTerminal()
}

func (s *CallSession) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// MarkValidated records a passed caller policy check.
func (s *CallSession) MarkValidated() {
	s.State = SessionStateValidated
	s.touch()
}

// MarkRecording records that the telephony layer was told to record.
func (s *CallSession) MarkRecording() {
	s.State = SessionStateRecording
	s.touch()
}

// MarkRecorded stores the audio reference delivered by the recording
// callback. Duration is the actual recorded length reported by the provider.
func (s *CallSession) MarkRecorded(recordingSID, recordingURL string, durationSeconds int) {
	s.State = SessionStateRecorded
	s.RecordingSID = recordingSID
	s.RecordingURL = recordingURL
	s.DurationSeconds = durationSeconds
	s.touch()
}

// MarkTranscribing claims the session for pipeline processing.
func (s *CallSession) MarkTranscribing() {
	s.State = SessionStateTranscribing
	s.touch()
}

// MarkFormatting records that transcription succeeded.
func (s *CallSession) MarkFormatting() {
	s.State = SessionStateFormatting
	s.touch()
}

// MarkDelivering records the stored transcript handoff. After this point the
// session no longer owns any transcript content, only the identifiers.
func (s *CallSession) MarkDelivering(transcriptID, accessToken string, unformatted bool) {
	s.State = SessionStateDelivering
	s.TranscriptID = transcriptID
	s.AccessToken = accessToken
	s.Unformatted = unformatted
	s.touch()
}

// MarkComplete moves the session to the successful terminal state.
func (s *CallSession) MarkComplete() {
	s.State = SessionStateComplete
	s.touch()
}

// MarkRejected moves the session to the policy-rejected terminal state.
func (s *CallSession) MarkRejected() {
	s.State = SessionStateRejected
	s.touch()
}

// MarkFailed moves the session to the failed terminal state.
func (s *CallSession) MarkFailed(reason string) {
	s.State = SessionStateFailed
	s.FailureReason = reason
	s.touch()
}

// ClearRecording drops the audio reference. Called as soon as transcription
// succeeds so no audio pointer outlives its use, regardless of how the rest
// of the pipeline goes.
func (s *CallSession) ClearRecording() {
	s.RecordingSID = ""
	s.RecordingURL = ""
	s.touch()
}
