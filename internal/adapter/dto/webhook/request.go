package webhook

// VoiceWebhookRequest carries the form fields Twilio posts when a call
// reaches the service number.
type VoiceWebhookRequest struct {
	CallSid    string `form:"CallSid" validate:"required"`
	From       string `form:"From" validate:"required"`
	To         string `form:"To" validate:"required"`
	CallStatus string `form:"CallStatus" validate:"required"`
	AccountSid string `form:"AccountSid"`
}

// RecordingWebhookRequest carries the <Record> action callback. Twilio sends
// every field as a string, including the duration. RecordingUrl is left
// unvalidated here so a callback without one still reaches the pipeline,
// which fails the session instead of leaving it dangling.
type RecordingWebhookRequest struct {
	CallSid           string `form:"CallSid" validate:"required"`
	RecordingSid      string `form:"RecordingSid"`
	RecordingUrl      string `form:"RecordingUrl"`
	RecordingDuration string `form:"RecordingDuration"`
}

// RecordingStatusRequest carries recordingStatusCallback lifecycle events
// (in-progress, completed, absent, failed).
type RecordingStatusRequest struct {
	CallSid         string `form:"CallSid" validate:"required"`
	RecordingSid    string `form:"RecordingSid"`
	RecordingStatus string `form:"RecordingStatus"`
	ErrorCode       string `form:"ErrorCode"`
}
