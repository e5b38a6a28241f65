package errors

import "errors"

// Session errors
var (
	ErrUnknownSession    = errors.New("no session for this call")
	ErrSessionTerminal   = errors.New("session already in a terminal state")
	ErrDuplicateCallback = errors.New("callback already processed")
	ErrWrongState        = errors.New("session not in the expected state")
)

// Pipeline errors
var (
	ErrNoRecording        = errors.New("no recording reference on session")
	ErrEmptyTranscription = errors.New("transcription produced no text")
	ErrAllProvidersFailed = errors.New("all transcription providers failed")
	ErrFormattingFailed   = errors.New("formatting failed after retries")
)

// Delivery errors
var (
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrAlreadyNotified    = errors.New("notification already sent for this call")
	ErrNotificationFailed = errors.New("notification could not be delivered")
)
