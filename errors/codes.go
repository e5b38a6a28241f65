package errors

import "fmt"

// ErrorCode identifies an application error condition independent of the
// HTTP status it maps to. Codes are grouped by component: 0-99 general,
// 100-199 call session, 200-299 pipeline stages, 300-399 integrations,
// 400-499 database.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_NOT_FOUND        ErrorCode = 3
	ErrorCode_FORBIDDEN        ErrorCode = 4
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 5

	ErrorCode_POLICY_REJECTED       ErrorCode = 100
	ErrorCode_DUPLICATE_EVENT       ErrorCode = 101
	ErrorCode_UNKNOWN_SESSION       ErrorCode = 102
	ErrorCode_SESSION_INVALID_STATE ErrorCode = 103

	ErrorCode_MISSING_RECORDING_URL  ErrorCode = 200
	ErrorCode_RECORDING_FETCH_FAILED ErrorCode = 201
	ErrorCode_TRANSCRIPTION_FAILED   ErrorCode = 202
	ErrorCode_FORMATTING_FAILED      ErrorCode = 203
	ErrorCode_NOTIFICATION_FAILED    ErrorCode = 204
	ErrorCode_PROCESSING_FAILED      ErrorCode = 205

	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 300
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 301
	ErrorCode_SIGNATURE_INVALID               ErrorCode = 302

	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 400
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 401
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:          "HTTP_OK",
	ErrorCode_INTERNAL:         "INTERNAL",
	ErrorCode_INVALID_ARGUMENT: "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:        "NOT_FOUND",
	ErrorCode_FORBIDDEN:        "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:  "INVALID_PAYLOAD",

	ErrorCode_POLICY_REJECTED:       "POLICY_REJECTED",
	ErrorCode_DUPLICATE_EVENT:       "DUPLICATE_EVENT",
	ErrorCode_UNKNOWN_SESSION:       "UNKNOWN_SESSION",
	ErrorCode_SESSION_INVALID_STATE: "SESSION_INVALID_STATE",

	ErrorCode_MISSING_RECORDING_URL:  "MISSING_RECORDING_URL",
	ErrorCode_RECORDING_FETCH_FAILED: "RECORDING_FETCH_FAILED",
	ErrorCode_TRANSCRIPTION_FAILED:   "TRANSCRIPTION_FAILED",
	ErrorCode_FORMATTING_FAILED:      "FORMATTING_FAILED",
	ErrorCode_NOTIFICATION_FAILED:    "NOTIFICATION_FAILED",
	ErrorCode_PROCESSING_FAILED:      "PROCESSING_FAILED",

	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_SIGNATURE_INVALID:               "SIGNATURE_INVALID",

	ErrorCode_DB_CONNECTION_FAILED: "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:      "DB_QUERY_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERROR_CODE_%d", int32(c))
}
