package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

// PipelineService is the slice of the call pipeline the HTTP layer drives.
type PipelineService interface {
	HandleInboundCall(ctx context.Context, callSID, from, to string) (string, error)
	HandleRecordingReady(ctx context.Context, callSID, recordingSID, recordingURL string, durationSeconds int) error
	HandleRecordingStatus(ctx context.Context, callSID, recordingSID, status string) error
	RecentOutcomes(ctx context.Context, limit int) ([]*entities.CallOutcome, error)
	ActiveSessions() int
}

// TwilioWebhookHandler handles Twilio voice and recording callbacks
type TwilioWebhookHandler struct {
	pipeline           PipelineService
	authToken          string
	publicBaseURL      string
	validateSignatures bool
	logger             *zap.Logger
}

// NewTwilioWebhookHandler creates a new webhook handler. Signature
// validation is opt-in so local development can post unsigned requests.
func NewTwilioWebhookHandler(pipeline PipelineService, authToken, publicBaseURL string, validateSignatures bool, logger *zap.Logger) *TwilioWebhookHandler {
	return &TwilioWebhookHandler{
		pipeline:           pipeline,
		authToken:          authToken,
		publicBaseURL:      publicBaseURL,
		validateSignatures: validateSignatures,
		logger:             logger,
	}
}
