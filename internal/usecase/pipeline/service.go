package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	"github.com/alexdong/TranscribeMe/internal/domain/repositories"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
	"github.com/alexdong/TranscribeMe/internal/usecase/policy"
	"github.com/alexdong/TranscribeMe/internal/usecase/transcripts"
	"github.com/alexdong/TranscribeMe/pkg/jobcontext"
	"github.com/alexdong/TranscribeMe/pkg/twilio"
)

// Voice prompts spoken to the caller. The accept copy promises five minutes
// because the default recording cap is 300 seconds.
const (
	greetingMessage = "Welcome to TranscribeMe! This service is for New Zealand mobile numbers. " +
		"Please speak your message after the beep. " +
		"Your call will be transcribed and sent to you via text message. " +
		"You have up to 5 minutes."
	thanksMessage = "Thank you! Your message has been recorded and will be transcribed shortly. " +
		"You'll receive a text message with your transcript."
	rejectionMessage = "Sorry, this service is only available for New Zealand mobile phone numbers. " +
		"Please call from a New Zealand mobile device."
)

// AudioSource fetches and deletes call recordings held by the telephony
// provider.
type AudioSource interface {
	FetchRecording(ctx context.Context, recordingURL string) ([]byte, error)
	DeleteRecording(ctx context.Context, recordingSID string) error
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Formatter rewrites a raw transcript into the requested shape and produces
// the short SMS preview.
type Formatter interface {
	FormatTranscript(ctx context.Context, text, kind string) (string, error)
	Summarize(ctx context.Context, text string, maxChars int) (string, error)
}

// Messenger delivers the notification SMS to the caller.
type Messenger interface {
	SendSMS(ctx context.Context, to, body string) (*twilio.Message, error)
}

// GuardStore persists the per-call delivery flag behind the at-most-once
// SMS guarantee. Backed by Redis in production so the flag survives restarts.
type GuardStore interface {
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// Options carries the runtime knobs for the pipeline.
type Options struct {
	PublicBaseURL      string
	MaxDurationSeconds int
	SummaryMaxChars    int
	// GuardTTL bounds how long a delivery flag is kept. Matching the
	// transcript retention window is enough: a callback retried later than
	// that refers to a call whose outcome row already exists.
	GuardTTL time.Duration
}

// Service drives a call from the inbound webhook to a terminal state. Every
// public method is keyed by CallSid and safe to call concurrently; repeated
// webhook deliveries for the same call collapse into no-ops.
type Service struct {
	registry     *SessionRegistry
	callerPolicy *policy.CallerPolicy
	store        *transcripts.Store
	outcomeRepo  repositories.OutcomeRepository
	audio        AudioSource
	transcribers []Transcriber
	formatter    Formatter
	messenger    Messenger
	guard        GuardStore
	logger       *zap.Logger

	opts Options

	// retryBaseDelay is shortened in tests so retry paths run fast
	retryBaseDelay time.Duration

	processWg sync.WaitGroup
}

// NewService creates the pipeline service. Transcribers are tried in order;
// the first is the primary provider, the rest are fallbacks.
func NewService(
	callerPolicy *policy.CallerPolicy,
	store *transcripts.Store,
	outcomeRepo repositories.OutcomeRepository,
	audio AudioSource,
	transcribers []Transcriber,
	formatter Formatter,
	messenger Messenger,
	guard GuardStore,
	opts Options,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:       NewSessionRegistry(),
		callerPolicy:   callerPolicy,
		store:          store,
		outcomeRepo:    outcomeRepo,
		audio:          audio,
		transcribers:   transcribers,
		formatter:      formatter,
		messenger:      messenger,
		guard:          guard,
		logger:         logger,
		opts:           opts,
		retryBaseDelay: 2 * time.Second,
	}
}

// HandleInboundCall decides whether to record the caller and returns the
// TwiML to speak. A repeated webhook for a known CallSid re-emits the same
// decision without re-running policy or creating a second session.
func (s *Service) HandleInboundCall(ctx context.Context, callSID, from, to string) (string, error) {
	if existing, ok := s.registry.Get(callSID); ok {
		if s.logger != nil {
			s.logger.Info("🔄 Duplicate voice webhook, re-emitting decision",
				zap.String("call_sid", callSID),
				zap.String("state", string(existing.State)),
			)
		}
		if existing.State == entities.SessionStateRejected {
			return twilio.RejectResponse(rejectionMessage), nil
		}
		return s.acceptTwiML(), nil
	}

	sess := entities.NewCallSession(callSID, from, to)

	if !s.callerPolicy.IsAllowed(from) {
		sess.MarkRejected()
		if s.logger != nil {
			s.logger.Warn("⚠️ Call rejected by caller policy",
				zap.String("call_sid", callSID),
				zap.String("from", from),
			)
		}
		s.recordOutcome(ctx, sess, entities.OutcomeRejected, map[string]interface{}{
			"reason": "caller_not_allowed",
		})
		return twilio.RejectResponse(rejectionMessage), nil
	}

	sess.MarkValidated()
	sess.MarkRecording()

	if stored, created := s.registry.Create(sess); !created {
		// Lost the race against a concurrent duplicate of the same webhook.
		if stored.State == entities.SessionStateRejected {
			return twilio.RejectResponse(rejectionMessage), nil
		}
		return s.acceptTwiML(), nil
	}

	if s.logger != nil {
		s.logger.Info("✅ Call accepted, recording instructed",
			zap.String("call_sid", callSID),
			zap.String("from", from),
			zap.String("to", to),
		)
	}

	return s.acceptTwiML(), nil
}

func (s *Service) acceptTwiML() string {
	return twilio.AcceptResponse(greetingMessage, thanksMessage, twilio.RecordParams{
		Action:                  s.opts.PublicBaseURL + "/webhook/recording",
		MaxLengthSeconds:        s.opts.MaxDurationSeconds,
		RecordingStatusCallback: s.opts.PublicBaseURL + "/webhook/recording-status",
	})
}

// HandleRecordingReady ingests the recording-complete callback and starts
// asynchronous processing. Exactly one callback per call claims the session;
// duplicates and callbacks for finished calls return sentinel errors the
// transport layer acknowledges without retrying.
func (s *Service) HandleRecordingReady(ctx context.Context, callSID, recordingSID, recordingURL string, durationSeconds int) error {
	if _, ok := s.registry.Get(callSID); !ok {
		if outcome, err := s.outcomeRepo.GetOutcomeByCallSID(ctx, callSID); err == nil && outcome != nil {
			if s.logger != nil {
				s.logger.Info("⏭️ Recording callback for finished call, ignoring",
					zap.String("call_sid", callSID),
					zap.String("outcome", string(outcome.Outcome)),
				)
			}
			return usecaseErrors.ErrDuplicateCallback
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Recording callback for unknown call, ignoring",
				zap.String("call_sid", callSID),
			)
		}
		return usecaseErrors.ErrUnknownSession
	}

	if recordingURL == "" {
		s.failSession(ctx, callSID, entities.OutcomeFailed, "missing_recording_url", nil)
		return usecaseErrors.ErrNoRecording
	}

	_, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		if cs.IsTerminal() {
			return usecaseErrors.ErrSessionTerminal
		}
		switch cs.State {
		case entities.SessionStateReceived, entities.SessionStateValidated, entities.SessionStateRecording:
			cs.MarkRecorded(recordingSID, recordingURL, durationSeconds)
			cs.MarkTranscribing()
			return nil
		default:
			return usecaseErrors.ErrDuplicateCallback
		}
	})
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrSessionTerminal) || errors.Is(err, usecaseErrors.ErrDuplicateCallback) {
			if s.logger != nil {
				s.logger.Info("⏭️ Recording callback already processed",
					zap.String("call_sid", callSID),
				)
			}
		}
		return err
	}

	if s.logger != nil {
		s.logger.Info("📥 Recording received, processing",
			zap.String("call_sid", callSID),
			zap.String("recording_sid", recordingSID),
			zap.Int("duration_seconds", durationSeconds),
		)
	}

	s.processWg.Add(1)
	go func() {
		defer s.processWg.Done()

		jobCtx, cancel := jobcontext.JobBegin(context.Background(), callSID, "process_recording")
		defer cancel()

		if err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
			return s.processRecording(ctx, callSID)
		}); err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Recording processing failed",
					zap.String("call_sid", callSID),
					zap.Error(err),
				)
			}
			// Stage failures finalize themselves; this covers panics and the
			// overall deadline.
			s.failSession(context.Background(), callSID, entities.OutcomeFailed, "processing_failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	return nil
}

// HandleRecordingStatus ingests the out-of-band recording status callback.
// A failed or absent recording fails the session, but only while it is still
// waiting on audio; once a recording callback claimed the call, a late
// status report changes nothing.
func (s *Service) HandleRecordingStatus(ctx context.Context, callSID, recordingSID, status string) error {
	switch status {
	case "failed", "absent":
	default:
		if s.logger != nil {
			s.logger.Debug("📼 Recording status",
				zap.String("call_sid", callSID),
				zap.String("recording_sid", recordingSID),
				zap.String("status", status),
			)
		}
		return nil
	}

	reason := "recording_" + status
	updated, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		switch cs.State {
		case entities.SessionStateReceived, entities.SessionStateValidated, entities.SessionStateRecording:
			cs.MarkFailed(reason)
			return nil
		default:
			return usecaseErrors.ErrWrongState
		}
	})
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrUnknownSession) {
			if s.logger != nil {
				s.logger.Warn("⚠️ Recording status for unknown call, ignoring",
					zap.String("call_sid", callSID),
					zap.String("status", status),
				)
			}
			return usecaseErrors.ErrUnknownSession
		}
		if s.logger != nil {
			s.logger.Info("⏭️ Late recording status, call already claimed",
				zap.String("call_sid", callSID),
				zap.String("status", status),
			)
		}
		return nil
	}

	s.finalizeFailed(ctx, updated, entities.OutcomeFailed, reason, map[string]interface{}{
		"recording_sid": recordingSID,
	})
	return nil
}

// ActiveSessions returns the number of in-flight sessions
func (s *Service) ActiveSessions() int {
	return s.registry.ActiveCount()
}

// RecentOutcomes returns the most recent call outcome rows, newest first.
func (s *Service) RecentOutcomes(ctx context.Context, limit int) ([]*entities.CallOutcome, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.outcomeRepo.ListRecentOutcomes(ctx, limit)
}

// Shutdown waits for in-flight recording processing to drain
func (s *Service) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.processWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if s.logger != nil {
			s.logger.Info("✅ Pipeline drained")
		}
		return nil
	case <-ctx.Done():
		if s.logger != nil {
			s.logger.Warn("⚠️ Shutdown deadline hit with processing still in flight",
				zap.Int("active_sessions", s.registry.ActiveCount()),
			)
		}
		return ctx.Err()
	}
}

// failSession moves a session to FAILED, records the durable outcome and
// evicts it. Already-terminal sessions are left untouched.
func (s *Service) failSession(ctx context.Context, callSID string, outcome entities.Outcome, reason string, details map[string]interface{}) {
	updated, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		if cs.IsTerminal() {
			return usecaseErrors.ErrSessionTerminal
		}
		cs.MarkFailed(reason)
		return nil
	})
	if err != nil {
		return
	}

	s.finalizeFailed(ctx, updated, outcome, reason, details)
}

func (s *Service) finalizeFailed(ctx context.Context, sess *entities.CallSession, outcome entities.Outcome, reason string, details map[string]interface{}) {
	if s.logger != nil {
		s.logger.Error("❌ Call failed",
			zap.String("call_sid", sess.CallSID),
			zap.String("reason", reason),
			zap.String("outcome", string(outcome)),
		)
	}

	s.recordOutcome(ctx, sess, outcome, details)
	s.registry.Evict(sess.CallSID)
}

// recordOutcome persists the durable trace of a finished call. Best effort:
// losing an audit row must not fail the call itself.
func (s *Service) recordOutcome(ctx context.Context, sess *entities.CallSession, outcome entities.Outcome, details map[string]interface{}) {
	if existing, err := s.outcomeRepo.GetOutcomeByCallSID(ctx, sess.CallSID); err == nil && existing != nil {
		if s.logger != nil {
			s.logger.Info("⏭️ Outcome already recorded",
				zap.String("call_sid", sess.CallSID),
			)
		}
		return
	}

	record := entities.NewCallOutcome(sess, outcome, details)
	if err := s.outcomeRepo.CreateOutcome(ctx, record); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to record call outcome",
				zap.String("call_sid", sess.CallSID),
				zap.String("outcome", string(outcome)),
				zap.Error(err),
			)
		}
		return
	}

	if s.logger != nil {
		s.logger.Info("📋 Call outcome recorded",
			zap.String("call_sid", sess.CallSID),
			zap.String("outcome", string(outcome)),
		)
	}
}

// notificationBody renders the SMS sent to the caller
func notificationBody(summary, transcriptURL string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Your transcript is ready!\n\nPreview: %s\n\nFull transcript: %s\n\nExpires: %s",
		summary,
		transcriptURL,
		expiresAt.Format("2006-01-02"),
	)
}
