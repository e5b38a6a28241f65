package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
	"github.com/alexdong/TranscribeMe/pkg/jobcontext"
)

const (
	fetchAttempts      = 2
	transcribeAttempts = 2 // per provider
	formatAttempts     = 2
	notifyAttempts     = 3
)

// processRecording runs the pipeline for one claimed recording: fetch audio,
// transcribe with fallback, purge the audio, format, store, notify. Each
// failing stage finalizes the session itself, so a non-nil return here means
// the call already reached FAILED.
func (s *Service) processRecording(ctx context.Context, callSID string) error {
	snap, ok := s.registry.Get(callSID)
	if !ok {
		return usecaseErrors.ErrUnknownSession
	}

	audio, err := s.fetchAudio(ctx, snap.RecordingURL)
	if err != nil {
		s.failSession(ctx, callSID, entities.OutcomeFailed, "recording_fetch_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to fetch recording audio: %w", err)
	}

	rawText, providerName, err := s.transcribe(ctx, audio)
	if err != nil {
		s.failSession(ctx, callSID, entities.OutcomeFailed, "transcription_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to transcribe recording: %w", err)
	}

	// The audio has served its purpose. It is purged here, before any
	// formatting or delivery work, so a failure later in the pipeline can
	// never leave a recording behind.
	s.purgeRecording(ctx, callSID, snap.RecordingSID)

	if _, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		if cs.IsTerminal() {
			return usecaseErrors.ErrSessionTerminal
		}
		cs.MarkFormatting()
		return nil
	}); err != nil {
		return err
	}

	formatted, unformatted := s.format(ctx, rawText, snap.FormatKind)

	transcript, err := s.store.Create(ctx, rawText, formatted, snap.FormatKind, unformatted)
	if err != nil {
		s.failSession(ctx, callSID, entities.OutcomeFailed, "transcript_store_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	if _, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		if cs.IsTerminal() {
			return usecaseErrors.ErrSessionTerminal
		}
		cs.MarkDelivering(transcript.ID.String(), transcript.AccessToken, unformatted)
		return nil
	}); err != nil {
		return err
	}

	summary := s.summarize(ctx, formatted)
	transcriptURL := s.opts.PublicBaseURL + "/transcript/" + transcript.AccessToken
	body := notificationBody(summary, transcriptURL, transcript.ExpiresAt)

	if err := s.notify(ctx, callSID, snap.CallerNumber, body); err != nil && !errors.Is(err, usecaseErrors.ErrAlreadyNotified) {
		s.failSession(ctx, callSID, entities.OutcomeNotificationUndeliverable, "notification_undeliverable", map[string]interface{}{
			"error":         err.Error(),
			"transcript_id": transcript.ID.String(),
		})
		return fmt.Errorf("failed to notify caller: %w", err)
	}

	updated, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		if cs.IsTerminal() {
			return usecaseErrors.ErrSessionTerminal
		}
		cs.MarkComplete()
		return nil
	})
	if err != nil {
		return nil
	}

	if s.logger != nil {
		fields := []zap.Field{
			zap.String("call_sid", callSID),
			zap.String("provider", providerName),
			zap.String("transcript_id", transcript.ID.String()),
			zap.Bool("unformatted", unformatted),
		}
		if start, ok := jobcontext.GetJobStartTime(ctx); ok {
			fields = append(fields, zap.Duration("elapsed", time.Since(start)))
		}
		s.logger.Info("✅ Call complete, transcript delivered", fields...)
	}

	s.recordOutcome(ctx, updated, entities.OutcomeCompleted, map[string]interface{}{
		"provider":    providerName,
		"unformatted": unformatted,
	})
	s.registry.Evict(callSID)

	return nil
}

// retryPolicy builds the bounded retry schedule used by every stage.
func (s *Service) retryPolicy(ctx context.Context, maxAttempts uint64) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryBaseDelay
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx)
}

func (s *Service) fetchAudio(ctx context.Context, recordingURL string) ([]byte, error) {
	var audio []byte
	operation := func() error {
		data, err := s.audio.FetchRecording(ctx, recordingURL)
		if err != nil {
			if jobcontext.IsNonRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		audio = data
		return nil
	}

	if err := backoff.Retry(operation, s.retryPolicy(ctx, fetchAttempts)); err != nil {
		return nil, err
	}
	return audio, nil
}

// transcribe tries each provider in order until one produces text. Both the
// attempts per provider and the provider order are fixed, so the outcome for
// a given audio is deterministic.
func (s *Service) transcribe(ctx context.Context, audio []byte) (string, string, error) {
	var lastErr error
	for _, provider := range s.transcribers {
		text, err := s.transcribeWith(ctx, provider, audio)
		if err == nil {
			return text, provider.Name(), nil
		}
		lastErr = err
		if s.logger != nil {
			s.logger.Warn("⚠️ Transcription provider failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", "", fmt.Errorf("%w: %v", usecaseErrors.ErrAllProvidersFailed, lastErr)
}

func (s *Service) transcribeWith(ctx context.Context, provider Transcriber, audio []byte) (string, error) {
	var text string
	operation := func() error {
		result, err := provider.Transcribe(ctx, audio)
		if err != nil {
			if jobcontext.IsNonRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = strings.TrimSpace(result)
		if result == "" {
			// An empty result is a failure, not a message with no words.
			return usecaseErrors.ErrEmptyTranscription
		}
		text = result
		return nil
	}

	if err := backoff.Retry(operation, s.retryPolicy(ctx, transcribeAttempts)); err != nil {
		return "", err
	}
	return text, nil
}

// format rewrites the raw transcript into the requested shape. Formatting is
// not allowed to fail the call: when retries are exhausted the raw text
// ships, flagged unformatted.
func (s *Service) format(ctx context.Context, rawText string, kind entities.FormatKind) (string, bool) {
	var formatted string
	operation := func() error {
		result, err := s.formatter.FormatTranscript(ctx, rawText, string(kind))
		if err != nil {
			if jobcontext.IsNonRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if strings.TrimSpace(result) == "" {
			return usecaseErrors.ErrFormattingFailed
		}
		formatted = result
		return nil
	}

	if err := backoff.Retry(operation, s.retryPolicy(ctx, formatAttempts)); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Formatting failed, delivering raw transcript",
				zap.String("format_kind", string(kind)),
				zap.Error(err),
			)
		}
		return rawText, true
	}
	return formatted, false
}

// summarize produces the SMS preview, degrading to plain truncation when the
// provider call fails. The preview is cosmetic and never fails the call.
func (s *Service) summarize(ctx context.Context, text string) string {
	summary, err := s.formatter.Summarize(ctx, text, s.opts.SummaryMaxChars)
	if err == nil && strings.TrimSpace(summary) != "" {
		return summary
	}
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Summary generation failed, truncating instead",
			zap.Error(err),
		)
	}

	runes := []rune(text)
	if len(runes) <= s.opts.SummaryMaxChars {
		return text
	}
	return string(runes[:s.opts.SummaryMaxChars-3]) + "..."
}

// purgeRecording deletes the provider-side audio and drops the session's
// reference to it. Provider deletion is best effort; the local reference is
// always cleared.
func (s *Service) purgeRecording(ctx context.Context, callSID, recordingSID string) {
	if recordingSID != "" {
		if err := s.audio.DeleteRecording(ctx, recordingSID); err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to delete recording from provider",
					zap.String("call_sid", callSID),
					zap.String("recording_sid", recordingSID),
					zap.Error(err),
				)
			}
		}
	}

	if _, err := s.registry.Update(callSID, func(cs *entities.CallSession) error {
		cs.ClearRecording()
		return nil
	}); err == nil && s.logger != nil {
		s.logger.Info("🧹 Recording purged",
			zap.String("call_sid", callSID),
		)
	}
}

// notify sends the SMS at most once per call. The delivery flag is claimed
// before the first attempt and never released: a send that errored may still
// have left the provider, and a duplicate text is the worse failure.
func (s *Service) notify(ctx context.Context, callSID, to, body string) error {
	guardKey := "sms_sent:" + callSID
	claimed, err := s.guard.SetNX(ctx, guardKey, time.Now().UTC().Format(time.RFC3339), s.opts.GuardTTL)
	if err != nil {
		return fmt.Errorf("delivery guard unavailable: %w", err)
	}
	if !claimed {
		if s.logger != nil {
			s.logger.Info("⏭️ Notification already sent, skipping",
				zap.String("call_sid", callSID),
			)
		}
		return usecaseErrors.ErrAlreadyNotified
	}

	var lastErr error
	for attempt := 0; attempt < notifyAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", usecaseErrors.ErrNotificationFailed, ctx.Err())
			case <-time.After(jobcontext.CalculateBackoff(attempt-1, s.retryBaseDelay)):
			}
		}

		msg, err := s.messenger.SendSMS(ctx, to, body)
		if err == nil {
			if s.logger != nil {
				s.logger.Info("📤 Notification sent",
					zap.String("call_sid", callSID),
					zap.String("message_sid", msg.SID),
				)
			}
			return nil
		}
		lastErr = err
		if s.logger != nil {
			s.logger.Warn("⚠️ Notification attempt failed",
				zap.String("call_sid", callSID),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		}
		if jobcontext.IsNonRetryableError(err) {
			break
		}
	}

	return fmt.Errorf("%w: %v", usecaseErrors.ErrNotificationFailed, lastErr)
}
