package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/errors"
	webhookDTO "github.com/alexdong/TranscribeMe/internal/adapter/dto/webhook"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
	"github.com/alexdong/TranscribeMe/pkg/twilio"
)

// verifySignature checks X-Twilio-Signature against the public URL of the
// request. The public base URL is used instead of the Host header because
// the service runs behind a proxy whose internal host Twilio never signed.
func (h *TwilioWebhookHandler) verifySignature(c echo.Context) error {
	if !h.validateSignatures {
		return nil
	}

	req := c.Request()
	if err := req.ParseForm(); err != nil {
		return errors.ErrInvalidPayload()
	}

	requestURL := strings.TrimRight(h.publicBaseURL, "/") + req.URL.RequestURI()
	signature := req.Header.Get("X-Twilio-Signature")
	if !twilio.ValidateSignature(h.authToken, requestURL, req.PostForm, signature) {
		if h.logger != nil {
			h.logger.Warn("⚠️ Webhook signature rejected",
				zap.String("path", c.Path()),
				zap.Bool("signature_present", signature != ""),
			)
		}
		return errors.ErrSignatureInvalid()
	}

	return nil
}

// HandleVoice answers Twilio's inbound call webhook with TwiML
// @Summary      Voice webhook
// @Description  Answers an inbound call with TwiML that records a message, or plays a rejection notice for callers outside the allowed numbering plan
// @Tags         Webhooks
// @Accept       x-www-form-urlencoded
// @Produce      xml
// @Param        CallSid     formData  string  true   "Twilio call identifier"
// @Param        From        formData  string  true   "Caller number in E.164 form"
// @Param        To          formData  string  true   "Service number dialled"
// @Param        CallStatus  formData  string  true   "Twilio call status"
// @Success      200  {string}  string  "TwiML document"
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /webhook/voice [post]
func (h *TwilioWebhookHandler) HandleVoice(c echo.Context) error {
	if err := h.verifySignature(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	var req webhookDTO.VoiceWebhookRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.logger != nil {
		h.logger.Info("📞 Voice webhook",
			zap.String("call_sid", req.CallSid),
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.String("call_status", req.CallStatus),
		)
	}

	twiml, err := h.pipeline.HandleInboundCall(c.Request().Context(), req.CallSid, req.From, req.To)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}

	return c.Blob(http.StatusOK, "application/xml", []byte(twiml))
}

// HandleRecording processes the <Record> action callback and kicks off
// transcription
// @Summary      Recording webhook
// @Description  Accepts the completed-recording callback and starts asynchronous transcription and delivery. Replayed callbacks are acknowledged without effect.
// @Tags         Webhooks
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        CallSid            formData  string  true   "Twilio call identifier"
// @Param        RecordingSid       formData  string  false  "Twilio recording identifier"
// @Param        RecordingUrl       formData  string  false  "URL of the recorded audio"
// @Param        RecordingDuration  formData  string  false  "Recording length in seconds"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /webhook/recording [post]
func (h *TwilioWebhookHandler) HandleRecording(c echo.Context) error {
	if err := h.verifySignature(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	var req webhookDTO.RecordingWebhookRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	duration, _ := strconv.Atoi(req.RecordingDuration)

	if h.logger != nil {
		h.logger.Info("🎙️ Recording webhook",
			zap.String("call_sid", req.CallSid),
			zap.String("recording_sid", req.RecordingSid),
			zap.Int("duration_seconds", duration),
		)
	}

	err := h.pipeline.HandleRecordingReady(c.Request().Context(), req.CallSid, req.RecordingSid, req.RecordingUrl, duration)
	switch {
	case err == nil:
		return HandleSuccess(h.logger, c, map[string]interface{}{"status": "received"})
	case stdErrors.Is(err, usecaseErrors.ErrNoRecording):
		return HandleError(h.logger, c, errors.ErrMissingRecordingURL())
	case stdErrors.Is(err, usecaseErrors.ErrDuplicateCallback),
		stdErrors.Is(err, usecaseErrors.ErrSessionTerminal),
		stdErrors.Is(err, usecaseErrors.ErrUnknownSession):
		// Acked so Twilio does not retry; the pipeline already logged it.
		return HandleSuccess(h.logger, c, map[string]interface{}{"status": "received"})
	default:
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}
}

// HandleRecordingStatus processes recordingStatusCallback lifecycle events
// @Summary      Recording status webhook
// @Description  Consumes recording lifecycle events. A failed or absent recording fails the call; everything else is acknowledged and ignored.
// @Tags         Webhooks
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        CallSid          formData  string  true   "Twilio call identifier"
// @Param        RecordingSid     formData  string  false  "Twilio recording identifier"
// @Param        RecordingStatus  formData  string  false  "Recording lifecycle status"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /webhook/recording-status [post]
func (h *TwilioWebhookHandler) HandleRecordingStatus(c echo.Context) error {
	if err := h.verifySignature(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	var req webhookDTO.RecordingStatusRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	if h.logger != nil {
		h.logger.Info("📼 Recording status webhook",
			zap.String("call_sid", req.CallSid),
			zap.String("recording_sid", req.RecordingSid),
			zap.String("recording_status", req.RecordingStatus),
		)
	}

	err := h.pipeline.HandleRecordingStatus(c.Request().Context(), req.CallSid, req.RecordingSid, req.RecordingStatus)
	if err != nil && !stdErrors.Is(err, usecaseErrors.ErrUnknownSession) {
		return HandleError(h.logger, c, errors.ErrProcessingFailed(err))
	}

	return HandleSuccess(h.logger, c, map[string]interface{}{"status": "received"})
}
