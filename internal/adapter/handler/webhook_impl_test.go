package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
	"github.com/alexdong/TranscribeMe/pkg/config"
	"github.com/alexdong/TranscribeMe/pkg/twilio"
	pkgvalidator "github.com/alexdong/TranscribeMe/pkg/validator"
)

type inboundCall struct {
	callSID, from, to string
}

type recordingCall struct {
	callSID, recordingSID, recordingURL string
	durationSeconds                     int
}

type statusCall struct {
	callSID, recordingSID, status string
}

type fakePipeline struct {
	mu sync.Mutex

	twiml        string
	inboundErr   error
	recordingErr error
	statusErr    error
	outcomes     []*entities.CallOutcome
	outcomesErr  error
	active       int

	inbound    []inboundCall
	recordings []recordingCall
	statuses   []statusCall
}

func (f *fakePipeline) HandleInboundCall(ctx context.Context, callSID, from, to string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbound = append(f.inbound, inboundCall{callSID, from, to})
	if f.inboundErr != nil {
		return "", f.inboundErr
	}
	return f.twiml, nil
}

func (f *fakePipeline) HandleRecordingReady(ctx context.Context, callSID, recordingSID, recordingURL string, durationSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recordings = append(f.recordings, recordingCall{callSID, recordingSID, recordingURL, durationSeconds})
	return f.recordingErr
}

func (f *fakePipeline) HandleRecordingStatus(ctx context.Context, callSID, recordingSID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, statusCall{callSID, recordingSID, status})
	return f.statusErr
}

func (f *fakePipeline) RecentOutcomes(ctx context.Context, limit int) ([]*entities.CallOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcomesErr != nil {
		return nil, f.outcomesErr
	}
	if limit > len(f.outcomes) {
		limit = len(f.outcomes)
	}
	return f.outcomes[:limit], nil
}

func (f *fakePipeline) ActiveSessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakePipeline) inboundCalls() []inboundCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]inboundCall(nil), f.inbound...)
}

func (f *fakePipeline) recordingCalls() []recordingCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordingCall(nil), f.recordings...)
}

func (f *fakePipeline) statusCalls() []statusCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]statusCall(nil), f.statuses...)
}

const testBaseURL = "https://transcribe.example.com"

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.PublicBaseURL = testBaseURL
	cfg.Twilio.PhoneNumber = "+6498870400"
	return cfg
}

// setupEcho wires the full router so tests exercise real route registration.
func setupEcho(t *testing.T, pipeline PipelineService, store TranscriptReader, authToken string, validateSignatures bool) *echo.Echo {
	t.Helper()

	e := echo.New()
	e.Validator = pkgvalidator.New()

	webhookHandler := NewTwilioWebhookHandler(pipeline, authToken, testBaseURL, validateSignatures, nil)
	transcriptHandler := NewTranscriptHandler(store, nil)
	adminHandler := NewAdminHandler(pipeline, nil)

	router := NewRouter(testConfig(), webhookHandler, transcriptHandler, adminHandler)
	router.Setup(e)
	return e
}

func postForm(e *echo.Echo, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type ackResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func voiceForm(callSID string) url.Values {
	return url.Values{
		"CallSid":    {callSID},
		"From":       {"+6421555001"},
		"To":         {"+6498870400"},
		"CallStatus": {"ringing"},
	}
}

func TestVoiceWebhookReturnsTwiML(t *testing.T) {
	pipeline := &fakePipeline{twiml: `<?xml version="1.0" encoding="UTF-8"?>` + "\n<Response></Response>"}
	e := setupEcho(t, pipeline, nil, "", false)

	rec := postForm(e, "/webhook/voice", voiceForm("CA100"), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("content type = %q, want application/xml", ct)
	}
	if rec.Body.String() != pipeline.twiml {
		t.Fatalf("body = %q, want the pipeline's TwiML", rec.Body.String())
	}

	calls := pipeline.inboundCalls()
	if len(calls) != 1 {
		t.Fatalf("inbound calls = %d, want 1", len(calls))
	}
	if calls[0].callSID != "CA100" || calls[0].from != "+6421555001" || calls[0].to != "+6498870400" {
		t.Fatalf("unexpected inbound call: %+v", calls[0])
	}
}

func TestVoiceWebhookMissingCallSid(t *testing.T) {
	pipeline := &fakePipeline{twiml: "<Response></Response>"}
	e := setupEcho(t, pipeline, nil, "", false)

	form := voiceForm("CA100")
	form.Del("CallSid")
	rec := postForm(e, "/webhook/voice", form, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if calls := pipeline.inboundCalls(); len(calls) != 0 {
		t.Fatalf("pipeline called %d times for an invalid payload", len(calls))
	}
}

func TestRecordingWebhookStartsProcessing(t *testing.T) {
	pipeline := &fakePipeline{}
	e := setupEcho(t, pipeline, nil, "", false)

	form := url.Values{
		"CallSid":           {"CA100"},
		"RecordingSid":      {"RE1"},
		"RecordingUrl":      {"https://api.twilio.com/recordings/RE1"},
		"RecordingDuration": {"42"},
	}
	rec := postForm(e, "/webhook/recording", form, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp ackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal ack: %v", err)
	}
	if resp.Data["status"] != "received" {
		t.Fatalf("ack status = %v, want received", resp.Data["status"])
	}

	calls := pipeline.recordingCalls()
	if len(calls) != 1 {
		t.Fatalf("recording calls = %d, want 1", len(calls))
	}
	got := calls[0]
	if got.callSID != "CA100" || got.recordingSID != "RE1" || got.durationSeconds != 42 {
		t.Fatalf("unexpected recording call: %+v", got)
	}
	if got.recordingURL != "https://api.twilio.com/recordings/RE1" {
		t.Fatalf("recording URL = %q", got.recordingURL)
	}
}

func TestRecordingWebhookNonNumericDuration(t *testing.T) {
	pipeline := &fakePipeline{}
	e := setupEcho(t, pipeline, nil, "", false)

	form := url.Values{
		"CallSid":           {"CA100"},
		"RecordingUrl":      {"https://api.twilio.com/recordings/RE1"},
		"RecordingDuration": {"abc"},
	}
	rec := postForm(e, "/webhook/recording", form, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if calls := pipeline.recordingCalls(); calls[0].durationSeconds != 0 {
		t.Fatalf("duration = %d, want 0 for a malformed field", calls[0].durationSeconds)
	}
}

func TestRecordingWebhookDuplicateAcked(t *testing.T) {
	for _, sentinel := range []error{
		usecaseErrors.ErrDuplicateCallback,
		usecaseErrors.ErrSessionTerminal,
		usecaseErrors.ErrUnknownSession,
	} {
		pipeline := &fakePipeline{recordingErr: sentinel}
		e := setupEcho(t, pipeline, nil, "", false)

		form := url.Values{
			"CallSid":      {"CA100"},
			"RecordingUrl": {"https://api.twilio.com/recordings/RE1"},
		}
		rec := postForm(e, "/webhook/recording", form, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("%v: status = %d, want 200 ack", sentinel, rec.Code)
		}
	}
}

func TestRecordingWebhookMissingURL(t *testing.T) {
	pipeline := &fakePipeline{recordingErr: usecaseErrors.ErrNoRecording}
	e := setupEcho(t, pipeline, nil, "", false)

	rec := postForm(e, "/webhook/recording", url.Values{"CallSid": {"CA100"}}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Missing recording URL") {
		t.Fatalf("body = %q, want missing recording URL message", rec.Body.String())
	}
}

func TestRecordingWebhookInternalError(t *testing.T) {
	pipeline := &fakePipeline{recordingErr: context.DeadlineExceeded}
	e := setupEcho(t, pipeline, nil, "", false)

	rec := postForm(e, "/webhook/recording", url.Values{"CallSid": {"CA100"}, "RecordingUrl": {"https://api.twilio.com/recordings/RE1"}}, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRecordingStatusWebhook(t *testing.T) {
	pipeline := &fakePipeline{}
	e := setupEcho(t, pipeline, nil, "", false)

	form := url.Values{
		"CallSid":         {"CA100"},
		"RecordingSid":    {"RE1"},
		"RecordingStatus": {"failed"},
	}
	rec := postForm(e, "/webhook/recording-status", form, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	calls := pipeline.statusCalls()
	if len(calls) != 1 || calls[0].status != "failed" {
		t.Fatalf("unexpected status calls: %+v", calls)
	}
}

func TestRecordingStatusUnknownSessionAcked(t *testing.T) {
	pipeline := &fakePipeline{statusErr: usecaseErrors.ErrUnknownSession}
	e := setupEcho(t, pipeline, nil, "", false)

	form := url.Values{
		"CallSid":         {"CA999"},
		"RecordingStatus": {"failed"},
	}
	rec := postForm(e, "/webhook/recording-status", form, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 ack for an unknown session", rec.Code)
	}
}

func TestSignatureValidationAcceptsSignedRequest(t *testing.T) {
	pipeline := &fakePipeline{twiml: "<Response></Response>"}
	e := setupEcho(t, pipeline, nil, "secret75", true)

	form := voiceForm("CA100")
	signature := twilio.Sign("secret75", testBaseURL+"/webhook/voice", form)
	rec := postForm(e, "/webhook/voice", form, map[string]string{"X-Twilio-Signature": signature})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a correctly signed request: %s", rec.Code, rec.Body.String())
	}
}

func TestSignatureValidationRejectsUnsigned(t *testing.T) {
	pipeline := &fakePipeline{twiml: "<Response></Response>"}
	e := setupEcho(t, pipeline, nil, "secret75", true)

	rec := postForm(e, "/webhook/voice", voiceForm("CA100"), nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for an unsigned request", rec.Code)
	}
	if calls := pipeline.inboundCalls(); len(calls) != 0 {
		t.Fatalf("pipeline reached by an unsigned request")
	}
}

func TestSignatureValidationRejectsTamperedForm(t *testing.T) {
	pipeline := &fakePipeline{twiml: "<Response></Response>"}
	e := setupEcho(t, pipeline, nil, "secret75", true)

	form := voiceForm("CA100")
	signature := twilio.Sign("secret75", testBaseURL+"/webhook/voice", form)
	form.Set("From", "+15551230000")
	rec := postForm(e, "/webhook/voice", form, map[string]string{"X-Twilio-Signature": signature})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for a tampered form", rec.Code)
	}
}

func TestSignatureValidationDisabledSkipsCheck(t *testing.T) {
	pipeline := &fakePipeline{twiml: "<Response></Response>"}
	e := setupEcho(t, pipeline, nil, "secret75", false)

	rec := postForm(e, "/webhook/voice", voiceForm("CA100"), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when validation is disabled", rec.Code)
	}
}
