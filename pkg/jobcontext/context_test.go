package jobcontext

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJobBeginMetadata(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "CA123", "process_recording")
	defer cancel()

	callSID, ok := GetCallSID(ctx)
	if !ok || callSID != "CA123" {
		t.Fatalf("expected call SID CA123, got %q (ok=%v)", callSID, ok)
	}

	stage, ok := GetStage(ctx)
	if !ok || stage != "process_recording" {
		t.Fatalf("expected stage process_recording, got %q (ok=%v)", stage, ok)
	}

	if got := GetMaxRetries(ctx); got != 1 {
		t.Fatalf("expected default max retries 1, got %d", got)
	}

	meta := GetJobMetadata(ctx)
	if meta.CallSID != "CA123" || meta.Stage != "process_recording" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.StartTime.IsZero() {
		t.Fatal("expected start time to be set")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		t.Fatal("expected context to carry a deadline")
	}
}

func TestJobEndSuccess(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "CA123", "test")
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one invocation, got %d", calls)
	}
}

func TestJobEndNonRetryableReturnsImmediately(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "CA123", "test")
	defer cancel()
	ctx = SetMaxRetries(ctx, 3)

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("validation failed: bad payload")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "non-retryable") {
		t.Fatalf("expected non-retryable wrapping, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one invocation, got %d", calls)
	}
}

func TestJobEndRecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "CA123", "test")
	defer cancel()

	err := JobEnd(ctx, func(ctx context.Context) error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected panic to surface as error")
	}
	if !strings.Contains(err.Error(), "panic recovered") {
		t.Fatalf("expected panic recovery wrapping, got %v", err)
	}
}

func TestJobEndSingleAttemptExhaustion(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "CA123", "test")
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "max retries (1) exceeded") {
		t.Fatalf("expected exhaustion wrapping, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one invocation with default retries, got %d", calls)
	}
}

func TestJobEndCancelledContext(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "CA123", "test")
	cancel()

	calls := 0
	err := JobEnd(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if calls != 0 {
		t.Fatalf("expected task to be skipped, got %d invocations", calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("connection refused"), true},
		{errors.New("i/o timeout"), true},
		{errors.New("openai returned status 503"), true},
		{errors.New("too many requests"), true},
		{errors.New("deadlock detected"), true},
		{errors.New("twilio error 21211: invalid To number"), false},
		{errors.New("empty transcription from openai"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsNonRetryableError(t *testing.T) {
	if !IsNonRetryableError(errors.New("twilio error 400: bad request")) {
		t.Fatal("expected 400 to be non-retryable")
	}
	if IsNonRetryableError(errors.New("service unavailable")) {
		t.Fatal("expected 5xx to not be flagged non-retryable")
	}
}

func TestCalculateBackoff(t *testing.T) {
	if got := CalculateBackoff(0, 5*time.Second); got != 5*time.Second {
		t.Fatalf("attempt 0: got %v", got)
	}
	if got := CalculateBackoff(2, 5*time.Second); got != 20*time.Second {
		t.Fatalf("attempt 2: got %v", got)
	}
	if got := CalculateBackoff(10, 5*time.Second); got != 60*time.Second {
		t.Fatalf("expected cap at 60s, got %v", got)
	}
	if got := CalculateBackoff(-3, time.Second); got != time.Second {
		t.Fatalf("negative attempt: got %v", got)
	}
}
