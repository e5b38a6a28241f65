package twilio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(&Config{
		AccountSID:  "AC00000000000000000000000000000000",
		AuthToken:   "test-token",
		PhoneNumber: "+6421000000",
		BaseURL:     baseURL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestSendSMS(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/Accounts/AC00000000000000000000000000000000/Messages.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC00000000000000000000000000000000" || pass != "test-token" {
			t.Fatalf("expected basic auth with account credentials")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("To"); got != "+64211234567" {
			t.Fatalf("unexpected To %q", got)
		}
		if got := r.PostForm.Get("From"); got != "+6421000000" {
			t.Fatalf("unexpected From %q", got)
		}
		if got := r.PostForm.Get("Body"); got == "" {
			t.Fatalf("expected non-empty Body")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Message{
			SID:    "SM123",
			To:     r.PostForm.Get("To"),
			Status: "queued",
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	msg, err := client.SendSMS(context.Background(), "+64211234567", "Your transcript is ready!")
	if err != nil {
		t.Fatalf("SendSMS failed: %v", err)
	}
	if msg.SID != "SM123" {
		t.Fatalf("unexpected message sid %s", msg.SID)
	}
}

func TestSendSMSAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(Error{
			Code:    21211,
			Message: "Invalid 'To' Phone Number",
			Status:  400,
		})
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	_, err := client.SendSMS(context.Background(), "not-a-number", "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error got %T", err)
	}
	if apiErr.Code != 21211 {
		t.Fatalf("unexpected error code %d", apiErr.Code)
	}
}

func TestFetchRecording(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Recordings/RE123.mp3" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); !ok {
			t.Fatalf("expected basic auth on recording download")
		}
		_, _ = w.Write(audio)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	got, err := client.FetchRecording(context.Background(), ts.URL+"/Recordings/RE123")
	if err != nil {
		t.Fatalf("FetchRecording failed: %v", err)
	}
	if string(got) != string(audio) {
		t.Fatalf("unexpected audio bytes: %q", got)
	}
}

func TestFetchRecordingEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	if _, err := client.FetchRecording(context.Background(), ts.URL+"/Recordings/RE123"); err == nil {
		t.Fatalf("expected error for empty recording body")
	}
}

func TestDeleteRecording(t *testing.T) {
	var deleted bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("expected DELETE got %s", r.Method)
		}
		if r.URL.Path != "/Accounts/AC00000000000000000000000000000000/Recordings/RE123.json" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := newTestClient(t, ts.URL)
	if err := client.DeleteRecording(context.Background(), "RE123"); err != nil {
		t.Fatalf("DeleteRecording failed: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete request to reach the server")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")

	if _, err := New(&Config{}); err == nil {
		t.Fatalf("expected error without credentials")
	}
}
