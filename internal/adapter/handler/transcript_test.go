package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
	usecaseErrors "github.com/alexdong/TranscribeMe/internal/usecase/errors"
)

type fakeTranscriptStore struct {
	transcripts map[string]*entities.Transcript
}

func (f *fakeTranscriptStore) Read(ctx context.Context, token string) (*entities.Transcript, error) {
	if t, ok := f.transcripts[token]; ok {
		return t, nil
	}
	return nil, usecaseErrors.ErrTranscriptNotFound
}

func getPath(e http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func storedTranscript(token, content string) *entities.Transcript {
	created := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	return &entities.Transcript{
		ID:            uuid.New(),
		AccessToken:   token,
		RawText:       content,
		FormattedText: content,
		FormatKind:    entities.FormatKindNotes,
		CreatedAt:     created,
		ExpiresAt:     created.AddDate(0, 0, 7),
	}
}

func TestTranscriptPageRendersContent(t *testing.T) {
	store := &fakeTranscriptStore{transcripts: map[string]*entities.Transcript{
		"tok123": storedTranscript("tok123", "- buy milk\n- call dave"),
	}}
	e := setupEcho(t, &fakePipeline{}, store, "", false)

	rec := getPath(e, "/transcript/tok123")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q, want text/html", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"TranscribeMe",
		"- buy milk",
		"<strong>Format:</strong> notes",
		"<strong>Created:</strong> 2025-11-03 09:30 UTC",
		"<strong>Expires:</strong> 2025-11-10 09:30 UTC",
		"copyToClipboard",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q:\n%s", want, body)
		}
	}
}

func TestTranscriptPageEscapesContent(t *testing.T) {
	store := &fakeTranscriptStore{transcripts: map[string]*entities.Transcript{
		"tok123": storedTranscript("tok123", "note with <script>alert(1)</script> inside"),
	}}
	e := setupEcho(t, &fakePipeline{}, store, "", false)

	rec := getPath(e, "/transcript/tok123")

	body := rec.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatalf("transcript content rendered unescaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("expected escaped markup in page:\n%s", body)
	}
}

func TestTranscriptPageUnknownToken(t *testing.T) {
	store := &fakeTranscriptStore{transcripts: map[string]*entities.Transcript{}}
	e := setupEcho(t, &fakePipeline{}, store, "", false)

	rec := getPath(e, "/transcript/nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Transcript not found") {
		t.Fatalf("body = %q, want transcript not found message", rec.Body.String())
	}
}
