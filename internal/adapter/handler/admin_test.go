package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/alexdong/TranscribeMe/internal/domain/entities"
)

func sampleOutcome(callSID string, outcome entities.Outcome) *entities.CallOutcome {
	return &entities.CallOutcome{
		ID:              uuid.New(),
		CallSID:         callSID,
		CallerNumber:    "+6421555001",
		Outcome:         outcome,
		DurationSeconds: 30,
		Details:         datatypes.NewJSONType(map[string]interface{}{"provider": "openai-whisper"}),
		CreatedAt:       time.Now().UTC(),
	}
}

func TestAdminListCalls(t *testing.T) {
	pipeline := &fakePipeline{
		outcomes: []*entities.CallOutcome{
			sampleOutcome("CA200", entities.OutcomeCompleted),
			sampleOutcome("CA100", entities.OutcomeRejected),
		},
		active: 3,
	}
	e := setupEcho(t, pipeline, nil, "", false)

	rec := getPath(e, "/v1/admin/calls")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Calls []struct {
				CallSid string `json:"call_sid"`
				Outcome string `json:"outcome"`
			} `json:"calls"`
			Count          int `json:"count"`
			ActiveSessions int `json:"active_sessions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal listing: %v", err)
	}

	if resp.Data.Count != 2 || len(resp.Data.Calls) != 2 {
		t.Fatalf("count = %d with %d calls, want 2", resp.Data.Count, len(resp.Data.Calls))
	}
	if resp.Data.Calls[0].CallSid != "CA200" || resp.Data.Calls[0].Outcome != "completed" {
		t.Fatalf("first call = %+v, want CA200 completed", resp.Data.Calls[0])
	}
	if resp.Data.ActiveSessions != 3 {
		t.Fatalf("active sessions = %d, want 3", resp.Data.ActiveSessions)
	}
}

func TestAdminListCallsLimit(t *testing.T) {
	pipeline := &fakePipeline{
		outcomes: []*entities.CallOutcome{
			sampleOutcome("CA300", entities.OutcomeCompleted),
			sampleOutcome("CA200", entities.OutcomeCompleted),
			sampleOutcome("CA100", entities.OutcomeCompleted),
		},
	}
	e := setupEcho(t, pipeline, nil, "", false)

	rec := getPath(e, "/v1/admin/calls?limit=2")

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal listing: %v", err)
	}
	if resp.Data.Count != 2 {
		t.Fatalf("count = %d, want the limit applied", resp.Data.Count)
	}
}

func TestAdminListCallsRejectsBadLimit(t *testing.T) {
	e := setupEcho(t, &fakePipeline{}, nil, "", false)

	for _, q := range []string{"limit=abc", "limit=0", "limit=-5", "limit=9999"} {
		rec := getPath(e, "/v1/admin/calls?"+q)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}
