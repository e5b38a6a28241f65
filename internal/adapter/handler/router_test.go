package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"

	pkgvalidator "github.com/alexdong/TranscribeMe/pkg/validator"
)

func TestServiceInfo(t *testing.T) {
	e := setupEcho(t, &fakePipeline{}, nil, "", false)

	rec := getPath(e, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info struct {
		Service     string `json:"service"`
		Version     string `json:"version"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("unmarshal service info: %v", err)
	}
	if info.Service != "TranscribeMe" || info.Version != "0.1.0" {
		t.Fatalf("service info = %+v", info)
	}
	if info.PhoneNumber != "+6498870400" {
		t.Fatalf("phone number = %q, want the configured service number", info.PhoneNumber)
	}
}

func TestHealthCheck(t *testing.T) {
	e := setupEcho(t, &fakePipeline{}, nil, "", false)

	rec := getPath(e, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var health struct {
		Status      string `json:"status"`
		Environment string `json:"environment"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if health.Status != "healthy" || health.Environment != "test" {
		t.Fatalf("health = %+v", health)
	}
}

func TestRouterWithoutHandlersReturns501(t *testing.T) {
	e := echo.New()
	e.Validator = pkgvalidator.New()

	router := NewRouter(testConfig(), nil, nil, nil)
	router.Setup(e)

	rec := postForm(e, "/webhook/voice", url.Values{"CallSid": {"CA1"}}, nil)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501 without a webhook handler", rec.Code)
	}

	rec = getPath(e, "/transcript/tok")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501 without a transcript handler", rec.Code)
	}
}
