package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sevennguyen07/task-management/internal/pkg/apperr"
)

func recordError(s *Server, err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/boom", nil)
	s.respondError(c, err)
	return w
}

func TestRespondError_OperationalKeepsMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestServer()
	s.cfg.App.Env = "production"

	w := recordError(s, apperr.NotFound("Not found."))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not found.") {
		t.Fatalf("operational message must survive production, got %s", w.Body.String())
	}
}

func TestRespondError_ProductionMasksInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestServer()
	s.cfg.App.Env = "production"

	w := recordError(s, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Something went wrong!") {
		t.Fatalf("expected masked message, got %s", body)
	}
	if strings.Contains(body, "10.0.0.1") {
		t.Fatalf("production response leaks internals: %s", body)
	}
	if strings.Contains(body, "stack") {
		t.Fatalf("production response must omit stack, got %s", body)
	}
}

func TestRespondError_DevelopmentExposesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestServer()
	s.cfg.App.Env = "development"

	w := recordError(s, errors.New("table users has no column nickname"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "no column nickname") {
		t.Fatalf("development response should expose detail, got %s", body)
	}
	if !strings.Contains(body, "stack") {
		t.Fatalf("development response should include stack, got %s", body)
	}
}

func TestRespondError_LogsUnexpected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf strings.Builder
	s := newTestServer()
	s.logger = slog.New(slog.NewTextHandler(&buf, nil))

	recordError(s, errors.New("unexpected boom"))

	if !strings.Contains(buf.String(), "unexpected boom") {
		t.Fatalf("expected error to be logged, got %s", buf.String())
	}
}

func TestRespondError_SkipsLoggingOperational(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf strings.Builder
	s := newTestServer()
	s.logger = slog.New(slog.NewTextHandler(&buf, nil))

	recordError(s, apperr.Unauthorized("Incorrect email or password"))

	if buf.Len() != 0 {
		t.Fatalf("operational errors must not be logged, got %s", buf.String())
	}
}
