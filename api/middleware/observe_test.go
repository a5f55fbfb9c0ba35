package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegthaliclub/catering-backend/api/responses"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

func TestRequestIDEchoesValidHeader(t *testing.T) {
	var seen string
	h := RequestID(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set(RequestIDHeader, "edge-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "edge-42", seen)
	assert.Equal(t, "edge-42", rec.Header().Get(RequestIDHeader))
}

func TestRequestIDReplacesUnsafeHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/data", nil)
	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	rec := httptest.NewRecorder()
	RequestID(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	got := rec.Header().Get(RequestIDHeader)
	assert.NotEqual(t, "bad id\nwith newline", got)
	assert.Len(t, got, 36)
}

func TestLoggingRecordsStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf, Format: logger.FormatJSON})
	h := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/contact", nil))

	line := buf.String()
	assert.Contains(t, line, `"status":202`)
	assert.Contains(t, line, `"bytes":2`)
	assert.Contains(t, line, `"path":"/api/contact"`)
}

func TestLoggingQuietsHealthProbes(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("info"), Output: buf, Format: logger.FormatJSON})
	h := Logging(logg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Zero(t, buf.Len())
}

func TestRecovererWritesInternalEnvelope(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("thali overflow")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/order", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body responses.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	assert.False(t, strings.Contains(body.Error.Message, "thali"))
}

func TestRecovererReraisesAbort(t *testing.T) {
	h := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
