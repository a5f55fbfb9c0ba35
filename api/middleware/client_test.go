package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureClient(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	h := RequestID(nil)(ClientID(true, nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = ClientIDFromContext(r.Context())
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestClientIDIssuesCookieForNewClient(t *testing.T) {
	id, rec := captureClient(t, httptest.NewRequest(http.MethodGet, "/api/v1/order", nil))

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Header().Get(ClientIDHeader))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestClientIDReusesHeaderAndCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/order", nil)
	req.Header.Set(ClientIDHeader, "tab-1")
	id, rec := captureClient(t, req)
	assert.Equal(t, "tab-1", id)
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/order", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "cookie-client"})
	id, _ = captureClient(t, req)
	assert.Equal(t, "cookie-client", id)
}

func TestClientIDReplacesInvalidValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/order", nil)
	req.Header.Set(ClientIDHeader, "../../etc")
	id, _ := captureClient(t, req)
	assert.NotEqual(t, "../../etc", id)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}
