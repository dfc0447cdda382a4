package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"buffet/internal/scheduling"
	"buffet/pkg/client"
	"buffet/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxy(t *testing.T, upstream http.HandlerFunc, token string) (*httprouter.Router, string) {
	t.Helper()
	srv := httptest.NewTLSServer(upstream)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	hc := client.NewHttpClient(time.Second, 0)
	hc.HTTPClient = srv.Client()
	c := scheduling.NewClient(hc, token, []string{u.Hostname()}, logger.Discard())

	router := httprouter.New()
	router.HandleOPTIONS = false
	NewProxyHandler(c, "*", logger.Discard()).RegisterRoutes(router)
	return router, srv.URL
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, ProxyPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProxy_Preflight(t *testing.T) {
	router, _ := newProxy(t, func(w http.ResponseWriter, r *http.Request) {}, "token")

	req := httptest.NewRequest(http.MethodOptions, ProxyPath, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "x-client-info")
}

func TestProxy_MissingEventURI(t *testing.T) {
	router, _ := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	}, "token")

	rec := post(router, `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "eventUri is required"}, decode(t, rec))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestProxy_Success(t *testing.T) {
	router, base := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resource":{"uri":"u","name":"Buffet","start_time":"2026-10-24T16:00:00Z","end_time":"2026-10-24T17:00:00Z","status":"active","location":{"type":"physical"},"event_type":"ignored"}}`))
	}, "token")

	rec := post(router, `{"eventUri":"`+base+`/scheduled_events/ABC"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Buffet", body["name"])
	assert.Equal(t, "2026-10-24T16:00:00Z", body["start_time"])
	assert.Equal(t, map[string]any{"type": "physical"}, body["location"])
	assert.NotContains(t, body, "event_type")
	for _, key := range []string{"uri", "name", "start_time", "end_time", "status"} {
		assert.Contains(t, body, key)
	}
}

func TestProxy_UpstreamStatusPassedThrough(t *testing.T) {
	router, base := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("token revoked"))
	}, "token")

	rec := post(router, `{"eventUri":"`+base+`/scheduled_events/ABC"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "token revoked", body["details"])
	assert.Equal(t, float64(http.StatusForbidden), body["status"])
}

func TestProxy_UnexpectedErrors(t *testing.T) {
	router, base := newProxy(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, "token")

	rec := post(router, `{"eventUri":`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])

	rec = post(router, `{"eventUri":"`+base+`/scheduled_events/ABC"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "failed to decode event")
}

func TestProxy_NotConfiguredAndForeignHost(t *testing.T) {
	router, _ := newProxy(t, func(w http.ResponseWriter, r *http.Request) {}, "")
	rec := post(router, `{"eventUri":"https://api.calendly.com/scheduled_events/ABC"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "scheduling API not configured", decode(t, rec)["error"])

	router, _ = newProxy(t, func(w http.ResponseWriter, r *http.Request) {}, "token")
	rec = post(router, `{"eventUri":"https://metadata.internal/latest"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
