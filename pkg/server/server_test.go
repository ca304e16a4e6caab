package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstack/echo/v4"

	"github.com/keithyt06/strands-agents-go/pkg/agent"
	"github.com/keithyt06/strands-agents-go/pkg/observability"
)

type stubInvoker struct {
	resp agent.Response
	err  error
	last agent.Request
}

func (s *stubInvoker) Invoke(_ context.Context, req agent.Request) (agent.Response, error) {
	s.last = req
	if s.err != nil {
		return agent.Response{}, s.err
	}
	return s.resp, nil
}

func newTestServer(inner *stubInvoker) (*Server, *observability.MetricsInterceptor) {
	metrics := observability.NewMetricsInterceptor(inner)
	return New(metrics, metrics, nil), metrics
}

func TestInvokeReturnsAgentReply(t *testing.T) {
	inner := &stubInvoker{resp: agent.Response{
		Content:   "72°F, Partly Cloudy",
		ToolCalls: []agent.ToolCall{{Name: "weather"}},
	}}
	srv, _ := newTestServer(inner)
	e := srv.NewEcho()

	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"message":"weather in new york","session_id":"s1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp invokeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "72°F, Partly Cloudy", resp.Message)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, 1, resp.ToolCalls)
	assert.Equal(t, "s1", inner.last.SessionID)
}

func TestInvokeGeneratesSessionID(t *testing.T) {
	inner := &stubInvoker{resp: agent.Response{Content: "hi"}}
	srv, _ := newTestServer(inner)
	e := srv.NewEcho()

	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp invokeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestInvokeRejectsEmptyMessage(t *testing.T) {
	srv, _ := newTestServer(&stubInvoker{resp: agent.Response{Content: "hi"}})
	e := srv.NewEcho()

	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"message":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no message provided")
}

func TestInvokeMapsDownstreamFailureTo500(t *testing.T) {
	inner := &stubInvoker{err: errors.New("model exploded")}
	srv, metrics := newTestServer(inner)
	e := srv.NewEcho()

	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "model exploded")

	summary := metrics.Summary()
	assert.EqualValues(t, 1, summary.TotalCalls)
	assert.EqualValues(t, 1, summary.TotalErrors)
}

func TestMetricsEndpointReportsSummary(t *testing.T) {
	inner := &stubInvoker{resp: agent.Response{
		Content:   "4",
		ToolCalls: []agent.ToolCall{{Name: "calculator"}},
	}}
	srv, _ := newTestServer(inner)
	e := srv.NewEcho()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"message":"2 + 2"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary observability.MetricsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.EqualValues(t, 3, summary.TotalCalls)
	assert.EqualValues(t, 3, summary.TotalToolCalls)
	assert.EqualValues(t, 3, summary.ToolUsage["calculator"])
	assert.Zero(t, summary.ErrorRate)
}

