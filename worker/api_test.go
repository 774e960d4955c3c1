package worker

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApi(t *testing.T) (*Api, *httptest.Server) {
	t.Helper()

	w, err := New("vm1", 2, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(w.Close)

	a := NewApi("127.0.0.1", 0, w, zap.NewNop().Sugar())
	srv := httptest.NewServer(a.Router)
	t.Cleanup(srv.Close)

	return a, srv
}

func TestHealthHandler(t *testing.T) {

	_, srv := testApi(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestTaskHandler(t *testing.T) {

	_, srv := testApi(t)

	resp, err := http.Get(srv.URL + "/task/3")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))

	assert.Equal(t, "vm1", tr.Node)
	assert.Equal(t, 3, tr.Value)
	assert.Greater(t, tr.DurationMs, 0.0)
}

func TestTaskHandlerRejectsOutOfRange(t *testing.T) {

	_, srv := testApi(t)

	for _, path := range []string{"/task/0", "/task/11", "/task/abc"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)

		var er ErrResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, er.HTTPStatusCode)
		assert.NotEmpty(t, er.Message)
	}
}

func TestExecuteHandler(t *testing.T) {

	_, srv := testApi(t)

	resp, err := http.Post(srv.URL+"/execute", "application/json", strings.NewReader(`{"value":2}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tr TaskResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	assert.Equal(t, 2, tr.Value)
}

func TestExecuteHandlerRejectsBadBody(t *testing.T) {

	_, srv := testApi(t)

	resp, err := http.Post(srv.URL+"/execute", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatsHandler(t *testing.T) {

	a, srv := testApi(t)

	// Complete a task first so the counter has something to report.
	_, err := a.Worker.Execute(1)
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Running   int   `json:"running"`
		Completed int64 `json:"completed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))

	assert.Equal(t, int64(1), stats.Completed)
	assert.GreaterOrEqual(t, stats.Running, 0)
}
