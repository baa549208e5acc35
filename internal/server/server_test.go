package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/ticket2task/internal/compile"
	"github.com/dt-pm-tools/ticket2task/internal/rules"
	"github.com/dt-pm-tools/ticket2task/internal/todoist"
)

const testAPIKey = "secret"

// fakeSink records calls instead of talking to Todoist.
type fakeSink struct {
	created []compile.Task
	updated map[string]compile.Task
	listed  []todoist.RemoteTask
	err     error
}

func (f *fakeSink) CreateTask(_ context.Context, task compile.Task) (*todoist.RemoteTask, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, task)
	return &todoist.RemoteTask{ID: "123", Content: task.Content}, nil
}

func (f *fakeSink) UpdateTask(_ context.Context, id string, task compile.Task) error {
	if f.err != nil {
		return f.err
	}
	if f.updated == nil {
		f.updated = map[string]compile.Task{}
	}
	f.updated[id] = task
	return nil
}

func (f *fakeSink) ListTasks(_ context.Context) ([]todoist.RemoteTask, error) {
	return f.listed, f.err
}

func testRouter(sink *fakeSink) *gin.Engine {
	gin.SetMode(gin.TestMode)
	compiler := compile.New(rules.Default, "https://tracker.example.com", nil)
	compiler.Now = func() time.Time { return time.Date(2026, time.January, 7, 12, 0, 0, 0, time.UTC) }
	return New(compiler, sink, testAPIKey).Router()
}

func perform(t *testing.T, router *gin.Engine, method, path, apiKey, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLivenessNeedsNoKey(t *testing.T) {
	w := perform(t, testRouter(&fakeSink{}), "GET", "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingAPIKeyIsForbidden(t *testing.T) {
	router := testRouter(&fakeSink{})

	for _, tc := range []struct{ method, path string }{
		{"POST", "/add_task"},
		{"POST", "/update_task"},
		{"GET", "/list_tasks"},
		{"POST", "/compile"},
	} {
		w := perform(t, router, tc.method, tc.path, "", "{}")
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"detail":"Forbidden"}`, w.Body.String())
	}

	w := perform(t, router, "GET", "/list_tasks", "wrong-key", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddTask(t *testing.T) {
	sink := &fakeSink{}
	w := perform(t, testRouter(sink), "POST", "/add_task", testAPIKey,
		`{"task_name":"Buy milk","due_date":"2026-01-09"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sink.created, 1)
	assert.Equal(t, "Buy milk", sink.created[0].Content)
	assert.Equal(t, "2026-01-09", sink.created[0].DueDate)
}

func TestAddTaskRequiresName(t *testing.T) {
	w := perform(t, testRouter(&fakeSink{}), "POST", "/add_task", testAPIKey, `{"due_date":"2026-01-09"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTaskRequiresChanges(t *testing.T) {
	w := perform(t, testRouter(&fakeSink{}), "POST", "/update_task", testAPIKey, `{"task_id":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No updates provided")
}

func TestUpdateTask(t *testing.T) {
	sink := &fakeSink{}
	w := perform(t, testRouter(sink), "POST", "/update_task", testAPIKey,
		`{"task_id":"123","task_name":"Renamed"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", sink.updated["123"].Content)
}

func TestListTasks(t *testing.T) {
	sink := &fakeSink{listed: []todoist.RemoteTask{{ID: "1", Content: "a"}}}
	w := perform(t, testRouter(sink), "GET", "/list_tasks", testAPIKey, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var tasks []todoist.RemoteTask
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].Content)
}

func TestCompileEndpoint(t *testing.T) {
	w := perform(t, testRouter(&fakeSink{}), "POST", "/compile", testAPIKey,
		`<ticket><key>TF-100</key><summary>Crash on save</summary><priority>P1</priority></ticket>`)

	assert.Equal(t, http.StatusOK, w.Code)
	var task compile.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	assert.Equal(t, "Crash on save", task.Content)
	assert.Equal(t, 4, task.Priority)
	assert.Equal(t, "2026-01-09", task.DueDate)
}

func TestCompileEndpointMalformedXML(t *testing.T) {
	w := perform(t, testRouter(&fakeSink{}), "POST", "/compile", testAPIKey, `<ticket><summary>Crash`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompileEndpointPush(t *testing.T) {
	sink := &fakeSink{}
	w := perform(t, testRouter(sink), "POST", "/compile?push=true", testAPIKey,
		`<ticket><summary>Crash on save</summary></ticket>`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sink.created, 1)
	assert.Equal(t, "Crash on save", sink.created[0].Content)
	assert.Contains(t, w.Body.String(), `"id":"123"`)
}

func TestSinkFailureIsBadGateway(t *testing.T) {
	sink := &fakeSink{err: assert.AnError}
	w := perform(t, testRouter(sink), "POST", "/add_task", testAPIKey, `{"task_name":"x"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
