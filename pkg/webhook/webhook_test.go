package webhook_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BradA1878/model-exchange-framework-sub007/pkg/channel"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/dag"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/memstore"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/task"
	"github.com/BradA1878/model-exchange-framework-sub007/pkg/webhook"
)

func newTestServer(t *testing.T) (*webhook.Server, *channel.Channel) {
	t.Helper()

	channels := channel.NewChannelRepository()
	agents := channel.NewAgentRepository()
	taskRepo := task.NewRepository()
	engine := dag.NewEngine(taskRepo)
	tasks := task.NewService(taskRepo, engine)
	channelMem := memstore.NewChannelMemoryRepository()

	ch, err := channels.Create(*channel.New("incident-response"))
	require.NoError(t, err)

	return webhook.NewServer(channels, agents, tasks, channelMem, "mxfd-test"), &ch
}

func doJSON(t *testing.T, srv *webhook.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleTaskCreatesTaskForKnownChannel(t *testing.T) {
	srv, ch := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/task", map[string]any{
		"channelId":   ch.ID,
		"title":       "Investigate spike",
		"description": "CPU spike on host-12",
		"priority":    "high",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Success bool
		Task    struct {
			ID       string
			Title    string
			Priority string
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.True(t, decoded.Success)
	require.Equal(t, "Investigate spike", decoded.Task.Title)
	require.Equal(t, "high", decoded.Task.Priority)
}

func TestHandleTaskRejectsUnknownChannelWith404(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/task", map[string]any{
		"channelId": "does-not-exist",
		"title":     "Investigate spike",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)

	var decoded struct {
		Success bool
		Error   string
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.False(t, decoded.Success)
	require.Equal(t, "NotFound", decoded.Error)
}

func TestHandleTaskRejectsMissingTitleWith400(t *testing.T) {
	srv, ch := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/task", map[string]any{
		"channelId": ch.ID,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTaskBatchPreservesItemsVerbatimUnderMetadata(t *testing.T) {
	srv, ch := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/task/batch", map[string]any{
		"channelId":   ch.ID,
		"title":       "Batch import",
		"description": "import from n8n",
		"items":       []any{map[string]any{"sku": "A1"}, map[string]any{"sku": "A2"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Task struct {
			Metadata map[string]any
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	items, ok := decoded.Task.Metadata["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
}

func TestHandleEventRequiresChannelAndEventType(t *testing.T) {
	srv, ch := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/event", map[string]any{
		"channelId": ch.ID,
		"eventType": "deployment.completed",
		"data":      map[string]any{"version": "1.2.3"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/event", map[string]any{
		"channelId": ch.ID,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMessageAppendsToChannelConversation(t *testing.T) {
	srv, ch := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/webhooks/n8n/message", map[string]any{
		"channelId": ch.ID,
		"message":   "build finished",
	})

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleHealthReportsHealthy(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/n8n/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Success bool
		Status  string
		Service string
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.True(t, decoded.Success)
	require.Equal(t, "healthy", decoded.Status)
	require.Equal(t, "mxfd-test", decoded.Service)
}
