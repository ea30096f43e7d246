package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talkinghead/internal/domain/job"
)

func TestSubmitAccepted(t *testing.T) {
	var got submitRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/tasks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":   0,
			"taskId": "h1",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	res, err := client.Submit(context.Background(), "/audio/a1.wav", "/models/m1.mp4")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "h1", res.Handle)
	assert.Equal(t, "/audio/a1.wav", got.AudioPath)
	assert.Equal(t, "/models/m1.mp4", got.VideoPath)
	assert.NotEmpty(t, got.Code, "each submission carries a fresh task code")
}

func TestSubmitRejectedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    1,
			"message": "quota exceeded",
		})
	}))
	defer server.Close()

	res, err := NewClient(server.URL).Submit(context.Background(), "a", "v")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.Equal(t, "quota exceeded", res.Message)
	assert.Empty(t, res.Handle)
}

func TestSubmitTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Submit(context.Background(), "a", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad gateway")
}

func TestSubmitNotConfigured(t *testing.T) {
	_, err := NewClient("").Submit(context.Background(), "a", "v")
	assert.Error(t, err)
}

func TestPollMapsRemoteStates(t *testing.T) {
	cases := []struct {
		remote string
		want   job.RemoteState
	}{
		{"running", job.RemoteRunning},
		{"queued", job.RemoteRunning},
		{"succeeded", job.RemoteSucceeded},
		{"success", job.RemoteSucceeded},
		{"failed", job.RemoteFailed},
		{"error", job.RemoteFailed},
	}

	for _, tc := range cases {
		t.Run(tc.remote, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1/tasks/h1", r.URL.Path)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code": 0,
					"task": map[string]interface{}{
						"status":     tc.remote,
						"progress":   40,
						"resultPath": "/results/r1.mp4",
					},
				})
			}))
			defer server.Close()

			res, err := NewClient(server.URL).Poll(context.Background(), "h1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.State)
			assert.Equal(t, 40, res.Progress)
			assert.Equal(t, "/results/r1.mp4", res.ResultPath)
		})
	}
}

func TestPollServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    2,
			"message": "unknown task",
		})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Poll(context.Background(), "h1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task")
}
