package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"talkinghead/internal/domain/job"
)

// Client is the HTTP adapter for the remote render service. The service
// exposes a classic submit/poll protocol: submission returns an opaque task
// code, which is then sampled until the render finishes.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient creates a render-service adapter for the given base URL.
func NewClient(url string) *Client {
	return &Client{
		URL:  strings.TrimRight(strings.TrimSpace(url), "/"),
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether the render integration is configured.
func (c *Client) Enabled() bool {
	return c.URL != ""
}

type submitRequest struct {
	Code      string `json:"code"`
	AudioPath string `json:"audioPath"`
	VideoPath string `json:"videoPath"`
}

type submitResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

// Submit hands an audio/model-video pair to the render service and returns
// the remote handle used for polling. A rejection is not an error: it is
// reported through SubmitResult.Accepted with the service's message.
func (c *Client) Submit(ctx context.Context, audioPath, modelVideoPath string) (job.SubmitResult, error) {
	if !c.Enabled() {
		return job.SubmitResult{}, errors.New("render service is not configured")
	}

	payload, err := json.Marshal(submitRequest{
		Code:      uuid.NewString(),
		AudioPath: audioPath,
		VideoPath: modelVideoPath,
	})
	if err != nil {
		return job.SubmitResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/v1/tasks", bytes.NewReader(payload))
	if err != nil {
		return job.SubmitResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return job.SubmitResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return job.SubmitResult{}, fmt.Errorf("render error: %s", strings.TrimSpace(string(body)))
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return job.SubmitResult{}, err
	}
	if out.Code != 0 {
		return job.SubmitResult{Accepted: false, Message: out.Message}, nil
	}
	if out.TaskID == "" {
		return job.SubmitResult{}, errors.New("render service returned no task id")
	}
	return job.SubmitResult{Accepted: true, Handle: out.TaskID, Message: out.Message}, nil
}

type pollResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Task    struct {
		Status     string `json:"status"`
		Progress   int    `json:"progress"`
		Message    string `json:"message"`
		ResultPath string `json:"resultPath"`
	} `json:"task"`
}

// Poll samples the remote status of a previously submitted task.
func (c *Client) Poll(ctx context.Context, handle string) (job.PollResult, error) {
	if !c.Enabled() {
		return job.PollResult{}, errors.New("render service is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL+"/v1/tasks/"+handle, nil)
	if err != nil {
		return job.PollResult{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return job.PollResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return job.PollResult{}, fmt.Errorf("render error: %s", strings.TrimSpace(string(body)))
	}

	var out pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return job.PollResult{}, err
	}
	if out.Code != 0 {
		return job.PollResult{}, fmt.Errorf("render error: %s", out.Message)
	}

	return job.PollResult{
		State:      mapRemoteStatus(out.Task.Status),
		Progress:   out.Task.Progress,
		Message:    out.Task.Message,
		ResultPath: out.Task.ResultPath,
	}, nil
}

// mapRemoteStatus folds the service's status vocabulary into the three
// states the lifecycle cares about. Unknown values count as running so a
// service upgrade cannot silently fail jobs.
func mapRemoteStatus(status string) job.RemoteState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "succeeded", "success", "done":
		return job.RemoteSucceeded
	case "failed", "error":
		return job.RemoteFailed
	default:
		return job.RemoteRunning
	}
}
