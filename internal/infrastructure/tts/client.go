package tts

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

	"talkinghead/internal/domain/avatar"
)

// Client is the HTTP adapter for the text-to-speech service. Synthesis is a
// single blocking call: the service clones the voice from its reference
// audio and returns the path of the generated artifact.
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient creates a TTS adapter for the given base URL.
func NewClient(url string) *Client {
	return &Client{
		URL:  strings.TrimRight(strings.TrimSpace(url), "/"),
		HTTP: &http.Client{Timeout: 3 * time.Minute},
	}
}

// Enabled reports whether the TTS integration is configured.
func (c *Client) Enabled() bool {
	return c.URL != ""
}

type synthesizeRequest struct {
	ReferenceAudio string `json:"referenceAudio"`
	ReferenceText  string `json:"referenceText"`
	Text           string `json:"text"`
}

type synthesizeResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	AudioPath string `json:"audioPath"`
}

// Synthesize generates speech for the script text in the given voice and
// returns the audio artifact path reported by the service.
func (c *Client) Synthesize(ctx context.Context, voice *avatar.Voice, text string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("TTS service is not configured")
	}

	payload, err := json.Marshal(synthesizeRequest{
		ReferenceAudio: voice.ReferenceAudioPath,
		ReferenceText:  voice.ReferenceText,
		Text:           text,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/v1/synthesize", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("TTS error: %s", strings.TrimSpace(string(body)))
	}

	var out synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Code != 0 {
		return "", fmt.Errorf("TTS error: %s", out.Message)
	}
	if out.AudioPath == "" {
		return "", errors.New("TTS returned no audio path")
	}
	return out.AudioPath, nil
}
