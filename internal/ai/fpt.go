package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fptDefaultBaseURL = "https://api.fpt.ai"
const fptDefaultVoice = "banmai"

// FPTOption configures the FPT TTS client.
type FPTOption func(*FPTClient)

// WithFPTBaseURL sets the FPT API base URL.
func WithFPTBaseURL(baseURL string) FPTOption {
	return func(c *FPTClient) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithFPTSpeed sets the speech speed header, from "-3" to "3".
// Empty string uses the provider default.
func WithFPTSpeed(speed string) FPTOption {
	return func(c *FPTClient) {
		c.speed = speed
	}
}

// WithFPTHTTPClient sets the HTTP client used for requests.
func WithFPTHTTPClient(client *http.Client) FPTOption {
	return func(c *FPTClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// FPTClient provides a thin wrapper for the FPT.AI text-to-speech API.
// Synthesis is asynchronous: the initial request returns the URL the
// rendered audio will eventually be served from.
type FPTClient struct {
	apiKey     string
	baseURL    string
	speed      string
	httpClient *http.Client
}

// NewFPT constructs a new FPT TTS client. The apiKey is required.
func NewFPT(apiKey string, opts ...FPTOption) (*FPTClient, error) {
	if apiKey == "" {
		return nil, errors.New("FPT_API_KEY is required")
	}
	client := &FPTClient{
		apiKey:  apiKey,
		baseURL: fptDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type fptSynthesizeResponse struct {
	Async   string `json:"async"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// Synthesize submits text for rendering and returns the async audio URL.
// The URL is typically not fetchable until the provider finishes rendering.
func (c *FPTClient) Synthesize(ctx context.Context, voice, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("text is required")
	}
	if voice == "" {
		voice = fptDefaultVoice
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + "/hmi/tts/v5"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("build fpt request: %w", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("voice", voice)
	httpReq.Header.Set("speed", c.speed)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", &FPTAPIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	var parsed fptSynthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode fpt response: %w", err)
	}
	if parsed.Async == "" {
		if parsed.Message != "" {
			return "", fmt.Errorf("fpt synthesis rejected: %s", parsed.Message)
		}
		return "", errors.New("no audio URL in fpt response")
	}
	return parsed.Async, nil
}

// FetchAudio downloads the rendered audio into w. While the provider is
// still rendering, the audio URL answers 404 (or 202 behind some CDNs),
// which is reported as ErrAudioNotReady so callers can poll.
func (c *FPTClient) FetchAudio(ctx context.Context, audioURL string, w io.Writer) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return fmt.Errorf("build audio request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusAccepted:
		return ErrAudioNotReady
	case resp.StatusCode != http.StatusOK:
		errBody, _ := io.ReadAll(resp.Body)
		return &FPTAPIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// FPTAPIError captures error details from FPT responses.
type FPTAPIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *FPTAPIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("fpt api error: %s", e.Status)
	}
	return fmt.Sprintf("fpt api error: %s: %s", e.Status, e.Body)
}
