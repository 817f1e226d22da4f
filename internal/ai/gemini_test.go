package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(""); err == nil {
		t.Fatalf("expected error when api key missing")
	}
}

func TestGeminiDescribe(t *testing.T) {
	image := []byte("jpegbytes")
	var gotPath, gotKey string
	var gotReq geminiGenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "a page of text"}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewGemini("g-key", WithGeminiBaseURL(srv.URL), WithGeminiHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	text, err := c.Describe(context.Background(), image, "image/jpeg", "read this")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != "a page of text" {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash:generateContent") {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "g-key" {
		t.Fatalf("api key header not sent")
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotReq)
	}
	wantData := base64.StdEncoding.EncodeToString(image)
	if gotReq.Contents[0].Parts[0].InlineData == nil || gotReq.Contents[0].Parts[0].InlineData.Data != wantData {
		t.Fatalf("image bytes not sent inline")
	}
	if gotReq.Contents[0].Parts[1].Text != "read this" {
		t.Fatalf("prompt not sent: %+v", gotReq.Contents[0].Parts[1])
	}
}

func TestGeminiDescribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewGemini("g-key", WithGeminiBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	_, err = c.Describe(context.Background(), []byte("img"), "image/png", "p")
	var apiErr *GeminiAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected GeminiAPIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "quota exceeded") {
		t.Fatalf("provider message not carried: %s", apiErr.Error())
	}
}

func TestGeminiDescribeRequiresImage(t *testing.T) {
	c, err := NewGemini("g-key")
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}
	if _, err := c.Describe(context.Background(), nil, "", "p"); err == nil {
		t.Fatalf("expected error for empty image")
	}
}
