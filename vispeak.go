// Package vispeak converts images into spoken audio by chaining a
// generative AI vision call with a text-to-speech provider: the image
// is described (or transcribed) by the vision model, the resulting
// text is synthesized to speech, and the rendered audio is downloaded
// to a local file.
package vispeak

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"vispeak/internal/ai"
	"vispeak/internal/paths"
)

// DefaultPrompt is the analysis instruction sent to the vision model
// when the caller has not supplied one. It targets reading assistance
// for visually impaired users: documents are transcribed in full,
// scenes are summarized.
const DefaultPrompt = `You are an assistant for visually impaired users.
Classify the image as one of two kinds:
- [Document]: the image is a document or printed page. Transcribe the
  entire content faithfully and format it cleanly. Do not summarize.
- [Scene]: the image shows a scene or surroundings. Give a short
  overall description.
Answer in the format:
Kind: [Document or Scene]
Content: <the corresponding content>`

const defaultPollInterval = time.Second

// Converter chains a vision provider and a TTS provider into a single
// image-to-audio pipeline. A Converter is single-owner: calling
// Convert concurrently with the setters is not safe.
type Converter struct {
	vision       ai.VisionClient
	tts          ai.TTSClient
	voice        string
	prompt       string
	pollInterval time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// WithVoice sets the initial TTS voice.
func WithVoice(voice string) Option {
	return func(c *Converter) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithPrompt sets the initial analysis prompt.
func WithPrompt(prompt string) Option {
	return func(c *Converter) {
		if prompt != "" {
			c.prompt = prompt
		}
	}
}

// WithPollInterval sets the interval between audio readiness checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Converter) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithVisionClient replaces the default Gemini vision client.
func WithVisionClient(client ai.VisionClient) Option {
	return func(c *Converter) {
		c.vision = client
	}
}

// WithTTSClient replaces the default FPT TTS client.
func WithTTSClient(client ai.TTSClient) Option {
	return func(c *Converter) {
		c.tts = client
	}
}

// New constructs a Converter. visionKey and ttsKey are required unless
// the corresponding client is injected via options.
func New(visionKey, ttsKey string, opts ...Option) (*Converter, error) {
	c := &Converter{
		voice:        DefaultVoice,
		prompt:       DefaultPrompt,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.vision == nil {
		if visionKey == "" {
			return nil, errors.New("vision api key is required")
		}
		client, err := ai.NewGemini(visionKey)
		if err != nil {
			return nil, err
		}
		c.vision = client
	}
	if c.tts == nil {
		if ttsKey == "" {
			return nil, errors.New("tts api key is required")
		}
		client, err := ai.NewFPT(ttsKey)
		if err != nil {
			return nil, err
		}
		c.tts = client
	}
	return c, nil
}

// SetVoice replaces the voice used for subsequent conversions. The
// value is passed through to the provider unvalidated.
func (c *Converter) SetVoice(voice string) { c.voice = voice }

// SetPrompt replaces the analysis instruction sent to the vision model.
func (c *Converter) SetPrompt(prompt string) { c.prompt = prompt }

func (c *Converter) Voice() string  { return c.voice }
func (c *Converter) Prompt() string { return c.prompt }

// Result reports the outcome of a conversion. Success implies
// AudioPath names a file that was just written; otherwise Err carries
// the failure reason and the remaining fields may be empty.
type Result struct {
	Success   bool   `json:"success"`
	Err       string `json:"error,omitempty"`
	Text      string `json:"text_result,omitempty"`
	AudioPath string `json:"audio_path,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
	Voice     string `json:"voice_used,omitempty"`
}

func failuref(format string, args ...any) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}

// Convert runs the full pipeline: read the image, describe it with the
// vision model, synthesize the text to speech, wait up to wait for the
// provider to render, and download the audio to outputPath. Errors are
// collapsed into a failure Result rather than returned.
func (c *Converter) Convert(ctx context.Context, imagePath, outputPath string, wait time.Duration) Result {
	text, err := c.Describe(ctx, imagePath)
	if err != nil {
		return failuref("%v", err)
	}
	return c.Speak(ctx, text, outputPath, wait)
}

// Describe runs only the vision step: the image is read, its MIME type
// sniffed, and the current prompt sent alongside it to the vision model.
func (c *Converter) Describe(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("image file not found: %s", imagePath)
	}
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	mime := mimetype.Detect(image).String()

	text, err := c.vision.Describe(ctx, image, mime, c.prompt)
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Speak synthesizes text with the configured voice and downloads the
// rendered audio to outputPath, polling up to the wait budget.
func (c *Converter) Speak(ctx context.Context, text, outputPath string, wait time.Duration) Result {
	text = strings.TrimSpace(text)
	audioURL, err := c.tts.Synthesize(ctx, c.voice, text)
	if err != nil {
		res := failuref("speech synthesis failed: %v", err)
		res.Text = text
		return res
	}

	if err := c.downloadAudio(ctx, audioURL, outputPath, wait); err != nil {
		res := failuref("%v", err)
		res.Text = text
		res.AudioURL = audioURL
		return res
	}

	return Result{
		Success:   true,
		Text:      text,
		AudioPath: outputPath,
		AudioURL:  audioURL,
		Voice:     c.voice,
	}
}

// downloadAudio polls the audio URL at a fixed interval until the
// provider has rendered it or the wait budget runs out. There is no
// backoff and the synthesis request is never re-issued.
func (c *Converter) downloadAudio(ctx context.Context, audioURL, outputPath string, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		err := c.fetchToFile(ctx, audioURL, outputPath)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ai.ErrAudioNotReady) {
			return err
		}
		if time.Now().Add(c.pollInterval).After(deadline) {
			return fmt.Errorf("tts rendering not finished after %s", wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// fetchToFile downloads the audio into a temp file next to outputPath
// and renames it into place only once the download succeeded, so a
// failure never leaves a partial file or clobbers an existing one.
func (c *Converter) fetchToFile(ctx context.Context, audioURL, outputPath string) error {
	if err := paths.EnsureParentDir(outputPath); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(outputPath), filepath.Base(outputPath)+".tmp")
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := c.tts.FetchAudio(ctx, audioURL, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("close output file: %w", err)
	}
	if err := os.Rename(f.Name(), outputPath); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
