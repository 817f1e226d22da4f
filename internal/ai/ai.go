package ai

import (
	"context"
	"errors"
	"io"
)

// ErrAudioNotReady is returned by FetchAudio while the provider is
// still rendering the requested audio.
var ErrAudioNotReady = errors.New("audio not ready")

// VisionClient analyzes an image and returns the model's text output.
type VisionClient interface {
	Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
}

// TTSClient synthesizes speech from text. Synthesize returns the URL
// the rendered audio will be served from; FetchAudio downloads it and
// reports ErrAudioNotReady until rendering has finished.
type TTSClient interface {
	Synthesize(ctx context.Context, voice, text string) (string, error)
	FetchAudio(ctx context.Context, url string, w io.Writer) error
}
