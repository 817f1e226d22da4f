package main

import (
	"os"
	"testing"
)

func TestHelp(t *testing.T) {
	if code := run([]string{"-h"}); code != 0 {
		t.Fatalf("expected help to return 0, got %d", code)
	}
}

func TestUnknownSubcommand(t *testing.T) {
	if code := run([]string{"unknown"}); code == 0 {
		t.Fatalf("expected non-zero for unknown subcommand")
	}
}

func TestVersion(t *testing.T) {
	if code := run([]string{"version"}); code != 0 {
		t.Fatalf("expected version to return 0, got %d", code)
	}
}

func TestSpeakRequiresText(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FPT_API_KEY", "f-test")
	if code := run([]string{"speak", "--output=out.wav"}); code == 0 {
		t.Fatalf("expected non-zero without text")
	}
}

func TestSpeakWritesAudio(t *testing.T) {
	tts := &fakeTTSClient{audio: []byte("RIFFwavdata")}
	injectFakeClients(t, &fakeVisionClient{}, tts)
	chdirTemp(t)

	t.Setenv("FPT_API_KEY", "f-test")
	if code := run([]string{"speak", "--text=xin chào", "--output=greeting.wav", "--voice=myan", "--wait=1"}); code != 0 {
		t.Fatalf("speak returned non-zero: %d", code)
	}
	if tts.lastVoice != "myan" {
		t.Fatalf("voice flag not applied: %s", tts.lastVoice)
	}
	info, err := os.Stat("greeting.wav")
	if err != nil {
		t.Fatalf("missing greeting.wav: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("greeting.wav was empty")
	}
}
