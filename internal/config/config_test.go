package config

import (
	"testing"
)

func TestMergePrecedence(t *testing.T) {
	file := Default()
	file.Voice = "file-voice"
	file.S3Bucket = "file-bucket"

	env := Overrides{}
	env.Voice = strPtr("env-voice")
	env.S3Bucket = strPtr("env-bucket")

	flags := Overrides{}
	flags.Voice = strPtr("flag-voice")

	cfg := Merge(file, env, flags, Keys{Gemini: "g-key", FPT: "f-key"})
	if cfg.Voice != "flag-voice" {
		t.Fatalf("voice precedence wrong: %s", cfg.Voice)
	}
	if cfg.S3Bucket != "env-bucket" {
		t.Fatalf("bucket precedence wrong: %s", cfg.S3Bucket)
	}
	if cfg.GeminiAPIKey != "g-key" || cfg.FPTAPIKey != "f-key" {
		t.Fatalf("keys not set")
	}
}

func TestValidateConvertRequiresKeys(t *testing.T) {
	cfg := Default()
	if err := ValidateForConvert(cfg); err == nil {
		t.Fatalf("expected error without GEMINI_API_KEY")
	}
	cfg.GeminiAPIKey = "g-key"
	if err := ValidateForConvert(cfg); err == nil {
		t.Fatalf("expected error without FPT_API_KEY")
	}
	cfg.FPTAPIKey = "f-key"
	if err := ValidateForConvert(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDescribeOpenAIProvider(t *testing.T) {
	cfg := Default()
	cfg.VisionProvider = "openai"
	if err := ValidateForDescribe(cfg); err == nil {
		t.Fatalf("expected error without OPENAI_API_KEY")
	}
	cfg.OpenAIAPIKey = "sk-test"
	if err := ValidateForDescribe(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.VisionProvider = "watson"
	if err := ValidateForDescribe(cfg); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("VISPEAK_VOICE", "env-voice")
	t.Setenv("VISPEAK_DEBUG", "1")
	t.Setenv("GEMINI_API_KEY", "g-xyz")
	t.Setenv("FPT_API_KEY", "f-xyz")
	ov, keys := FromEnv()
	if ov.Voice == nil || *ov.Voice != "env-voice" {
		t.Fatalf("voice not read from env")
	}
	if ov.Debug == nil || *ov.Debug != true {
		t.Fatalf("debug not parsed as true")
	}
	if keys.Gemini != "g-xyz" || keys.FPT != "f-xyz" {
		t.Fatalf("keys not read from env")
	}
}

func TestVisionKeySelectsProvider(t *testing.T) {
	cfg := Default()
	cfg.GeminiAPIKey = "g-key"
	cfg.OpenAIAPIKey = "o-key"
	if cfg.VisionKey() != "g-key" {
		t.Fatalf("default provider should use gemini key")
	}
	cfg.VisionProvider = "openai"
	if cfg.VisionKey() != "o-key" {
		t.Fatalf("openai provider should use openai key")
	}
}

func strPtr(s string) *string { return &s }
