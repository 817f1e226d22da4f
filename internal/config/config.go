package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds resolved configuration values after merging file, env, and flags.
type Config struct {
	Voice          string `json:"voice,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	Speed          string `json:"speed,omitempty"`
	VisionProvider string `json:"visionProvider,omitempty"`
	VisionModel    string `json:"visionModel,omitempty"`
	OutDir         string `json:"outDir,omitempty"`
	Overwrite      bool   `json:"overwrite,omitempty"`
	S3Bucket       string `json:"s3Bucket,omitempty"`
	S3Prefix       string `json:"s3Prefix,omitempty"`
	Region         string `json:"region,omitempty"`
	Debug          bool   `json:"debug,omitempty"`

	// Not persisted to file; sourced from env only.
	GeminiAPIKey string `json:"-"`
	FPTAPIKey    string `json:"-"`
	OpenAIAPIKey string `json:"-"`
}

// Overrides represents optional overrides from env or flags.
// Only non-nil pointers are applied during merge.
type Overrides struct {
	Voice          *string
	Prompt         *string
	Speed          *string
	VisionProvider *string
	VisionModel    *string
	OutDir         *string
	Overwrite      *bool
	S3Bucket       *string
	S3Prefix       *string
	Region         *string
	Debug          *bool
}

// Keys carries the env-only API credentials.
type Keys struct {
	Gemini string
	FPT    string
	OpenAI string
}

func Default() Config {
	return Config{
		Voice:          "banmai",
		VisionProvider: "gemini",
		OutDir:         "out",
		S3Prefix:       "vispeak",
	}
}

// LoadFile reads a JSON config. If file not found, returns defaults and no error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// FromEnv reads env vars and returns overrides and the API keys.
func FromEnv() (Overrides, Keys) {
	var ov Overrides

	if v, ok := os.LookupEnv("VISPEAK_VOICE"); ok {
		ov.Voice = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_PROMPT"); ok {
		ov.Prompt = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_SPEED"); ok {
		ov.Speed = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_VISION_PROVIDER"); ok {
		ov.VisionProvider = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_VISION_MODEL"); ok {
		ov.VisionModel = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_OUT_DIR"); ok {
		ov.OutDir = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_OVERWRITE"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Overwrite = &b
		}
	}
	if v, ok := os.LookupEnv("AWS_S3_BUCKET"); ok {
		ov.S3Bucket = &v
	}
	if v, ok := os.LookupEnv("AWS_S3_PREFIX"); ok {
		ov.S3Prefix = &v
	}
	if v, ok := os.LookupEnv("AWS_REGION"); ok {
		ov.Region = &v
	}
	if v, ok := os.LookupEnv("VISPEAK_DEBUG"); ok {
		if b, err := parseBool(v); err == nil {
			ov.Debug = &b
		}
	}

	keys := Keys{
		Gemini: os.Getenv("GEMINI_API_KEY"),
		FPT:    os.Getenv("FPT_API_KEY"),
		OpenAI: os.Getenv("OPENAI_API_KEY"),
	}
	return ov, keys
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return false, fmt.Errorf("empty bool")
	}
	if s == "1" || s == "t" || s == "true" || s == "y" || s == "yes" || s == "on" {
		return true, nil
	}
	if s == "0" || s == "f" || s == "false" || s == "n" || s == "no" || s == "off" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Merge applies overrides in order: file -> env -> flags.
func Merge(fileCfg Config, env Overrides, flags Overrides, keys Keys) Config {
	cfg := fileCfg

	apply := func(ov Overrides) {
		if ov.Voice != nil {
			cfg.Voice = *ov.Voice
		}
		if ov.Prompt != nil {
			cfg.Prompt = *ov.Prompt
		}
		if ov.Speed != nil {
			cfg.Speed = *ov.Speed
		}
		if ov.VisionProvider != nil {
			cfg.VisionProvider = *ov.VisionProvider
		}
		if ov.VisionModel != nil {
			cfg.VisionModel = *ov.VisionModel
		}
		if ov.OutDir != nil {
			cfg.OutDir = *ov.OutDir
		}
		if ov.Overwrite != nil {
			cfg.Overwrite = *ov.Overwrite
		}
		if ov.S3Bucket != nil {
			cfg.S3Bucket = *ov.S3Bucket
		}
		if ov.S3Prefix != nil {
			cfg.S3Prefix = *ov.S3Prefix
		}
		if ov.Region != nil {
			cfg.Region = *ov.Region
		}
		if ov.Debug != nil {
			cfg.Debug = *ov.Debug
		}
	}

	apply(env)
	apply(flags)

	cfg.GeminiAPIKey = keys.Gemini
	cfg.FPTAPIKey = keys.FPT
	cfg.OpenAIAPIKey = keys.OpenAI
	return cfg
}

// VisionKey returns the credential for the selected vision provider.
func (c Config) VisionKey() string {
	if strings.EqualFold(c.VisionProvider, "openai") {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// Validation helpers
func ValidateForDescribe(cfg Config) error {
	switch strings.ToLower(cfg.VisionProvider) {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for image analysis")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for image analysis")
		}
	default:
		return fmt.Errorf("unsupported vision provider: %s", cfg.VisionProvider)
	}
	return nil
}

func ValidateForSpeak(cfg Config) error {
	if cfg.FPTAPIKey == "" {
		return errors.New("FPT_API_KEY is required for speech synthesis")
	}
	if cfg.Voice == "" {
		return errors.New("voice is required")
	}
	return nil
}

func ValidateForConvert(cfg Config) error {
	if err := ValidateForDescribe(cfg); err != nil {
		return err
	}
	return ValidateForSpeak(cfg)
}

func ValidateForPublish(cfg Config) error {
	if cfg.S3Bucket == "" {
		return errors.New("S3 bucket is required for publish")
	}
	if cfg.Region == "" {
		return errors.New("AWS region is required for publish")
	}
	return nil
}
