package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"vispeak/internal/ai"
	cfgpkg "vispeak/internal/config"
)

// set up slog logger according to level; defaults to info.
func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// Common flags for config/log-level across subcommands
type commonFlags struct {
	config   string
	logLevel string
}

func addCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.config, "config", "config.json", "Path to config file")
	fs.StringVar(&cf.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// stringFlag tracks whether the flag was set so unset flags do not
// override file or env configuration.
type stringFlag struct {
	v   string
	set bool
}

func (f *stringFlag) String() string { return f.v }
func (f *stringFlag) Set(s string) error {
	f.v = s
	f.set = true
	return nil
}

type boolFlag struct {
	v   bool
	set bool
}

func (f *boolFlag) String() string { return strconv.FormatBool(f.v) }
func (f *boolFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.v = b
	f.set = true
	return nil
}
func (f *boolFlag) IsBoolFlag() bool { return true }

// Client constructors are package vars so tests can inject fakes.
var newVisionClient = func(cfg cfgpkg.Config) (ai.VisionClient, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.VisionProvider)) {
	case "", "gemini":
		return ai.NewGemini(cfg.GeminiAPIKey, ai.WithGeminiModel(cfg.VisionModel))
	case "openai":
		return ai.NewOpenAI(cfg.OpenAIAPIKey, ai.WithOpenAIModel(cfg.VisionModel))
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", cfg.VisionProvider)
	}
}

var newTTSClient = func(cfg cfgpkg.Config) (ai.TTSClient, error) {
	return ai.NewFPT(cfg.FPTAPIKey, ai.WithFPTSpeed(cfg.Speed))
}
