package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vispeak"
	cfgpkg "vispeak/internal/config"
	"vispeak/internal/paths"
)

type convertMeta struct {
	Image          string `json:"image"`
	Stem           string `json:"stem"`
	Voice          string `json:"voice"`
	VisionProvider string `json:"visionProvider"`
	AudioURL       string `json:"audioUrl"`
	TextChars      int    `json:"textChars"`
}

// vispeak convert
func cmdConvert(args []string) error {
	var cf commonFlags
	var image, output, voice, prompt stringFlag
	var overwrite boolFlag
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&image, "image", "Path to the input image (required)")
	fs.Var(&output, "output", "Path for the output WAV (default: <outDir>/<stem>.wav)")
	fs.Var(&voice, "voice", "TTS voice")
	fs.Var(&prompt, "prompt", "Analysis prompt sent to the vision model")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing outputs")
	wait := fs.Int("wait", 10, "Seconds to wait for TTS rendering")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)
	if !image.set || image.v == "" {
		return errors.New("image path is required (-image)")
	}

	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, keys := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if voice.set {
		flagOv.Voice = &voice.v
	}
	if prompt.set {
		flagOv.Prompt = &prompt.v
	}
	if overwrite.set {
		flagOv.Overwrite = &overwrite.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, keys)

	if err := cfgpkg.ValidateForConvert(cfg); err != nil {
		return err
	}

	stem := paths.Stem(image.v)
	builder := paths.New(cfg.OutDir)
	audioPath := output.v
	if audioPath == "" {
		if err := builder.EnsureOutDir(); err != nil {
			return err
		}
		audioPath = builder.Audio(stem)
	}
	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	transcriptPath := base + ".txt"
	metaPath := base + ".json"
	if err := paths.CheckOverwrite([]string{audioPath, transcriptPath, metaPath}, cfg.Overwrite); err != nil {
		return err
	}

	conv, err := buildConverter(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	slog.Info("convert start", "image", image.v, "voice", cfg.Voice, "visionProvider", cfg.VisionProvider)
	res := conv.Convert(ctx, image.v, audioPath, time.Duration(*wait)*time.Second)
	if !res.Success {
		return errors.New(res.Err)
	}

	slog.Info("audio written", "audio", res.AudioPath)
	if err := os.WriteFile(transcriptPath, []byte(res.Text+"\n"), 0o644); err != nil {
		return fmt.Errorf("audio written to %s but transcript failed: %w", res.AudioPath, err)
	}
	meta := convertMeta{
		Image:          image.v,
		Stem:           stem,
		Voice:          res.Voice,
		VisionProvider: cfg.VisionProvider,
		AudioURL:       res.AudioURL,
		TextChars:      len(res.Text),
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return fmt.Errorf("audio and transcript written but meta failed: %w", err)
	}

	slog.Info(
		"conversion completed",
		"image", image.v,
		"audio", res.AudioPath,
		"transcript", transcriptPath,
		"voice", res.Voice,
		"textChars", len(res.Text),
	)
	return nil
}

func buildConverter(cfg cfgpkg.Config) (*vispeak.Converter, error) {
	vision, err := newVisionClient(cfg)
	if err != nil {
		return nil, err
	}
	tts, err := newTTSClient(cfg)
	if err != nil {
		return nil, err
	}
	opts := []vispeak.Option{
		vispeak.WithVisionClient(vision),
		vispeak.WithTTSClient(tts),
		vispeak.WithVoice(cfg.Voice),
	}
	if cfg.Prompt != "" {
		opts = append(opts, vispeak.WithPrompt(cfg.Prompt))
	}
	return vispeak.New("", "", opts...)
}
