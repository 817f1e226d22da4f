package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"vispeak"
	cfgpkg "vispeak/internal/config"
	"vispeak/internal/paths"
)

// unusedVision satisfies the facade's vision seam for the speak
// subcommand, which never analyzes an image.
type unusedVision struct{}

func (unusedVision) Describe(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	return "", errors.New("vision client not configured")
}

// vispeak speak
func cmdSpeak(args []string) error {
	var cf commonFlags
	var text, file, output, voice stringFlag
	var overwrite boolFlag
	fs := flag.NewFlagSet("speak", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&text, "text", "Text to synthesize")
	fs.Var(&file, "file", "Read the text to synthesize from this file")
	fs.Var(&output, "output", "Path for the output WAV (required)")
	fs.Var(&voice, "voice", "TTS voice")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing outputs")
	wait := fs.Int("wait", 10, "Seconds to wait for TTS rendering")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)

	input := text.v
	if file.set {
		b, err := os.ReadFile(file.v)
		if err != nil {
			return err
		}
		input = string(b)
	}
	if input == "" {
		return errors.New("text is required (-text or -file)")
	}
	if !output.set || output.v == "" {
		return errors.New("output path is required (-output)")
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
	if overwrite.set {
		flagOv.Overwrite = &overwrite.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, keys)

	if err := cfgpkg.ValidateForSpeak(cfg); err != nil {
		return err
	}
	if err := paths.CheckOverwrite([]string{output.v}, cfg.Overwrite); err != nil {
		return err
	}

	tts, err := newTTSClient(cfg)
	if err != nil {
		return err
	}
	conv, err := vispeak.New("", "",
		vispeak.WithVisionClient(unusedVision{}),
		vispeak.WithTTSClient(tts),
		vispeak.WithVoice(cfg.Voice),
	)
	if err != nil {
		return err
	}

	res := conv.Speak(context.Background(), input, output.v, time.Duration(*wait)*time.Second)
	if !res.Success {
		return errors.New(res.Err)
	}

	slog.Info("speech generated", "audio", res.AudioPath, "voice", res.Voice, "textChars", len(res.Text))
	return nil
}
