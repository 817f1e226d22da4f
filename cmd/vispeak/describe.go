package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"vispeak"
	cfgpkg "vispeak/internal/config"
)

// vispeak describe
func cmdDescribe(args []string) error {
	var cf commonFlags
	var image, prompt stringFlag

	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&image, "image", "Path to the input image (required)")
	fs.Var(&prompt, "prompt", "Analysis prompt sent to the vision model")

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
	if prompt.set {
		flagOv.Prompt = &prompt.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, keys)

	if err := cfgpkg.ValidateForDescribe(cfg); err != nil {
		return err
	}

	// Vision only: no TTS credential is needed here, so the facade is
	// bypassed in favor of the provider client.
	vision, err := newVisionClient(cfg)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(image.v)
	if err != nil {
		return fmt.Errorf("image file not found: %s", image.v)
	}
	analysisPrompt := cfg.Prompt
	if analysisPrompt == "" {
		analysisPrompt = vispeak.DefaultPrompt
	}
	text, err := vision.Describe(context.Background(), data, mimetype.Detect(data).String(), analysisPrompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, strings.TrimSpace(text))
	return nil
}
