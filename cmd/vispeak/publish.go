package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	cfgpkg "vispeak/internal/config"
	"vispeak/internal/paths"
	"vispeak/internal/storage"
)

const (
	wavContentType  = "audio/wav"
	textContentType = "text/plain; charset=utf-8"
	jsonContentType = "application/json"
)

type uploader interface {
	UploadFile(ctx context.Context, key, localPath, contentType string) error
	CopyToLatest(ctx context.Context, srcKey, filename, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	KeyForStem(stem, filename string) string
}

var newUploader = func(ctx context.Context, bucket, prefix, region string) (uploader, error) {
	return storage.New(ctx, bucket, prefix, region)
}

// vispeak publish
func cmdPublish(args []string) error {
	var cf commonFlags
	var image, stem, bucket, prefix, region stringFlag
	var audioOnly, overwrite boolFlag
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addCommonFlags(fs, &cf)
	fs.Var(&image, "image", "Image the artifacts were converted from")
	fs.Var(&stem, "stem", "Artifact stem (alternative to -image)")
	fs.Var(&bucket, "bucket", "S3 bucket name (required in prod)")
	fs.Var(&prefix, "prefix", "S3 key prefix")
	fs.Var(&region, "region", "AWS region (defaults from env)")
	fs.Var(&audioOnly, "audio-only", "Upload only the WAV, not the transcript and meta")
	fs.Var(&overwrite, "overwrite", "Allow overwriting existing objects")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	setupLogger(cf.logLevel)

	name := stem.v
	if name == "" && image.set {
		name = paths.Stem(image.v)
	}
	if name == "" {
		return errors.New("artifact stem is required (-image or -stem)")
	}

	fileCfg, err := cfgpkg.LoadFile(cf.config)
	if err != nil {
		return err
	}
	envOv, keys := cfgpkg.FromEnv()
	var flagOv cfgpkg.Overrides
	if bucket.set {
		flagOv.S3Bucket = &bucket.v
	}
	if prefix.set {
		flagOv.S3Prefix = &prefix.v
	}
	if region.set {
		flagOv.Region = &region.v
	}
	if overwrite.set {
		flagOv.Overwrite = &overwrite.v
	}
	cfg := cfgpkg.Merge(fileCfg, envOv, flagOv, keys)

	if err := cfgpkg.ValidateForPublish(cfg); err != nil {
		return err
	}

	up, err := newUploader(context.Background(), cfg.S3Bucket, cfg.S3Prefix, cfg.Region)
	if err != nil {
		return err
	}

	builder := paths.New(cfg.OutDir)
	ctx := context.Background()
	if err := uploadAndCopy(ctx, up, name, name+".wav", builder.Audio(name), wavContentType, cfg.Overwrite, false); err != nil {
		return err
	}
	if !audioOnly.v {
		if err := uploadAndCopy(ctx, up, name, name+".txt", builder.Transcript(name), textContentType, cfg.Overwrite, true); err != nil {
			return err
		}
		if err := uploadAndCopy(ctx, up, name, name+".json", builder.Meta(name), jsonContentType, cfg.Overwrite, true); err != nil {
			return err
		}
	}

	slog.Info("publish completed", "stem", name, "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix, "region", cfg.Region, "audioOnly", audioOnly.v)
	return nil
}

// uploadAndCopy uploads one artifact and refreshes its latest/ copy.
// Optional artifacts missing on disk are skipped; existing objects are
// only replaced when overwrite is set.
func uploadAndCopy(ctx context.Context, up uploader, stem, filename, localPath, contentType string, overwrite, optional bool) error {
	if _, err := os.Stat(localPath); err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			slog.Info("skipping missing artifact", "path", localPath)
			return nil
		}
		return fmt.Errorf("missing local file %s: %w", localPath, err)
	}
	key := up.KeyForStem(stem, filename)
	if !overwrite {
		exists, err := up.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("checking object %s: %w", key, err)
		}
		if exists {
			return fmt.Errorf("refusing to overwrite existing object: %s (use --overwrite)", key)
		}
	}
	if err := up.UploadFile(ctx, key, localPath, contentType); err != nil {
		return err
	}
	return up.CopyToLatest(ctx, key, filename, contentType)
}
