package main

import (
	"fmt"
	"log/slog"
	"os"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return 0
	}

	sub := args[0]
	switch sub {
	case "convert":
		if err := cmdConvert(args[1:]); err != nil {
			slog.Error("convert failed", "err", err)
			return 1
		}
		return 0
	case "describe":
		if err := cmdDescribe(args[1:]); err != nil {
			slog.Error("describe failed", "err", err)
			return 1
		}
		return 0
	case "speak":
		if err := cmdSpeak(args[1:]); err != nil {
			slog.Error("speak failed", "err", err)
			return 1
		}
		return 0
	case "publish":
		if err := cmdPublish(args[1:]); err != nil {
			slog.Error("publish failed", "err", err)
			return 1
		}
		return 0
	case "version":
		fmt.Println(version)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n\n", sub)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vispeak %s

Usage:
  vispeak <subcommand> [flags]

Subcommands:
  convert   Convert an image to a spoken WAV file
  describe  Analyze an image and print the text
  speak     Synthesize text to a WAV file
  publish   Upload conversion artifacts to S3
  version   Print version

Run "vispeak <subcommand> -h" for flags.
`, version)
}
