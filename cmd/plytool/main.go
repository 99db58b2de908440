// plytool is a CLI utility for inspecting PLY mesh and point-cloud files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/plyview/internal/config"
	"github.com/Faultbox/plyview/internal/logger"
	"github.com/Faultbox/plyview/pkg/ply"
)

var errUsage = errors.New("usage")

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, args, os.Stdout)
	stop()
	logger.Sync()

	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches one command. Output goes to w; diagnostics go to the logger.
func run(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		if len(args) < 1 {
			return fmt.Errorf("%w: plytool info <file.ply>", errUsage)
		}
		return cmdInfo(cfg, args[0], w)
	case "dump":
		if len(args) < 1 {
			return fmt.Errorf("%w: plytool dump <file.ply> [element]", errUsage)
		}
		element := ""
		if len(args) > 1 {
			element = args[1]
		}
		return cmdDump(cfg, args[0], element, w)
	case "geometry", "geom":
		if len(args) < 1 {
			return fmt.Errorf("%w: plytool geometry <file.ply>", errUsage)
		}
		return cmdGeometry(cfg, args[0], w)
	case "watch":
		if len(args) < 1 {
			return fmt.Errorf("%w: plytool watch <file.ply>", errUsage)
		}
		return cmdWatch(ctx, cfg, args[0], w)
	case "config":
		return cmdConfig(cfg, args, w)
	case "help", "-h", "--help":
		printUsage(w)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `plytool - PLY mesh and point-cloud inspector

Usage:
  plytool [flags] <command> [arguments]

Commands:
  info <file.ply>              Show header: format, comments, elements
  dump <file.ply> [element]    Print decoded records
  geometry <file.ply>          Summarize vertices, triangles and bounds
  watch <file.ply>             Re-run geometry whenever the file changes
  config init [path]           Write the effective config to path

Flags:
  -config <path>   Config file (.yaml or .toml)
  -debug           Enable debug logging
  -log-file <path> Also write logs to a rotating file
  -charset <name>  Charset of header comments (latin1, euc-kr, shift_jis, ...)
  -format <fmt>    Output format: text, json or yaml
  -n <count>       Max records per element in dump (0 = all)

Examples:
  plytool info bunny.ply
  plytool -format json dump bunny.ply vertex
  plytool -charset shift_jis info scan.ply
  plytool watch model.ply`)
}

func decodeOptions(cfg *config.Config) []ply.Option {
	return []ply.Option{
		ply.WithLogger(logger.Log),
		ply.WithCommentCharset(cfg.Decode.CommentCharset),
	}
}

// loadFile reads path and decodes its header and body. Geometry reduction
// is left to the caller so files with non-mesh elements still load.
func loadFile(cfg *config.Config, path string) (*ply.Header, *ply.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	h, err := ply.ParseHeader(data, decodeOptions(cfg)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var doc *ply.Document
	if h.Format.IsBinary() {
		doc, err = ply.DecodeBinary(data, h)
	} else {
		doc, err = ply.DecodeASCII(data, h)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Debug("loaded PLY",
		zap.String("path", path),
		zap.String("format", string(h.Format)),
		zap.Int("header_bytes", h.Length))
	return h, doc, nil
}
