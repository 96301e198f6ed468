package main

import (
	"fmt"
	"log/slog"
	"os"

	"picquant/ascii"
	"picquant/glyph"
	"picquant/parallel"
	"picquant/quantize"

	"github.com/alecthomas/kong"
)

type cli struct {
	Workers   int    `help:"Number of images processed concurrently, 0 for one per CPU" default:"0" env:"PICQUANT_WORKERS"`
	LogLevel  string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"PICQUANT_LOG_LEVEL"`
	LogFormat string `help:"Log output format" enum:"text,json" default:"text" env:"PICQUANT_LOG_FORMAT"`

	Quantize quantize.CLICmd `cmd:"" help:"Reduce the colors of every image in a folder with median cut"`
	Ascii    ascii.CLICmd    `cmd:"" help:"Render every image in a folder as text art"`
}

func (c *cli) AfterApply() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	return nil
}

func main() {
	var conf cli
	kctx := kong.Parse(&conf,
		kong.Name("picquant"),
		kong.Description("Median cut color quantization and text art rendering."),
		kong.UsageOnError(),
		kong.Vars{"default_chars": glyph.DefaultChars},
	)

	pool := parallel.Start(conf.Workers)
	slog.Debug("running", "command", kctx.Command(), "workers", pool.Workers())

	if err := kctx.Run(pool.Do, pool.Wait); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
