package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type (
	// LogConfiguration is the logger setup, loadable from a config file
	// with flag overrides on top.
	LogConfiguration struct {
		Level      string `yaml:"defaultLevel"`
		Format     string `yaml:"format"`
		OutputPath string `yaml:"outputPath"`

		// NoColor is here so a config file can pin it, the text format
		// itself does not colorize.
		NoColor bool `yaml:"noColor"`
	}
)

const (
	formatText = "text"
	formatJSON = "json"
)

// New creates a logger based on the configuration, unset fields get
// usable defaults (info level, text format, stderr).
func New(cfg *LogConfiguration) (*slog.Logger, error) {
	if cfg == nil {
		cfg = &LogConfiguration{}
	}
	out, err := output(cfg.OutputPath)
	if err != nil {
		return nil, err
	}
	h, err := handler(cfg, out)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

func handler(cfg *LogConfiguration, out io.Writer) (slog.Handler, error) {
	level, err := cfg.logLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", formatText:
		return slog.NewTextHandler(out, opts), nil
	case formatJSON:
		return slog.NewJSONHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format %q, expected one of: %s, %s", cfg.Format, formatText, formatJSON)
	}
}

func output(path string) (io.Writer, error) {
	switch path {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "discard", os.DevNull:
		return io.Discard, nil
	default:
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) // -rw-------
		if err != nil {
			return nil, fmt.Errorf("opening log output file: %w", err)
		}
		return file, nil
	}
}

func (cfg *LogConfiguration) logLevel() (slog.Level, error) {
	if cfg.Level == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return 0, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	return level, nil
}
