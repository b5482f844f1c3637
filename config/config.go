// Package config loads the etf command's TOML configuration.
//
//	[codec]
//	map_key_type = "atom"     # binary | atom | string
//	fold_proplists = true
//	max_depth = 10000         # nesting limit when decoding
//
//	[log]
//	level = "info"
//	development = false
//
//	[output]
//	format = "pretty"         # pretty | hex | bytes | raw
//	color = "auto"            # auto | always | never
//
// Keys left out of the file keep their defaults.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/etf/codec"
	"github.com/wippyai/etf/errors"
	"github.com/wippyai/etf/term"
)

// Format selects how the command writes results.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatHex    Format = "hex"
	FormatBytes  Format = "bytes"
	FormatRaw    Format = "raw"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPretty, FormatHex, FormatBytes, FormatRaw:
		return f, nil
	}
	return "", invalid("output.format", s, "pretty, hex, bytes or raw")
}

// Color selects when output is colored.
type Color string

const (
	ColorAuto   Color = "auto"
	ColorAlways Color = "always"
	ColorNever  Color = "never"
)

// ParseColor validates a color mode.
func ParseColor(s string) (Color, error) {
	switch c := Color(strings.ToLower(strings.TrimSpace(s))); c {
	case ColorAuto, ColorAlways, ColorNever:
		return c, nil
	}
	return "", invalid("output.color", s, "auto, always or never")
}

// Config is the resolved configuration.
type Config struct {
	Codec  Codec
	Log    Log
	Output Output
}

type Codec struct {
	MapKeyType    term.KeyType
	FoldProplists bool
	MaxDepth      int
}

type Log struct {
	Level       zapcore.Level
	Development bool
}

type Output struct {
	Format Format
	Color  Color
}

// Default returns binary map keys, proplist folding, the codec's default
// nesting limit, warn-level production
// logging and pretty output colored when writing to a terminal.
func Default() Config {
	return Config{
		Codec: Codec{
			MapKeyType:    term.KeyBinary,
			FoldProplists: true,
			MaxDepth:      codec.DefaultMaxDepth,
		},
		Log: Log{
			Level: zapcore.WarnLevel,
		},
		Output: Output{
			Format: FormatPretty,
			Color:  ColorAuto,
		},
	}
}

type fileConfig struct {
	Codec struct {
		MapKeyType    string `toml:"map_key_type"`
		FoldProplists bool   `toml:"fold_proplists"`
		MaxDepth      int    `toml:"max_depth"`
	} `toml:"codec"`
	Log struct {
		Level       string `toml:"level"`
		Development bool   `toml:"development"`
	} `toml:"log"`
	Output struct {
		Format string `toml:"format"`
		Color  string `toml:"color"`
	} `toml:"output"`
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load etf config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidData).
			Detail("unknown key %s in %s", undecoded[0], path).
			Build()
	}

	if meta.IsDefined("codec", "map_key_type") {
		kt, err := term.ParseKeyType(strings.TrimSpace(raw.Codec.MapKeyType))
		if err != nil {
			return Config{}, invalid("codec.map_key_type", raw.Codec.MapKeyType, "binary, atom or string")
		}
		if kt != term.KeyDefault {
			cfg.Codec.MapKeyType = kt
		}
	}

	if meta.IsDefined("codec", "fold_proplists") {
		cfg.Codec.FoldProplists = raw.Codec.FoldProplists
	}

	if meta.IsDefined("codec", "max_depth") {
		if raw.Codec.MaxDepth <= 0 {
			return Config{}, invalid("codec.max_depth", strconv.Itoa(raw.Codec.MaxDepth), "a positive integer")
		}
		cfg.Codec.MaxDepth = raw.Codec.MaxDepth
	}

	if meta.IsDefined("log", "level") {
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(raw.Log.Level))
		if err != nil {
			return Config{}, invalid("log.level", raw.Log.Level, "debug, info, warn or error")
		}
		cfg.Log.Level = lvl
	}

	if meta.IsDefined("log", "development") {
		cfg.Log.Development = raw.Log.Development
	}

	if meta.IsDefined("output", "format") {
		f, err := ParseFormat(raw.Output.Format)
		if err != nil {
			return Config{}, err
		}
		cfg.Output.Format = f
	}

	if meta.IsDefined("output", "color") {
		c, err := ParseColor(raw.Output.Color)
		if err != nil {
			return Config{}, err
		}
		cfg.Output.Color = c
	}

	return cfg, nil
}

// EncodeOptions returns the codec options for encoding.
func (c Config) EncodeOptions() codec.EncodeOptions {
	return codec.EncodeOptions{MapKeyType: c.Codec.MapKeyType}
}

// DecodeOptions returns the codec options for decoding.
func (c Config) DecodeOptions() codec.DecodeOptions {
	return codec.DecodeOptions{
		FoldProplists: c.Codec.FoldProplists,
		MaxDepth:      c.Codec.MaxDepth,
	}
}

// NewLogger builds a zap logger at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.Log.Level)
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func invalid(key, value, want string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidData).
		Value(value).
		Detail("%s must be %s, got %q", key, want, value).
		Build()
}
