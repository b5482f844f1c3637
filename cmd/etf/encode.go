package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/etf/codec"
	"github.com/wippyai/etf/config"
	"github.com/wippyai/etf/format"
	"github.com/wippyai/etf/term"
)

type EncodeCmd struct {
	Input      string `arg:"" optional:"" help:"Term literal or JSON document. Reads stdin when omitted or -."`
	JSON       bool   `help:"Read the input as JSON instead of an Erlang literal." short:"j"`
	File       bool   `help:"Treat the input argument as a file path." short:"F"`
	MapKeyType string `help:"Map key type: binary, atom or string. Overrides the config." enum:",binary,atom,string" default:""`
	Format     string `help:"Output format: pretty, hex, bytes or raw. Overrides the config." short:"f" enum:",pretty,hex,bytes,raw" default:""`
}

func (c *EncodeCmd) Run(e *env) error {
	src, err := readInput(e.in, c.Input, c.File)
	if err != nil {
		return err
	}

	opts := e.cfg.EncodeOptions()
	if c.MapKeyType != "" {
		kt, err := term.ParseKeyType(c.MapKeyType)
		if err != nil {
			return err
		}
		opts.MapKeyType = kt
	}
	out := e.cfg.Output.Format
	if c.Format != "" {
		out, err = config.ParseFormat(c.Format)
		if err != nil {
			return err
		}
	}

	var data []byte
	if c.JSON {
		v, err := parseJSON(src)
		if err != nil {
			return err
		}
		data, err = codec.EncodeValue(v, opts)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	} else {
		t, err := format.Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse term: %w", err)
		}
		data, err = codec.EncodeWithOptions(t, opts)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}

	e.log.Debug("encoded", zap.Int("bytes", len(data)), zap.Stringer("map_key_type", opts.MapKeyType))
	return e.writeBytes(data, out)
}

// readInput returns arg itself, the file it names, or all of r when arg is
// empty or "-".
func readInput(r io.Reader, arg string, file bool) ([]byte, error) {
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	if file {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		return data, nil
	}
	return []byte(strings.TrimSpace(arg)), nil
}
