package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/etf/codec"
	"github.com/wippyai/etf/format"
	"github.com/wippyai/etf/term"
)

type DecodeCmd struct {
	Input   string `arg:"" optional:"" help:"File to decode. Reads stdin when omitted or -."`
	Hex     bool   `help:"Input is hex text. Detected automatically when the data does not start with the version byte." short:"x"`
	NoFold  bool   `help:"Keep lists of {atom, value} pairs as lists." name:"no-fold"`
	Compact bool   `help:"Print binaries between backticks."`
}

func (c *DecodeCmd) Run(e *env) error {
	src, err := readInput(e.in, c.Input, true)
	if err != nil {
		return err
	}
	data, err := wireBytes(src, c.Hex)
	if err != nil {
		return err
	}

	opts := e.cfg.DecodeOptions()
	if c.NoFold {
		opts.FoldProplists = false
	}
	t, err := codec.DecodeWithOptions(data, opts)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	e.log.Debug("decoded", zap.Int("bytes", len(data)), zap.Bool("fold", opts.FoldProplists))
	return e.writeTerm(t, c.Compact)
}

// wireBytes turns command input into encoded bytes. Besides raw data it
// accepts hex text and the <<131,...>> form printed by encode.
func wireBytes(src []byte, forceHex bool) ([]byte, error) {
	if !forceHex && len(src) > 0 && src[0] == codec.Version {
		return src, nil
	}
	text := strings.TrimSpace(string(src))
	if !forceHex && strings.Contains(text, "<<") {
		t, err := format.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse byte literal: %w", err)
		}
		b, ok := t.(term.Binary)
		if !ok {
			return nil, fmt.Errorf("expected a binary literal, got %s", format.Term(t))
		}
		return b, nil
	}
	text = strings.Join(strings.Fields(text), "")
	data, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return data, nil
}

// looksLikeHex reports whether s is non-empty hex text starting with the
// version byte.
func looksLikeHex(s string) bool {
	s = strings.Join(strings.Fields(s), "")
	if len(s) < 2 || len(s)%2 != 0 {
		return false
	}
	data, err := hex.DecodeString(s)
	return err == nil && bytes.HasPrefix(data, []byte{codec.Version})
}
