// Command etf encodes, decodes and inspects Erlang external term format data.
//
//	etf encode '{ok, #{"id" => 7}}'
//	etf encode --json '{"a": 1, "b": [true, null]}' -f hex
//	etf decode reply.bin
//	echo 836101 | etf decode --hex
//	etf inspect
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/etf/codec"
	"github.com/wippyai/etf/config"
)

type CLI struct {
	Config   string `help:"Path to a TOML config file." type:"path" short:"c"`
	LogLevel string `help:"Log level (debug, info, warn, error); overrides the config." name:"log-level"`

	Encode  EncodeCmd  `cmd:"" help:"Encode an Erlang term literal or JSON document."`
	Decode  DecodeCmd  `cmd:"" help:"Decode external term format bytes and print the term."`
	Inspect InspectCmd `cmd:"" help:"Interactively encode literals and decode hex."`
}

// env is bound into every command's Run.
type env struct {
	cfg   config.Config
	log   *zap.Logger
	in    io.Reader
	out   io.Writer
	color bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("etf"),
		kong.Description("Erlang external term format codec."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cli.LogLevel)
		if err != nil {
			return fmt.Errorf("parse --log-level: %w", err)
		}
		cfg.Log.Level = lvl
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	codec.SetLogger(logger.Named("codec"))

	e := &env{
		cfg:   cfg,
		log:   logger,
		in:    stdin,
		out:   stdout,
		color: useColor(cfg.Output.Color, stdout),
	}
	return kctx.Run(e)
}
