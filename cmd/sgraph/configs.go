package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/libdiff"
	"github.com/signadot/go-sync/syncjson"
)

type MainConfig struct {
	Color  bool   `cli:"name=color desc='output with color'"`
	Config string `cli:"name=config desc='yaml file with encoding options'"`

	Main *cli.Command
}

// options returns the encoding options from -config, or the defaults.
func (cfg *MainConfig) options() (syncjson.Options, error) {
	if cfg.Config == "" {
		return syncjson.DefaultOptions(), nil
	}
	opts, err := syncjson.LoadOptions(cfg.Config)
	if err != nil {
		theLog.Error("could not load options", "path", cfg.Config, "error", err)
		return syncjson.Options{}, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	theLog.Debug("loaded options", "path", cfg.Config,
		"bytes", opts.ByteSequenceEncoding.String(),
		"newtonsoft", opts.NewtonsoftCompatibility,
		"rootMode", opts.RootMode.String())
	return opts, nil
}

// colors decides on color output: -color forces it, an explicit -color=false
// disables it, otherwise it is on for terminals.
func (cfg *MainConfig) colors(w io.Writer) *libdiff.Colors {
	if cfg.Color {
		color.NoColor = false
		return libdiff.NewColors(true)
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return libdiff.NewColors(false)
	}
	f, ok := w.(*os.File)
	if !ok {
		return libdiff.NewColors(false)
	}
	return libdiff.NewColors(isatty.IsTerminal(f.Fd()))
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only report failures'"`

	Check *cli.Command
}

type FmtConfig struct {
	*MainConfig

	Fmt *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type SchemaConfig struct {
	*MainConfig
	Line bool `cli:"name=line desc='print the schema on one line'"`

	Schema *cli.Command
}

type SampleConfig struct {
	*MainConfig

	Sample *cli.Command
}

type EvalConfig struct {
	*MainConfig

	Eval *cli.Command
}
