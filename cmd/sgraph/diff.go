package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/libdiff"
	"github.com/signadot/go-sync/syncjson"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	v1, err := parseFile(cc, args[0])
	if err != nil {
		return err
	}
	v2, err := parseFile(cc, args[1])
	if err != nil {
		return err
	}
	changes := libdiff.Diff(v1, v2)
	if len(changes) == 0 {
		return nil
	}
	if cfg.Reverse {
		changes = libdiff.Reverse(changes)
	}
	if err := libdiff.Render(cc.Out, changes, cfg.colors(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func parseFile(cc *cli.Context, file string) (*syncjson.Value, error) {
	data, err := readInput(cc, file)
	if err != nil {
		return nil, err
	}
	v, err := syncjson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", displayName(file), err)
	}
	return v, nil
}
