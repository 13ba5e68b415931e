package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/astnode"
	"github.com/signadot/go-sync/syncschema"
)

func schema(cfg *SchemaConfig, cc *cli.Context, args []string) error {
	_, err := cfg.Schema.Parse(cc, args)
	if err != nil {
		cfg.Schema.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	opts, err := cfg.options()
	if err != nil {
		return err
	}
	shape, err := syncschema.Describe(astnode.SyncProgram, opts.RootMode)
	if err != nil {
		return err
	}
	if cfg.Line {
		_, err := fmt.Fprintln(cc.Out, shape.String())
		return err
	}
	d, err := shape.YAML()
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(d)
	return err
}
