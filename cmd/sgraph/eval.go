package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/astnode"
	"github.com/signadot/go-sync/syncjson"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		cfg.Eval.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	opts, err := cfg.options()
	if err != nil {
		return err
	}
	for _, file := range inputs(args) {
		data, err := readInput(cc, file)
		if err != nil {
			return err
		}
		p, err := syncjson.Read(data, astnode.SyncProgram, syncjson.WithOptions(opts))
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", displayName(file), err)
		}
		if p == nil {
			return fmt.Errorf("%s: no program", displayName(file))
		}
		v, err := astnode.Eval(p.Body, p.Symbols)
		if err != nil {
			return fmt.Errorf("%s: %w", displayName(file), err)
		}
		fmt.Fprintf(cc.Out, "%s: %s = %d\n", p.Name, p.Body, v)
	}
	return nil
}
