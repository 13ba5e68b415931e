package main

import (
	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/astnode"
	"github.com/signadot/go-sync/syncjson"
)

func sample(cfg *SampleConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Sample.Parse(cc, args); err != nil {
		cfg.Sample.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	opts, err := cfg.options()
	if err != nil {
		return err
	}
	d, err := syncjson.Write(astnode.Sample(), astnode.SyncProgram, syncjson.WithOptions(opts))
	if err != nil {
		return err
	}
	d = append(d, '\n')
	_, err = cc.Out.Write(d)
	return err
}
