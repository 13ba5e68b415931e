package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/syncjson"
)

func format(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		cfg.Fmt.Usage(cc, err)
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
		docs, err := syncjson.ParseStream(data)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", displayName(file), err)
		}
		for _, doc := range docs {
			out, err := syncjson.Format(doc, syncjson.WithOptions(opts))
			if err != nil {
				return fmt.Errorf("error encoding %s: %w", displayName(file), err)
			}
			out = append(out, '\n')
			if _, err := cc.Out.Write(out); err != nil {
				return err
			}
		}
	}
	return nil
}
