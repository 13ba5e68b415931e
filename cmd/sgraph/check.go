package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-sync/libdiff"
	"github.com/signadot/go-sync/syncjson"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	colors := cfg.colors(cc.Out)
	failed := 0
	for _, file := range inputs(args) {
		stats, err := checkFile(cc, file)
		name := displayName(file)
		if err != nil {
			failed++
			theLog.Warn("check failed", "input", name, "error", err)
			fmt.Fprintf(cc.Out, "%s: %s\n", name, colors.Paint(libdiff.DeleteColor, err.Error()))
			continue
		}
		if cfg.Quiet {
			continue
		}
		fmt.Fprintf(cc.Out, "%s: %s values=%d objects=%d lists=%d slots=%d refs=%d depth=%d\n",
			name, colors.Paint(libdiff.InsertColor, "ok"),
			stats.Values, stats.Objects, stats.Lists, stats.Slots, stats.Refs, stats.MaxDepth)
	}
	if failed != 0 {
		theLog.Error("inputs failed", "count", failed, "total", len(inputs(args)))
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFile checks every top-level value of file. Each value is its own
// session, so slot ids restart per value.
func checkFile(cc *cli.Context, file string) (syncjson.Stats, error) {
	var total syncjson.Stats
	data, err := readInput(cc, file)
	if err != nil {
		return total, err
	}
	docs, err := syncjson.ParseStream(data)
	if err != nil {
		return total, err
	}
	for i, doc := range docs {
		stats, err := syncjson.CheckRefs(doc)
		if err != nil {
			return total, fmt.Errorf("value %d: %w", i, err)
		}
		total.Values += stats.Values
		total.Objects += stats.Objects
		total.Lists += stats.Lists
		total.Slots += stats.Slots
		total.Refs += stats.Refs
		total.MaxDepth = max(total.MaxDepth, stats.MaxDepth)
	}
	return total, nil
}
