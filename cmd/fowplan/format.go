package main

import (
	"fmt"

	"github.com/mitchellh/colorstring"
	"github.com/mitchellh/go-wordwrap"

	"github.com/fowchess/planner/internal/planner"
)

// colorizeStats renders Statistics the way a terminal host prints a
// search report: colorized key/value pairs, word-wrapped to a
// terminal-friendly width. Grounded on the teacher's tuner, which
// colorizes its progress report the same way before printing it
// (pkg/search/eval/classical/tuner/tuner.go uses colorstring-style
// bracket tags around its epoch/error summary).
func colorizeStats(s planner.Statistics) string {
	line := fmt.Sprintf(
		"[blue]nodes[reset]=%d [blue]infosets[reset]=%d [blue]belief_size[reset]=%d "+
			"[blue]avg_depth[reset]=%.2f [green]cfr_iterations[reset]=%d [green]expansions[reset]=%d "+
			"[blue]time[reset]=%dms [yellow]bootstrapped[reset]=%t",
		s.Nodes, s.Infosets, s.BeliefSize, s.AvgDepth, s.CFRIterations, s.Expansions, s.ElapsedMs, s.Bootstrapped,
	)
	return wordwrap.WrapString(colorstring.Color(line), 100)
}
