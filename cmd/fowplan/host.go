// Package main implements fowplan, a demo command-line host around the
// planner core: a small read-eval-print loop accepting "position" and
// "go" commands, grounded on the teacher's internal/engine +
// pkg/uci.Client split between host glue and engine core
// (cmd/mess/main.go wires internal/engine.NewClient the same way this
// wires a Host around internal/planner.Planner).
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
	"github.com/fowchess/planner/internal/planner"
	"github.com/fowchess/planner/internal/rules"
)

// Host owns one Planner and the position it is currently tracking,
// analogous to the teacher's Engine wrapping a *search.Context.
type Host struct {
	rules   rules.Rules
	plan    *planner.Planner
	pos     rules.Position
	cfg     planner.Config
	history []planner.Statistics // tick-by-tick snapshots of the last "go", for the chart
}

// NewHost returns a Host seeded at the standard start position.
func NewHost() (*Host, error) {
	r := rules.Chess{}
	pos, err := r.Parse(chess.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("fowplan: new host: %w", err)
	}
	return &Host{
		rules: r,
		plan:  planner.New(r),
		pos:   pos,
		cfg:   planner.DefaultConfig(),
	}, nil
}

// Start runs the read-eval-print loop against in, writing replies and
// diagnostics to out, mirroring pkg/uci.Client.Start's bufio read loop.
func (h *Host) Start(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "fowplan> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		if err := h.dispatch(args, out); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Fprintln(out, "error:", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func (h *Host) dispatch(args []string, out io.Writer) error {
	name, rest := args[0], args[1:]
	switch name {
	case "quit", "exit":
		return errQuit
	case "position":
		return h.cmdPosition(rest)
	case "go":
		return h.cmdGo(rest, out)
	case "stats":
		fmt.Fprintln(out, colorizeStats(h.lastStats()))
		return nil
	case "d":
		fmt.Fprintln(out, h.pos)
		fmt.Fprintf(out, "static eval: %.3f\n", evaluator.ScorePosition(h.pos))
		return nil
	default:
		return fmt.Errorf("%s: command not found", name)
	}
}

// cmdPosition implements "position <fen...>" / "position startpos".
func (h *Host) cmdPosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("position: missing argument")
	}

	fen := strings.Join(args, " ")
	if args[0] == "startpos" {
		fen = chess.StartFEN
	}

	pos, err := h.rules.Parse(fen)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	h.pos = pos
	return nil
}

// cmdGo implements "go [movetime N] [dashboard] [chart]": runs one
// Planner.PlanMove call, optionally driving the live termui dashboard
// and/or rendering a go-echarts HTML report of the search afterward.
func (h *Host) cmdGo(args []string, out io.Writer) error {
	cfg := h.cfg
	wantDashboard := false
	wantChart := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "movetime":
			i++
			if i >= len(args) {
				return fmt.Errorf("go: movetime: missing value")
			}
			ms, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("go: movetime: %w", err)
			}
			cfg.MaxTimeMs = ms
		case "dashboard":
			wantDashboard = true
		case "chart":
			wantChart = true
		default:
			return fmt.Errorf("go: unrecognized argument %q", args[i])
		}
	}

	h.history = h.history[:0]
	cfg.OnTick = func(s planner.Statistics) {
		h.history = append(h.history, s)
	}

	if !cfg.EnableIncrementalBelief {
		tick, finish := beliefProgress(h.plan.BeliefEnumerationCap())
		h.plan.SetBeliefProgress(tick)
		defer finish()
	}

	var stopDashboard func()
	if wantDashboard {
		stop, err := startDashboard()
		if err != nil {
			fmt.Fprintln(out, "dashboard: falling back to plain output:", err)
		} else {
			stopDashboard = stop
			tick := cfg.OnTick
			cfg.OnTick = func(s planner.Statistics) {
				tick(s)
				updateDashboard(s)
			}
		}
	}

	start := time.Now()
	move, stats, err := h.plan.PlanMove(h.pos, cfg, uint64(start.UnixNano()))
	if stopDashboard != nil {
		stopDashboard()
	}
	if err != nil {
		return fmt.Errorf("go: %w", err)
	}

	h.history = append(h.history, stats)
	h.pos = h.rules.Apply(h.pos, move)

	fmt.Fprintf(out, "bestmove %s\n", move)
	fmt.Fprintln(out, colorizeStats(stats))

	if wantChart {
		path, err := renderChart(h.history)
		if err != nil {
			fmt.Fprintln(out, "chart:", err)
		} else {
			fmt.Fprintln(out, "chart written to", path)
		}
	}

	return nil
}

func (h *Host) lastStats() planner.Statistics {
	if len(h.history) == 0 {
		return planner.Statistics{}
	}
	return h.history[len(h.history)-1]
}
