package main

import (
	"fmt"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/fowchess/planner/internal/planner"
)

// dashboard is a live terminal view of search_statistics() while a
// "go" is in progress, grounded on the teacher's tuner progress
// display: pkg/search/eval/classical/tuner renders a live-updating
// report of the same shape (epoch, error, eta) while tuning runs; this
// renders nodes/infosets/cfr_iterations/expansions the same way while
// a plan_move runs.
type dashboard struct {
	panel *widgets.Paragraph
}

// startDashboard initializes the termui/termbox-go terminal and
// returns a stop function the caller must invoke exactly once, even on
// an early return, to restore the terminal (ui.Close()).
func startDashboard() (stop func(), err error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("dashboard: init: %w", err)
	}

	termWidth, termHeight := ui.TerminalDimensions()

	p := widgets.NewParagraph()
	p.Title = "fowplan search"
	p.Text = "starting..."
	p.SetRect(0, 0, termWidth, min(termHeight, 8))

	ui.Render(p)

	dash := &dashboard{panel: p}
	currentDashboard = dash

	return func() {
		currentDashboard = nil
		ui.Close()
	}, nil
}

// currentDashboard is the single live dashboard instance, if any; a
// host only ever drives one "go" at a time so this does not need
// synchronization beyond what OnTick's single-goroutine contract
// already gives it (internal/planner/config.go's OnTick doc).
var currentDashboard *dashboard

func updateDashboard(s planner.Statistics) {
	if currentDashboard == nil {
		return
	}
	currentDashboard.panel.Text = fmt.Sprintf(
		"nodes:       %d\ninfosets:    %d\nbelief_size: %d\navg_depth:   %.2f\ncfr_iters:   %d\nexpansions:  %d",
		s.Nodes, s.Infosets, s.BeliefSize, s.AvgDepth, s.CFRIterations, s.Expansions,
	)
	ui.Render(currentDashboard.panel)
}
