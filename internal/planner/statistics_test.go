package planner_test

import (
	"strings"
	"testing"

	"github.com/fowchess/planner/internal/planner"
)

func TestStatisticsStringIsKeyValue(t *testing.T) {
	s := planner.Statistics{
		Nodes: 10, Infosets: 3, BeliefSize: 5, AvgDepth: 1.5,
		CFRIterations: 42, Expansions: 7, ElapsedMs: 100,
	}
	got := s.String()
	for _, want := range []string{"nodes 10", "infosets 3", "belief_size 5", "cfr_iterations 42", "expansions 7"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want it to contain %q", got, want)
		}
	}
}
