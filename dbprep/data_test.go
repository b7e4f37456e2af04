package dbprep

import (
	"testing"

	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
)

// The starter boards ship to every player, so besides the
// load-time check we assert their properties explicitly here.
func TestStarterPuzzles(t *testing.T) {
	ids := make(map[string]bool)
	for _, sp := range starterPuzzles {
		if sp.id == "" || sp.name == "" {
			t.Errorf("starter %q has missing metadata", sp.id)
		}
		if ids[sp.id] {
			t.Errorf("starter id %q is duplicated", sp.id)
		}
		ids[sp.id] = true
		g, err := puzzle.New(sp.summary)
		if err != nil {
			t.Errorf("starter %q is malformed: %v", sp.id, err)
			continue
		}
		soln := g.Solve()
		if soln == nil {
			t.Errorf("starter %q has no solution", sp.id)
			continue
		}
		if !g.IsSolution(soln) {
			t.Errorf("starter %q: solver returned a non-solution", sp.id)
		}
	}
	if !ids["starter-1"] {
		t.Errorf("default puzzle starter-1 is not among the starters")
	}
}
