package puzzle

import (
	"reflect"
	"testing"
)

func TestSolve(t *testing.T) {
	testcases := []struct {
		sidelen int
		values  []int
	}{
		{2, tinyValues},
		{3, threeValues},
		{4, fourValues},
		{1, []int{1}},
	}
	for i, tc := range testcases {
		g := testGrid(t, tc.sidelen, tc.values)
		soln := g.Solve()
		if soln == nil {
			t.Errorf("case %d: no solution found", i)
			continue
		}
		if !g.IsSolution(soln) {
			t.Errorf("case %d: solver returned a non-solution: %v", i, soln)
		}
	}
}

func TestSolveUnsolvable(t *testing.T) {
	// diagonal endpoints on a 2x2 are unreachable from each
	// other by any covering path
	g := testGrid(t, 2, diagonalValues)
	if soln := g.Solve(); soln != nil {
		t.Errorf("found a solution for an unsolvable grid: %v", soln)
	}
}

func TestSolveDeterministic(t *testing.T) {
	g := testGrid(t, 4, fourValues)
	first := g.Solve()
	for i := 0; i < 3; i++ {
		if again := g.Solve(); !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d: solver is not deterministic: %v vs %v", i, again, first)
		}
	}
}

func TestSolveFrom(t *testing.T) {
	g := testGrid(t, 4, fourValues)
	prefix := []Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 3}}
	soln, err := g.SolveFrom(prefix)
	if err != nil {
		t.Fatalf("solve from legal prefix failed: %v", err)
	}
	if soln == nil {
		t.Fatalf("no solution extends prefix %v", prefix)
	}
	if !reflect.DeepEqual(soln[:len(prefix)], prefix) {
		t.Errorf("solution does not extend the prefix: %v", soln)
	}
	if !g.IsSolution(soln) {
		t.Errorf("extended solution is not a solution: %v", soln)
	}
}

func TestSolveFromEmptyPrefix(t *testing.T) {
	g := testGrid(t, 3, threeValues)
	soln, err := g.SolveFrom(nil)
	if err != nil {
		t.Fatalf("solve from empty prefix failed: %v", err)
	}
	if !reflect.DeepEqual(soln, g.Solve()) {
		t.Errorf("empty prefix solve differs from Solve: %v", soln)
	}
}

func TestSolveFromFullPath(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	soln, err := g.SolveFrom(tinySolution)
	if err != nil {
		t.Fatalf("solve from complete solution failed: %v", err)
	}
	if !reflect.DeepEqual(soln, tinySolution) {
		t.Errorf("complete solution not returned verbatim: %v", soln)
	}
}

func TestSolveFromIllegalPrefix(t *testing.T) {
	g := testGrid(t, 3, threeValues)
	testcases := [][]Position{
		{{1, 1}},                 // wrong start
		{{0, 0}, {2, 2}},         // not adjacent
		{{0, 0}, {0, 1}, {0, 0}}, // crossing
	}
	for i, prefix := range testcases {
		if soln, err := g.SolveFrom(prefix); err == nil {
			t.Errorf("case %d: illegal prefix accepted, solution %v", i, soln)
		}
	}
}

func TestSolveFromDeadEnd(t *testing.T) {
	// legal prefix that strands (0,2): it becomes a cul-de-sac
	// only reachable as a path endpoint, but the path must end
	// on (2,2)
	g := testGrid(t, 3, threeValues)
	prefix := []Position{{0, 0}, {0, 1}, {1, 1}}
	soln, err := g.SolveFrom(prefix)
	if err != nil {
		t.Fatalf("solve from dead-end prefix failed: %v", err)
	}
	if soln != nil {
		t.Errorf("found a completion of a dead-end prefix: %v", soln)
	}
}

func TestHint(t *testing.T) {
	g := testGrid(t, 4, fourValues)
	// an empty path gets the starting cell
	step, found := g.Hint(nil)
	if !found {
		t.Fatalf("no hint for empty path")
	}
	if step.From != (Position{0, 0}) || step.To != (Position{0, 0}) {
		t.Errorf("empty-path hint: got %+v", step)
	}
	// hints from a partial path extend its head
	prefix := []Position{{0, 0}, {0, 1}}
	step, found = g.Hint(prefix)
	if !found {
		t.Fatalf("no hint for partial path")
	}
	if step.From != prefix[len(prefix)-1] {
		t.Errorf("hint From is not the head: %+v", step)
	}
	if !step.To.adjacent(step.From) {
		t.Errorf("hint To is not adjacent to the head: %+v", step)
	}
	// and following hints forever solves the puzzle
	p := NewPath(g)
	for !p.IsSolved() {
		step, found := g.Hint(p.Cells())
		if !found {
			t.Fatalf("hint trail went cold at %v", p.Cells())
		}
		if verdict := p.TryExtend(step.To, false); !verdict.Accepted() {
			t.Fatalf("hint %+v rejected with %v", step, verdict)
		}
	}
}

func TestHintNone(t *testing.T) {
	g := testGrid(t, 2, diagonalValues)
	if step, found := g.Hint(nil); found {
		t.Errorf("hint for unsolvable grid: %+v", step)
	}
	solvable := testGrid(t, 2, tinyValues)
	if step, found := solvable.Hint(tinySolution); found {
		t.Errorf("hint for complete solution: %+v", step)
	}
	dead := testGrid(t, 3, threeValues)
	if step, found := dead.Hint([]Position{{0, 0}, {0, 1}, {1, 1}}); found {
		t.Errorf("hint for dead-end path: %+v", step)
	}
}

func TestCandidateOrdering(t *testing.T) {
	// from the start of the 4x4 snake grid, (1,0) has more open
	// neighbors than the corner-adjacent cells do after a short
	// walk; check that the low-degree candidate is tried first
	g := testGrid(t, 4, fourValues)
	s := newSearcher(g, []Position{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	cands := s.candidates()
	if len(cands) != 1 || cands[0] != (Position{0, 2}) {
		t.Fatalf("candidates from (0,1): %v", cands)
	}
	// from the center, the lower-degree edge cell comes first
	s = newSearcher(g, []Position{{0, 0}, {0, 1}, {0, 2}, {1, 2}})
	cands = s.candidates()
	if len(cands) == 0 {
		t.Fatalf("no candidates from (1,2)")
	}
	for i := 1; i < len(cands); i++ {
		if s.degree(cands[i-1]) > s.degree(cands[i]) {
			t.Errorf("candidates not in ascending degree order: %v", cands)
		}
	}
}
