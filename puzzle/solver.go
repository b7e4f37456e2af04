package puzzle

import "sort"

/*

Solver

*/

// The solver does an exhaustive depth-first search for a
// covering path, but like Theseus in the Labyrinth it carries a
// thread: every cell it commits to gets a frame recording the
// siblings it hasn't tried yet, so when a branch dead-ends it
// can walk the thread back to the most recent frame with an
// untried sibling and resume from there.  Using an explicit
// thread instead of recursion keeps the search iterative and
// makes the backtracking state inspectable.
//
// Candidate cells at each step are the unvisited orthogonal
// neighbors of the head that are either unlabeled or bear
// exactly the next required label.  They are tried in ascending
// order of remaining degree (the Warnsdorff heuristic): cells
// with few open neighbors are about to become unreachable, so
// visiting them first prunes hopeless branches early.

// A frame is one step of the thread: the cell the solver
// committed to, whether committing to it consumed a waypoint,
// and the sibling candidates not yet tried.
type frame struct {
	cell Position
	hit  bool
	next []Position
}

// A searcher holds the state of one solve: the visited set, the
// path so far, the index of the next waypoint to collect, and
// the thread of frames for cells the search committed to.  Cells
// that came in as the caller's prefix carry no frames, so the
// search can never backtrack into the prefix.
type searcher struct {
	grid    *Grid
	visited []bool
	cells   []Position
	need    int // index into grid.waypoints of next required label
	thread  []frame
}

// newSearcher returns a searcher seeded with the given cells
// already committed (and not backtrackable).  The cells are
// assumed legal; callers validate prefixes before solving.
func newSearcher(g *Grid, prefix []Position) *searcher {
	s := &searcher{
		grid:    g,
		visited: make([]bool, g.CellCount()),
		cells:   append([]Position(nil), prefix...),
	}
	for _, c := range prefix {
		s.visited[g.index(c)] = true
		if s.need < len(g.waypoints) && c == g.waypoints[s.need].Pos {
			s.need++
		}
	}
	return s
}

// run searches until it finds a covering path or exhausts the
// thread.  It returns the solution cells, or nil if no solution
// extends the seeded prefix.
func (s *searcher) run() []Position {
	for {
		if len(s.cells) == s.grid.CellCount() {
			if s.done() {
				return append([]Position(nil), s.cells...)
			}
			if !s.backtrack() {
				return nil
			}
			continue
		}
		cands := s.candidates()
		if len(cands) == 0 {
			if !s.backtrack() {
				return nil
			}
			continue
		}
		s.step(cands[0], cands[1:])
	}
}

// done reports whether the full path is a solution: every
// waypoint collected and the head on the final label.  The other
// solution conditions (coverage, adjacency, order) hold by
// construction of the search.
func (s *searcher) done() bool {
	return s.need == len(s.grid.waypoints) &&
		s.grid.Value(s.cells[len(s.cells)-1]) == s.grid.last().Label
}

// candidates returns the legal next cells from the head, in the
// order they should be tried.
func (s *searcher) candidates() []Position {
	head := s.cells[len(s.cells)-1]
	var buf [4]Position
	cands := buf[:0]
	for _, n := range s.grid.neighbors(head, nil) {
		if s.visited[s.grid.index(n)] {
			continue
		}
		if v := s.grid.Value(n); v != 0 && v != s.grid.waypoints[s.need].Label {
			continue
		}
		cands = append(cands, n)
	}
	if len(cands) > 1 {
		sort.SliceStable(cands, func(i, j int) bool {
			return s.degree(cands[i]) < s.degree(cands[j])
		})
	}
	return append([]Position(nil), cands...)
}

// degree counts the unvisited neighbors of pos.
func (s *searcher) degree(pos Position) int {
	count := 0
	for _, n := range s.grid.neighbors(pos, nil) {
		if !s.visited[s.grid.index(n)] {
			count++
		}
	}
	return count
}

// step commits to cell, recording the untried siblings on the
// thread.
func (s *searcher) step(cell Position, siblings []Position) {
	f := frame{cell: cell, next: siblings}
	s.visited[s.grid.index(cell)] = true
	s.cells = append(s.cells, cell)
	if s.need < len(s.grid.waypoints) && cell == s.grid.waypoints[s.need].Pos {
		s.need++
		f.hit = true
	}
	s.thread = append(s.thread, f)
}

// backtrack unwinds the most recent frame and, if it has an
// untried sibling, commits to that sibling in place.  It reports
// false when the thread is exhausted, which means the search
// space is too.
func (s *searcher) backtrack() bool {
	for len(s.thread) > 0 {
		f := &s.thread[len(s.thread)-1]
		s.visited[s.grid.index(f.cell)] = false
		s.cells = s.cells[:len(s.cells)-1]
		if f.hit {
			s.need--
		}
		if len(f.next) > 0 {
			cell := f.next[0]
			f.next = f.next[1:]
			f.cell = cell
			f.hit = false
			s.visited[s.grid.index(cell)] = true
			s.cells = append(s.cells, cell)
			if s.need < len(s.grid.waypoints) && cell == s.grid.waypoints[s.need].Pos {
				s.need++
				f.hit = true
			}
			return true
		}
		s.thread = s.thread[:len(s.thread)-1]
	}
	return false
}

/*

Entry points

*/

// Solve searches for a solution of the grid from scratch.  It
// returns the solution cells, or nil if the grid has no
// solution.  The first cell of any solution is forced (it must
// bear the lowest label), so the search is seeded with it.
func (g *Grid) Solve() []Position {
	return newSearcher(g, []Position{g.first().Pos}).run()
}

// SolveFrom searches for a solution that extends the given
// partial path.  The prefix must be a legal path over the grid
// (as built by Path); an illegal prefix returns an Error.  A nil
// result with a nil error means no solution extends the prefix.
// An already complete, solved prefix is returned as its own
// solution without searching.
func (g *Grid) SolveFrom(prefix []Position) ([]Position, error) {
	if len(prefix) == 0 {
		return g.Solve(), nil
	}
	if _, err := RestorePath(g, prefix, false); err != nil {
		return nil, err
	}
	if len(prefix) == g.CellCount() {
		if g.IsSolution(prefix) {
			return append([]Position(nil), prefix...), nil
		}
		return nil, nil
	}
	return newSearcher(g, prefix).run(), nil
}

/*

Hints

*/

// A HintStep is a single suggested move: extend the path from
// From to To.  For an empty path From and To are both the
// starting cell.
type HintStep struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Hint finds the next move on some solution extending the given
// partial path.  It returns false when no solution extends the
// path, and also when the path is already complete.  Different
// solutions may disagree about the best next move; the hint
// commits to whichever solution the solver finds first, which is
// deterministic for a given grid and prefix.
func (g *Grid) Hint(prefix []Position) (HintStep, bool) {
	soln, err := g.SolveFrom(prefix)
	if err != nil || soln == nil || len(soln) <= len(prefix) {
		return HintStep{}, false
	}
	if len(prefix) == 0 {
		return HintStep{From: soln[0], To: soln[0]}, true
	}
	return HintStep{From: prefix[len(prefix)-1], To: soln[len(prefix)]}, true
}
