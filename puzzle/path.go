package puzzle

/*

Move verdicts

*/

// A MoveVerdict is the outcome of a proposed path extension.
// Every proposal gets a verdict; bad moves are reported, never
// panicked over, because they come straight from player input.
type MoveVerdict int32

// The move verdicts.  The accepted verdicts come first, then the
// rejections.  MaxVerdict is a sentinel; keep it last.
const (
	// MoveOK: the path grew by one cell.
	MoveOK MoveVerdict = iota
	// MoveRewound: the target was already on the path, and the
	// path was truncated back to it.
	MoveRewound
	// MoveRepeat: the target is the current head; nothing
	// changed.  Repeated taps on the head are harmless.
	MoveRepeat
	// MoveSolved: the move completed the path and solved the
	// puzzle; the path is now frozen.
	MoveSolved
	// MoveFullUnsolved: the move filled the grid without
	// satisfying the solution conditions.  The move stands; the
	// player can still rewind.
	MoveFullUnsolved
	// MoveFrozen: the puzzle is already solved, so no moves are
	// possible.
	MoveFrozen
	// MoveWrongStart: an empty path may only start on the cell
	// bearing the lowest label.
	MoveWrongStart
	// MoveNotAdjacent: the target is not an orthogonal neighbor
	// of the head.
	MoveNotAdjacent
	// MoveCrossing: the target is already on the path and
	// rewinding was not allowed.
	MoveCrossing
	// MoveOutOfOrder: the target bears a label other than the
	// next one the path must collect.
	MoveOutOfOrder
	// MoveEarlyFinish: the target bears the final label but
	// cells remain unvisited.
	MoveEarlyFinish
	MaxVerdict
)

var verdictNames = map[MoveVerdict]string{
	MoveOK:           "ok",
	MoveRewound:      "rewound",
	MoveRepeat:       "repeat",
	MoveSolved:       "solved",
	MoveFullUnsolved: "fullUnsolved",
	MoveFrozen:       "frozen",
	MoveWrongStart:   "wrongStart",
	MoveNotAdjacent:  "notAdjacent",
	MoveCrossing:     "crossing",
	MoveOutOfOrder:   "outOfOrder",
	MoveEarlyFinish:  "earlyFinish",
}

// MoveVerdicts implement Stringer.  The names are the wire form
// used in API responses.
func (v MoveVerdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return "unknown"
}

// Accepted reports whether the verdict means the proposal was
// acted on (including the no-op repeat) rather than rejected.
func (v MoveVerdict) Accepted() bool {
	switch v {
	case MoveOK, MoveRewound, MoveRepeat, MoveSolved, MoveFullUnsolved:
		return true
	}
	return false
}

/*

Paths

*/

// A Path is a player's in-progress trail through a grid.  It is
// the mutable half of a puzzle: the Grid never changes, the Path
// grows and shrinks one cell at a time under the legality rules,
// and freezes permanently once it solves the grid.
//
// Paths are not safe for concurrent use; callers serialize
// access (the web server does this per session).
type Path struct {
	grid       *Grid
	cells      []Position
	visited    map[Position]int // position -> index in cells
	frozen     bool
	priorSolve bool // solved in an earlier session; blocks Reset
}

// NewPath returns an empty path over the given grid.
func NewPath(g *Grid) *Path {
	return &Path{grid: g, visited: make(map[Position]int)}
}

// RestorePath rebuilds a path from saved cells, replaying each
// cell through the move rules so that corrupt or stale saved
// state can't produce an illegal path.  solvedEarlier marks the
// puzzle as solved in a previous session, which freezes the path
// and additionally blocks Reset.
//
// When an error is returned it is always an Error value and the
// returned path is nil.
func RestorePath(g *Grid, cells []Position, solvedEarlier bool) (*Path, error) {
	p := NewPath(g)
	for _, c := range cells {
		if verdict := p.TryExtend(c, false); !verdict.Accepted() {
			return nil, Error{
				Scope:     PathScope,
				Structure: AttributeValueStructure,
				Attribute: LocationAttribute,
				Condition: InvalidMoveCondition,
				Values:    ErrorData{c, verdict},
			}
		}
	}
	if solvedEarlier {
		if !p.frozen {
			return nil, Error{
				Scope:     PathScope,
				Structure: ScopeStructure,
				Condition: GeneralCondition,
				Values:    ErrorData{"saved path marked solved but does not solve the grid"},
			}
		}
		p.priorSolve = true
	}
	return p, nil
}

// Grid returns the grid the path runs over.
func (p *Path) Grid() *Grid {
	return p.grid
}

// Cells returns the path's cells from start to head.  The return
// value does not share storage with the path.
func (p *Path) Cells() []Position {
	return append([]Position(nil), p.cells...)
}

// Len returns the number of cells on the path.
func (p *Path) Len() int {
	return len(p.cells)
}

// IsSolved reports whether the path has solved the grid.  Once
// true it stays true: the path freezes at the moment of solving.
func (p *Path) IsSolved() bool {
	return p.frozen
}

// TryExtend proposes moving the path's head to pos and returns
// the verdict.  When allowRewind is set and pos is already on
// the path (other than at the head), the path is truncated back
// so pos becomes the head again; otherwise such a move is
// rejected as a crossing.
//
// The checks run in a fixed order so that a given bad move
// always draws the same verdict: frozen, bounds, repeat/rewind,
// start rule, adjacency, early finish, label order.
func (p *Path) TryExtend(pos Position, allowRewind bool) MoveVerdict {
	if p.frozen {
		return MoveFrozen
	}
	if !p.grid.inBounds(pos) {
		if len(p.cells) == 0 {
			return MoveWrongStart
		}
		return MoveNotAdjacent
	}
	if i, on := p.visited[pos]; on {
		if i == len(p.cells)-1 {
			return MoveRepeat
		}
		if !allowRewind {
			return MoveCrossing
		}
		p.truncate(i + 1)
		return MoveRewound
	}
	if len(p.cells) == 0 {
		if p.grid.Value(pos) != p.grid.first().Label {
			return MoveWrongStart
		}
		return p.push(pos)
	}
	if !pos.adjacent(p.cells[len(p.cells)-1]) {
		return MoveNotAdjacent
	}
	if v := p.grid.Value(pos); v != 0 {
		if v == p.grid.last().Label && len(p.cells)+1 < p.grid.CellCount() {
			return MoveEarlyFinish
		}
		if v != p.nextLabel() {
			return MoveOutOfOrder
		}
	}
	return p.push(pos)
}

// UndoLast removes the head cell.  It is a no-op on an empty or
// frozen path.
func (p *Path) UndoLast() {
	if p.frozen || len(p.cells) == 0 {
		return
	}
	p.truncate(len(p.cells) - 1)
}

// Reset clears the path back to empty and reports whether it
// did.  A path frozen by a solve in an earlier session refuses
// to reset; a path solved in this session may be cleared so the
// player can immediately try again.
func (p *Path) Reset() bool {
	if p.frozen && p.priorSolve {
		return false
	}
	p.cells = p.cells[:0]
	p.visited = make(map[Position]int)
	p.frozen = false
	return true
}

// Replace substitutes a whole new cell sequence for the current
// path, replaying it through the move rules.  It is used by the
// reveal operation to install a solver result.  On any rejected
// cell the path is left unchanged and an Error is returned.
func (p *Path) Replace(cells []Position) error {
	if p.frozen {
		return Error{
			Scope:     PathScope,
			Structure: ScopeStructure,
			Condition: FrozenCondition,
		}
	}
	fresh, err := RestorePath(p.grid, cells, false)
	if err != nil {
		return err
	}
	p.cells = fresh.cells
	p.visited = fresh.visited
	p.frozen = fresh.frozen
	return nil
}

// nextLabel returns the next waypoint label the path must
// collect, or 0 if all waypoints are collected.
func (p *Path) nextLabel() int {
	for _, w := range p.grid.waypoints {
		if _, on := p.visited[w.Pos]; !on {
			return w.Label
		}
	}
	return 0
}

// push appends pos and returns the verdict for the grown path,
// freezing it if the grid is now full and solved.
func (p *Path) push(pos Position) MoveVerdict {
	p.visited[pos] = len(p.cells)
	p.cells = append(p.cells, pos)
	if len(p.cells) == p.grid.CellCount() {
		if p.grid.IsSolution(p.cells) {
			p.frozen = true
			return MoveSolved
		}
		return MoveFullUnsolved
	}
	return MoveOK
}

// truncate shortens the path to n cells.
func (p *Path) truncate(n int) {
	for _, c := range p.cells[n:] {
		delete(p.visited, c)
	}
	p.cells = p.cells[:n]
}
