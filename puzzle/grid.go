// Package puzzle provides a model for Zip puzzles and operations
// on them.  It supports both a golang interface and a web
// interface to the puzzles.
//
// In this package, a Zip puzzle is a square grid of cells, some
// of which carry positive integer labels (the waypoints).  The
// player draws a single path through the grid that visits every
// cell exactly once, starts on the lowest-labeled cell, ends on
// the highest-labeled cell, and passes through the labeled cells
// in ascending label order.  Cells with a 0 value are unlabeled;
// the path may cross them in any order.
//
// The package tracks the player's path as it grows and shrinks
// (see Path), decides whether each proposed step is legal (see
// MoveVerdict), and can search for a complete solution from any
// legal partial path (see Solve and SolveFrom).
package puzzle

import (
	"fmt"
	"sort"
)

/*

Positions

*/

// A Position names a grid cell by row and column, 0-indexed from
// the top-left corner.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Positions implement Stringer
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// adjacent reports whether two positions are orthogonal
// neighbors (Manhattan distance 1).
func (p Position) adjacent(o Position) bool {
	dr, dc := p.Row-o.Row, p.Col-o.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr+dc == 1
}

/*

Grids

*/

// A Summary is the stored and transmitted form of a grid: the
// side length and the cell values in row-major order, with 0
// meaning an unlabeled cell.  Summaries are what the storage
// layer persists and what clients post to create puzzles.
type Summary struct {
	SideLength int   `json:"sidelen"`
	Values     []int `json:"values"`
}

// A Waypoint is a labeled cell that the path must visit, in
// ascending label order relative to the other waypoints.
type Waypoint struct {
	Label int      `json:"label"`
	Pos   Position `json:"pos"`
}

// A Grid is the immutable board of a Zip puzzle: the cell values
// plus the waypoint sequence derived from them.  Grids are
// created by New and never modified afterward, so they can be
// shared freely between a player's Path and the solver.
type Grid struct {
	sidelen   int
	values    []int      // row-major; 0 = unlabeled
	waypoints []Waypoint // ascending label order
}

// New either returns a Grid for the given summary or an error
// describing why the summary can't be a Zip board.  The checks
// here are the fatal load-time ones: the value list must be
// square, labels must be positive and unique, and there must be
// at least one waypoint.  (A grid with no waypoints has no
// defined start or finish, so it is rejected here rather than
// special-cased throughout the package.)
//
// When an error is returned from this function it is always an
// Error value.
func New(summary *Summary) (*Grid, error) {
	if summary == nil || len(summary.Values) == 0 {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: ScopeStructure,
			Condition: EmptyArgumentCondition,
		}
	}
	slen := summary.SideLength
	if slen < 1 {
		return nil, rangeError(SideLengthAttribute, slen, 1, maxSideLength)
	}
	if slen > maxSideLength {
		return nil, rangeError(SideLengthAttribute, slen, 1, maxSideLength)
	}
	if len(summary.Values) != slen*slen {
		return nil, Error{
			Scope:     GridScope,
			Structure: AttributeValueStructure,
			Attribute: GridSizeAttribute,
			Condition: WrongGridSizeCondition,
			Values:    ErrorData{len(summary.Values), slen},
		}
	}
	g := &Grid{sidelen: slen, values: append([]int(nil), summary.Values...)}
	seen := make(map[int]Position)
	for i, v := range g.values {
		if v < 0 {
			return nil, rangeError(ValueAttribute, v, 0, slen*slen)
		}
		if v == 0 {
			continue
		}
		pos := Position{Row: i / slen, Col: i % slen}
		if prior, dup := seen[v]; dup {
			return nil, Error{
				Scope:     GridScope,
				Structure: AttributeValueStructure,
				Attribute: LabelAttribute,
				Condition: DuplicateLabelCondition,
				Values:    ErrorData{v, prior, pos},
			}
		}
		seen[v] = pos
		g.waypoints = append(g.waypoints, Waypoint{Label: v, Pos: pos})
	}
	if len(g.waypoints) == 0 {
		return nil, Error{
			Scope:     GridScope,
			Structure: ScopeStructure,
			Condition: NoWaypointsCondition,
		}
	}
	sort.Slice(g.waypoints, func(i, j int) bool {
		return g.waypoints[i].Label < g.waypoints[j].Label
	})
	return g, nil
}

// The largest side length we accept.  Solving is exhaustive
// search, so boards are expected to stay small; this bound just
// keeps malformed summaries from allocating absurd grids.
const maxSideLength = 64

// SideLength returns the side length of the grid.
func (g *Grid) SideLength() int {
	return g.sidelen
}

// CellCount returns the total number of cells, which is also the
// length of every complete path.
func (g *Grid) CellCount() int {
	return g.sidelen * g.sidelen
}

// Summary returns the summary form of the grid.  The return
// value does not share storage with the grid.
func (g *Grid) Summary() *Summary {
	return &Summary{
		SideLength: g.sidelen,
		Values:     append([]int(nil), g.values...),
	}
}

// Waypoints returns the grid's waypoints in ascending label
// order.  The return value does not share storage with the grid.
func (g *Grid) Waypoints() []Waypoint {
	return append([]Waypoint(nil), g.waypoints...)
}

// Value returns the label of the cell at pos, 0 for unlabeled
// cells.  The position must be in bounds.
func (g *Grid) Value(pos Position) int {
	return g.values[g.index(pos)]
}

// first returns the starting waypoint (minimum label).
func (g *Grid) first() Waypoint {
	return g.waypoints[0]
}

// last returns the finishing waypoint (maximum label).
func (g *Grid) last() Waypoint {
	return g.waypoints[len(g.waypoints)-1]
}

// index maps a position to its row-major cell index.
func (g *Grid) index(pos Position) int {
	return pos.Row*g.sidelen + pos.Col
}

// inBounds reports whether pos names a cell of the grid.
func (g *Grid) inBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.sidelen && pos.Col >= 0 && pos.Col < g.sidelen
}

// neighbors appends the in-bounds orthogonal neighbors of pos to
// buf and returns it.  The enumeration order (up, left, right,
// down) is fixed so that searches are deterministic.
func (g *Grid) neighbors(pos Position, buf []Position) []Position {
	for _, n := range [4]Position{
		{pos.Row - 1, pos.Col},
		{pos.Row, pos.Col - 1},
		{pos.Row, pos.Col + 1},
		{pos.Row + 1, pos.Col},
	} {
		if g.inBounds(n) {
			buf = append(buf, n)
		}
	}
	return buf
}

/*

Solution checking

*/

// IsSolution reports whether cells is a complete solution of the
// grid: a self-avoiding path of orthogonally adjacent cells that
// covers every cell, starts on the minimum label, ends on the
// maximum label, and visits the waypoints in ascending label
// order.  All conditions are checked independently of how the
// path was built, so solver output and replayed player paths can
// be validated with the same predicate.
func (g *Grid) IsSolution(cells []Position) bool {
	if len(cells) != g.CellCount() {
		return false
	}
	seen := make([]bool, g.CellCount())
	for i, c := range cells {
		if !g.inBounds(c) || seen[g.index(c)] {
			return false
		}
		seen[g.index(c)] = true
		if i > 0 && !c.adjacent(cells[i-1]) {
			return false
		}
	}
	if g.Value(cells[0]) != g.first().Label {
		return false
	}
	if g.Value(cells[len(cells)-1]) != g.last().Label {
		return false
	}
	// waypoint indices must increase with label order
	at := make(map[Position]int, len(cells))
	for i, c := range cells {
		at[c] = i
	}
	prior := -1
	for _, w := range g.waypoints {
		i, ok := at[w.Pos]
		if !ok || i <= prior {
			return false
		}
		prior = i
	}
	return true
}
