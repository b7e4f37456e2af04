package puzzle

import (
	"bytes"
	"fmt"
)

/*

String renderings

*/

// vstr gives the display form of a cell value: a dot for
// unlabeled cells, the label otherwise.  Labels are small in
// practice (one per waypoint), so two digits of width is enough
// for any board a person would play.
func vstr(value int) string {
	if value == 0 {
		return " ."
	}
	return fmt.Sprintf("%2d", value)
}

// ValuesString returns a multi-line rendering of the grid's
// cells, one row per line, for logs and the command line.
func (g *Grid) ValuesString() string {
	var buf bytes.Buffer
	for r := 0; r < g.sidelen; r++ {
		for c := 0; c < g.sidelen; c++ {
			if c > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(vstr(g.values[r*g.sidelen+c]))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// trail glyphs: the direction the path leaves each cell in.
var trailGlyphs = map[Position]string{
	{0, 1}:  " >",
	{0, -1}: " <",
	{1, 0}:  " v",
	{-1, 0}: " ^",
}

// trailMarks maps each visited cell to its glyph: the direction
// the path leaves it in, or a star at the head.
func trailMarks(cells []Position) map[Position]string {
	marks := make(map[Position]string, len(cells))
	for i, c := range cells {
		if i+1 < len(cells) {
			next := cells[i+1]
			marks[c] = trailGlyphs[Position{next.Row - c.Row, next.Col - c.Col}]
		} else {
			marks[c] = " *"
		}
	}
	return marks
}

// TrailString returns a multi-line rendering of the path over
// the grid.  Labeled cells show their labels, visited unlabeled
// cells show the direction the path leaves them in, the head
// shows a star, and unvisited unlabeled cells show a dot.
func (g *Grid) TrailString(cells []Position) string {
	marks := trailMarks(cells)
	var buf bytes.Buffer
	for r := 0; r < g.sidelen; r++ {
		for c := 0; c < g.sidelen; c++ {
			if c > 0 {
				buf.WriteString(" ")
			}
			pos := Position{r, c}
			if v := g.Value(pos); v != 0 {
				buf.WriteString(vstr(v))
			} else if mark, on := marks[pos]; on {
				buf.WriteString(mark)
			} else {
				buf.WriteString(" .")
			}
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// markdownHeader writes the column-number header and alignment
// rows of a board table.
func (g *Grid) markdownHeader(buf *bytes.Buffer) {
	buf.WriteString("|")
	for c := 0; c < g.sidelen; c++ {
		fmt.Fprintf(buf, " %d |", c)
	}
	buf.WriteString("\n|")
	for c := 0; c < g.sidelen; c++ {
		buf.WriteString(":-:|")
	}
	buf.WriteString("\n")
}

// ValuesMarkdown returns the grid's cells as a Markdown table,
// for chat and documentation use.
func (g *Grid) ValuesMarkdown() string {
	var buf bytes.Buffer
	g.markdownHeader(&buf)
	for r := 0; r < g.sidelen; r++ {
		buf.WriteString("|")
		for c := 0; c < g.sidelen; c++ {
			if v := g.values[r*g.sidelen+c]; v != 0 {
				fmt.Fprintf(&buf, " %d |", v)
			} else {
				buf.WriteString("   |")
			}
		}
		buf.WriteString("\n")
	}
	return buf.String()
}

// TrailMarkdown returns the path over the grid as a Markdown
// table: the Markdown counterpart of TrailString, with the same
// glyphs and blanks for unvisited unlabeled cells.
func (g *Grid) TrailMarkdown(cells []Position) string {
	marks := trailMarks(cells)
	var buf bytes.Buffer
	g.markdownHeader(&buf)
	for r := 0; r < g.sidelen; r++ {
		buf.WriteString("|")
		for c := 0; c < g.sidelen; c++ {
			pos := Position{r, c}
			if v := g.Value(pos); v != 0 {
				fmt.Fprintf(&buf, " %d |", v)
			} else if mark, on := marks[pos]; on {
				fmt.Fprintf(&buf, "%s |", mark)
			} else {
				buf.WriteString("   |")
			}
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
