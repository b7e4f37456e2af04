package puzzle

import "testing"

func TestValuesString(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	expected := " 1  2\n .  .\n"
	if got := g.ValuesString(); got != expected {
		t.Errorf("values string:\n%q\nexpected:\n%q", got, expected)
	}
}

func TestTrailString(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	// path (0,0) (1,0): labels win over glyphs, head gets a star
	got := g.TrailString([]Position{{0, 0}, {1, 0}})
	expected := " 1  2\n *  .\n"
	if got != expected {
		t.Errorf("trail string:\n%q\nexpected:\n%q", got, expected)
	}
	// unlabeled visited cells show exit direction
	three := testGrid(t, 3, threeValues)
	got = three.TrailString([]Position{{0, 0}, {0, 1}, {0, 2}, {1, 2}})
	expected = " 1  >  v\n .  2  *\n .  .  3\n"
	if got != expected {
		t.Errorf("trail string:\n%q\nexpected:\n%q", got, expected)
	}
}

func TestValuesMarkdown(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	expected := "| 0 | 1 |\n|:-:|:-:|\n| 1 | 2 |\n|   |   |\n"
	if got := g.ValuesMarkdown(); got != expected {
		t.Errorf("markdown:\n%q\nexpected:\n%q", got, expected)
	}
}

func TestTrailMarkdown(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	// the drawn path shows in the table the same way it does in
	// the plain rendering
	got := g.TrailMarkdown([]Position{{0, 0}, {1, 0}})
	expected := "| 0 | 1 |\n|:-:|:-:|\n| 1 | 2 |\n| * |   |\n"
	if got != expected {
		t.Errorf("trail markdown:\n%q\nexpected:\n%q", got, expected)
	}
	three := testGrid(t, 3, threeValues)
	got = three.TrailMarkdown([]Position{{0, 0}, {0, 1}, {0, 2}, {1, 2}})
	expected = "| 0 | 1 | 2 |\n|:-:|:-:|:-:|\n" +
		"| 1 | > | v |\n|   | 2 | * |\n|   |   | 3 |\n"
	if got != expected {
		t.Errorf("trail markdown:\n%q\nexpected:\n%q", got, expected)
	}
}
