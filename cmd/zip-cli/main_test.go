package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leonbriscoe/Kiaras-Zip/dbprep"
	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
	"github.com/leonbriscoe/Kiaras-Zip/storage"
)

// Most of these tests run commands against live storage
// services, so they are skipped when the services aren't
// reachable.  The parsing tests always run.
var storageUp bool

func TestMain(m *testing.M) {
	os.Setenv("DBPREP_PATH", filepath.Join("..", "..", "dbprep", "migrations"))
	if err := dbprep.ClearCache(); err != nil {
		log.Printf("No cache available, running parse tests only: %v", err)
	} else if err := dbprep.ReinitializeAll(); err != nil {
		log.Printf("Couldn't reinitialize storage, running parse tests only: %v", err)
	} else if _, _, err := storage.Connect(); err != nil {
		log.Printf("Couldn't connect to storage, running parse tests only: %v", err)
	} else {
		storageUp = true
	}
	result := m.Run()
	if storageUp {
		storage.Close()
	}
	os.Exit(result)
}

func requireStorage(t *testing.T) {
	if !storageUp {
		t.Skip("storage services not available")
	}
}

// runScript feeds commands to the listener and returns the output.
func runScript(t *testing.T, script string) string {
	in := bytes.NewBufferString(script)
	out := new(bytes.Buffer)
	if err := listener(out, in); err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	return out.String()
}

func TestParseCell(t *testing.T) {
	good := []struct {
		idx string
		pos puzzle.Position
	}{
		{"a1", puzzle.Position{Row: 0, Col: 0}},
		{"a3", puzzle.Position{Row: 0, Col: 2}},
		{"c1", puzzle.Position{Row: 2, Col: 0}},
		{"c3", puzzle.Position{Row: 2, Col: 2}},
	}
	for i, tc := range good {
		pos, err := parseCell(tc.idx, 3)
		if err != nil {
			t.Errorf("case %d: parse of %q failed: %v", i, tc.idx, err)
		}
		if pos != tc.pos {
			t.Errorf("case %d: parse of %q gave %v, expected %v", i, tc.idx, pos, tc.pos)
		}
	}
	bad := []string{"", "a", "3", "d1", "a4", "a0", "ax", "1a"}
	for i, idx := range bad {
		if pos, err := parseCell(idx, 3); err == nil {
			t.Errorf("case %d: parse of %q gave %v, expected an error", i, idx, pos)
		}
	}
}

func TestCellName(t *testing.T) {
	for _, idx := range []string{"a1", "b3", "d4"} {
		pos, err := parseCell(idx, 4)
		if err != nil {
			t.Fatalf("parse of %q failed: %v", idx, err)
		}
		if name := cellName(pos); name != idx {
			t.Errorf("cellName(%v) = %q, expected %q", pos, name, idx)
		}
	}
}

func TestNullInput(t *testing.T) {
	requireStorage(t)
	out := runScript(t, "")
	if out != "" {
		t.Errorf("Null input produced output: %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	requireStorage(t)
	out := runScript(t, "session test-cli-unknown\nfrobnicate\n")
	if !strings.Contains(out, "Usage:") {
		t.Errorf("Unknown command gave no usage message: %q", out)
	}
}

func TestMarkdownToggle(t *testing.T) {
	requireStorage(t)
	defer func() { useMarkdown = false }()
	out := runScript(t, "session test-cli-markdown\nmarkdown\n")
	if !strings.Contains(out, "Markdown is off\n") {
		t.Errorf("Expected markdown off report, got %q", out)
	}
	out = runScript(t, "reset starter-1\nmove a1\nmove a2\nmarkdown on\nmarkdown\n")
	if !strings.Contains(out, "Markdown is on\n") {
		t.Errorf("Expected markdown on report, got %q", out)
	}
	if !strings.Contains(out, "|") {
		t.Errorf("Expected a Markdown table in %q", out)
	}
	// the drawn path shows in markdown mode too
	if !strings.Contains(out, "* |") {
		t.Errorf("Expected the path head in the Markdown table, got %q", out)
	}
}

func TestPlayThrough(t *testing.T) {
	requireStorage(t)
	script := "session test-cli-play\nreset mini-1\n" +
		"move a1\nmove b1\nmove c1\nmove c2\nmove b2\n" +
		"move a2\nmove a3\nmove b3\nmove c3\n"
	out := runScript(t, script)
	if !strings.Contains(out, "Solved!") {
		t.Errorf("Play-through did not report a solve: %q", out)
	}

	// the recorded solve survives a rebuilt session
	out = runScript(t, "summary\n")
	if !strings.Contains(out, "The puzzle is solved.") {
		t.Errorf("Summary after solve: %q", out)
	}
}

func TestRefusedMove(t *testing.T) {
	requireStorage(t)
	out := runScript(t, "session test-cli-refused\nreset mini-1\nmove b2\n")
	if !strings.Contains(out, "refused") {
		t.Errorf("Move off the first waypoint was not refused: %q", out)
	}
}

func TestHintCommand(t *testing.T) {
	requireStorage(t)
	out := runScript(t, "session test-cli-hint\nreset mini-1\nhint\n")
	if !strings.Contains(out, "Start at a1.") {
		t.Errorf("Hint on an empty path: %q", out)
	}
	out = runScript(t, "move a1\nhint\n")
	if !strings.Contains(out, "From a1, draw to ") {
		t.Errorf("Hint after one move: %q", out)
	}
}

func TestRevealCommand(t *testing.T) {
	requireStorage(t)
	out := runScript(t, "session test-cli-reveal\nreset mini-1\nreveal\nsummary\n")
	if !strings.Contains(out, "The puzzle is solved.") {
		t.Errorf("Reveal did not complete the path: %q", out)
	}

	// a revealed solve can still be started over
	out = runScript(t, "reset\nsummary\n")
	if strings.Contains(out, "The puzzle is solved.") {
		t.Errorf("Reset after reveal kept the solved path: %q", out)
	}
}
