package puzzle

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func postJSON(t *testing.T, body interface{}) *http.Request {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode request body: %v", err)
	}
	return httptest.NewRequest("POST", "/api/move", bytes.NewReader(encoded))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("response Content-Type is %q", ct)
	}
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestStateHandler(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	p := NewPath(g)
	p.TryExtend(Position{0, 0}, false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/state", nil)
	if err := StateHandler(p, w, r); err != nil {
		t.Fatalf("state handler failed: %v", err)
	}
	var state State
	decodeBody(t, w, &state)
	if state.SideLength != 2 || !reflect.DeepEqual(state.Values, tinyValues) {
		t.Errorf("state grid: %+v", state)
	}
	if !reflect.DeepEqual(state.Cells, []Position{{0, 0}}) || state.Solved {
		t.Errorf("state path: %+v", state)
	}
	if len(state.Waypoints) != 2 {
		t.Errorf("state waypoints: %+v", state.Waypoints)
	}
}

func TestMoveHandler(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	p := NewPath(g)
	testcases := []struct {
		move     Move
		verdict  string
		accepted bool
		solved   bool
	}{
		{Move{Row: 1, Col: 1}, "wrongStart", false, false},
		{Move{Row: 0, Col: 0}, "ok", true, false},
		{Move{Row: 1, Col: 0}, "ok", true, false},
		{Move{Row: 1, Col: 1}, "ok", true, false},
		{Move{Row: 0, Col: 1, Elapsed: 42}, "solved", true, true},
		{Move{Row: 1, Col: 1}, "frozen", false, false},
	}
	for i, tc := range testcases {
		w := httptest.NewRecorder()
		result, err := MoveHandler(p, w, postJSON(t, tc.move))
		if err != nil {
			t.Fatalf("case %d: move handler failed: %v", i, err)
		}
		if w.Code != http.StatusOK {
			t.Errorf("case %d: status %d", i, w.Code)
		}
		if result.Verdict != tc.verdict || result.Accepted != tc.accepted || result.Solved != tc.solved {
			t.Errorf("case %d: got %+v", i, result)
		}
		if result.Elapsed != tc.move.Elapsed {
			t.Errorf("case %d: elapsed not echoed: %+v", i, result)
		}
		var wire MoveResult
		decodeBody(t, w, &wire)
		if wire.Verdict != tc.verdict {
			t.Errorf("case %d: wire verdict %q", i, wire.Verdict)
		}
	}
}

func TestMoveHandlerBadBody(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	p := NewPath(g)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/move", bytes.NewReader([]byte("not json")))
	if _, err := MoveHandler(p, w, r); err == nil {
		t.Fatalf("malformed body accepted")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d for malformed body", w.Code)
	}
	if p.Len() != 0 {
		t.Errorf("malformed body changed the path")
	}
}

func TestUndoHandler(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	p := NewPath(g)
	p.TryExtend(Position{0, 0}, false)
	p.TryExtend(Position{1, 0}, false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/undo", nil)
	if err := UndoHandler(p, w, r); err != nil {
		t.Fatalf("undo handler failed: %v", err)
	}
	var state State
	decodeBody(t, w, &state)
	if !reflect.DeepEqual(state.Cells, []Position{{0, 0}}) {
		t.Errorf("state after undo: %+v", state.Cells)
	}
}

func TestHintHandler(t *testing.T) {
	g := testGrid(t, 2, tinyValues)
	p := NewPath(g)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/hint", nil)
	if err := HintHandler(p, w, r); err != nil {
		t.Fatalf("hint handler failed: %v", err)
	}
	var result HintResult
	decodeBody(t, w, &result)
	if !result.Found || result.Step == nil || result.Step.To != (Position{0, 0}) {
		t.Errorf("hint result: %+v", result)
	}

	// no hint on an unsolvable grid; a fresh result, since
	// decoding an absent step field leaves an old pointer alone
	unsolvable := NewPath(testGrid(t, 2, diagonalValues))
	w = httptest.NewRecorder()
	if err := HintHandler(unsolvable, w, r); err != nil {
		t.Fatalf("hint handler failed: %v", err)
	}
	result = HintResult{}
	decodeBody(t, w, &result)
	if result.Found || result.Step != nil {
		t.Errorf("hint on unsolvable grid: %+v", result)
	}
}

func TestRevealHandler(t *testing.T) {
	g := testGrid(t, 3, threeValues)
	p := NewPath(g)
	p.TryExtend(Position{0, 0}, false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/reveal", nil)
	if err := RevealHandler(p, w, r); err != nil {
		t.Fatalf("reveal handler failed: %v", err)
	}
	var state State
	decodeBody(t, w, &state)
	if !state.Solved || len(state.Cells) != g.CellCount() {
		t.Errorf("state after reveal: solved=%v cells=%v", state.Solved, state.Cells)
	}
	if !p.IsSolved() {
		t.Errorf("reveal did not freeze the path")
	}
}

func TestRevealHandlerDeadEnd(t *testing.T) {
	// no solution extends this path, so reveal restarts from
	// scratch and replaces it wholesale
	g := testGrid(t, 3, threeValues)
	p, err := RestorePath(g, []Position{{0, 0}, {0, 1}, {1, 1}}, false)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/reveal", nil)
	if err := RevealHandler(p, w, r); err != nil {
		t.Fatalf("reveal handler failed: %v", err)
	}
	if !p.IsSolved() {
		t.Errorf("dead-end reveal did not solve the puzzle")
	}
}

func TestRevealHandlerUnsolvable(t *testing.T) {
	p := NewPath(testGrid(t, 2, diagonalValues))
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/reveal", nil)
	if err := RevealHandler(p, w, r); err == nil {
		t.Fatalf("reveal of unsolvable grid succeeded")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d for unsolvable reveal", w.Code)
	}
}
