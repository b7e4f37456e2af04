package puzzle

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

/*

Web service types

*/

// State is the wire form of a puzzle in play: the grid summary,
// the waypoints (so clients need not rederive them), and the
// player's path.
type State struct {
	SideLength int        `json:"sidelen"`
	Values     []int      `json:"values"`
	Waypoints  []Waypoint `json:"waypoints"`
	Cells      []Position `json:"cells"`
	Solved     bool       `json:"solved"`
}

// A Move is a client's proposed path extension.  Elapsed is the
// client's running play clock in seconds; the service just
// passes it through so a solving move can be recorded with its
// time.
type Move struct {
	Row         int  `json:"row"`
	Col         int  `json:"col"`
	AllowRewind bool `json:"allowRewind"`
	Elapsed     int  `json:"elapsed"`
}

// A MoveResult reports what a proposed move did.  Every legal
// request gets a 200 with one of these, even for rejected moves;
// rejection is a game outcome, not a transport failure.
type MoveResult struct {
	Verdict  string     `json:"verdict"`
	Accepted bool       `json:"accepted"`
	Solved   bool       `json:"solved"`
	Cells    []Position `json:"cells"`
	Elapsed  int        `json:"-"` // echoed for the caller, not the client
}

// A HintResult reports whether a hint was found and, if so, the
// suggested step.
type HintResult struct {
	Found bool      `json:"found"`
	Step  *HintStep `json:"step,omitempty"`
}

/*

Handlers

*/

// StateHandler responds with the current state of the puzzle.
func StateHandler(p *Path, w http.ResponseWriter, r *http.Request) error {
	return writeJSON(stateOf(p), w, r)
}

// MoveHandler decodes a proposed move from the request body,
// applies it, and responds with the result.  The result is also
// returned so the caller can react to a solving move (record the
// time, persist the frozen path).
func MoveHandler(p *Path, w http.ResponseWriter, r *http.Request) (*MoveResult, error) {
	var move Move
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		err = Error{
			Scope:     RequestScope,
			Structure: AttributeStructure,
			Attribute: DecodeAttribute,
			Condition: GeneralCondition,
			Values:    ErrorData{err.Error()},
		}
		writeError(requestError, err, w, r)
		return nil, err
	}
	verdict := p.TryExtend(Position{Row: move.Row, Col: move.Col}, move.AllowRewind)
	result := &MoveResult{
		Verdict:  verdict.String(),
		Accepted: verdict.Accepted(),
		Solved:   verdict == MoveSolved,
		Cells:    p.Cells(),
		Elapsed:  move.Elapsed,
	}
	if err := writeJSON(result, w, r); err != nil {
		return nil, err
	}
	return result, nil
}

// UndoHandler removes the head cell of the path and responds
// with the updated state.
func UndoHandler(p *Path, w http.ResponseWriter, r *http.Request) error {
	p.UndoLast()
	return writeJSON(stateOf(p), w, r)
}

// HintHandler responds with the next step on some solution
// extending the current path, if one exists.
func HintHandler(p *Path, w http.ResponseWriter, r *http.Request) error {
	step, found := p.grid.Hint(p.cells)
	result := &HintResult{Found: found}
	if found {
		result.Step = &step
	}
	return writeJSON(result, w, r)
}

// RevealHandler replaces the path with a full solution and
// responds with the resulting state.  If no solution extends the
// current path (the player has painted into a corner), the
// reveal falls back to a from-scratch solution.  An unsolvable
// grid draws an error response.
func RevealHandler(p *Path, w http.ResponseWriter, r *http.Request) error {
	if p.IsSolved() {
		return writeJSON(stateOf(p), w, r)
	}
	soln, err := p.grid.SolveFrom(p.cells)
	if err == nil && soln == nil {
		soln = p.grid.Solve()
	}
	if err == nil && soln == nil {
		err = Error{
			Scope:     GridScope,
			Structure: ScopeStructure,
			Condition: GeneralCondition,
			Values:    ErrorData{"grid has no solution"},
		}
	}
	if err == nil {
		err = p.Replace(soln)
	}
	if err != nil {
		writeError(argumentError, err, w, r)
		return err
	}
	return writeJSON(stateOf(p), w, r)
}

// stateOf collects the wire state of a path.
func stateOf(p *Path) *State {
	summary := p.grid.Summary()
	return &State{
		SideLength: summary.SideLength,
		Values:     summary.Values,
		Waypoints:  p.grid.Waypoints(),
		Cells:      p.Cells(),
		Solved:     p.IsSolved(),
	}
}

/*

Response writing

*/

// A handlerError classifies error responses by who to blame, so
// each class gets a consistent status code.
type handlerError int

const (
	requestError  handlerError = iota // malformed request: 400
	argumentError                     // well-formed but unusable: 400
	internalError                     // our bug: 500
)

// writeError sends an error response as JSON and logs it.
func writeError(class handlerError, err error, w http.ResponseWriter, r *http.Request) {
	status := http.StatusBadRequest
	if class == internalError {
		status = http.StatusInternalServerError
	}
	log.Printf("Request error on %s %s: %v", r.Method, r.URL.Path, err)
	var body []byte
	if e, ok := err.(Error); ok {
		body, _ = json.Marshal(e)
	} else {
		body, _ = json.Marshal(map[string]string{"message": err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeJSON sends a success response as JSON.  Encoding failures
// are our bug, so they draw a 500 and an Internal error return.
func writeJSON(v interface{}, w http.ResponseWriter, r *http.Request) error {
	body, err := json.Marshal(v)
	if err != nil {
		err = Error{
			Scope:     InternalScope,
			Structure: AttributeStructure,
			Attribute: EncodeAttribute,
			Condition: GeneralCondition,
			Values:    ErrorData{err.Error()},
			Message:   fmt.Sprintf("Failed to encode response: %v", err),
		}
		writeError(internalError, err, w, r)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
	return nil
}
