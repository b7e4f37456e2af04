package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"

	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
)

// A Session tracks one player's progress on their current
// puzzle.  The session hash and the drawn path live in the
// cache; finished solves are also written through to the
// database so they survive cache resets.  Once a session has a
// recorded solve for its puzzle, the path stays frozen across
// visits: the player can admire it but not erase it.
type Session struct {
	// these elements are persisted in the session hash
	SID      string // session ID
	PID      string // ID of puzzle being played
	Created  string // RFC3339 time when the session was created
	Saved    string // RFC3339 time when the session was last saved
	Solved   bool   // whether the current puzzle has been solved
	SolvedAt string // RFC3339 time of the solve, if any

	// these elements are rebuilt from the persisted state
	Grid *puzzle.Grid `redis:"-"` // board of the current puzzle
	Path *puzzle.Path `redis:"-"` // the player's drawn path
}

/*

session manipulation

*/

// Lookup finds the saved state for the session's ID and rebuilds
// the grid and path from it.  It reports whether a saved session
// was found; when it wasn't, the caller starts a fresh puzzle.
func (session *Session) Lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				log.Printf("Redis error on parse of saved session %q: %v", session.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Redis error on load of session %q: %v", session.SID, err)
			return err
		}
		return nil
	}
	rdExecute(body)
	if found {
		session.loadPuzzle()
	}
	return
}

// StartPuzzle sets the puzzle ID for the session and clears any
// existing path.  An empty puzzle ID keeps the session's current
// puzzle; the special value "default" (or an unknown ID) falls
// back to the default puzzle.  Starting a puzzle always allows a
// fresh path, even when an earlier solve was recorded: the solve
// stays in the database, but the player asked for a new game.
func (session *Session) StartPuzzle(pid string) {
	if pid == "" {
		pid = session.PID
	} else if pid == "default" {
		pid = defaultPuzzleID
	}
	pe := findPuzzleEntry(pid)
	if pe == nil {
		pe = findPuzzleEntry(defaultPuzzleID)
		if pe == nil {
			panic(fmt.Errorf("Default puzzle %q is not in storage", defaultPuzzleID))
		}
	}
	session.PID = pe.PuzzleId
	session.Grid = pe.makeGrid()
	session.Path = puzzle.NewPath(session.Grid)
	session.Solved = false
	session.SolvedAt = ""
	if session.Created == "" {
		session.Created = time.Now().Format(time.RFC3339)
	}

	// update the cache
	session.Saved = time.Now().Format(time.RFC3339)
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		_, err = tx.Do("DEL", session.pathKey())
		if err != nil {
			log.Printf("Redis error on save of session %q after start: %v", session.SID, err)
		}
		return
	}
	rdExecute(body)
	log.Printf("Session %v started puzzle %q.", session.SID, session.PID)
}

// SavePath persists the session hash and the current path.
func (session *Session) SavePath() {
	bytes := session.marshalPath()
	session.Saved = time.Now().Format(time.RFC3339)
	body := func(tx redis.Conn) (err error) {
		tx.Send("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		_, err = tx.Do("SET", session.pathKey(), bytes)
		if err != nil {
			log.Printf("Redis error on save of %s:%q path: %v", session.SID, session.PID, err)
		}
		return
	}
	rdExecute(body)
}

// ResetPuzzle clears the session's path so the player can start
// the same puzzle over.  It reports whether the reset happened:
// a puzzle solved in an earlier visit keeps its frozen path.
func (session *Session) ResetPuzzle() bool {
	if !session.Path.Reset() {
		log.Printf("Session %v:%v refused reset of an earlier solve.", session.SID, session.PID)
		return false
	}
	session.SavePath()
	log.Printf("Session %v:%v reset.", session.SID, session.PID)
	return true
}

// RecordSolve marks the session's puzzle solved, saves the
// frozen path, and writes the solve through to the database.
// The elapsed play time is in seconds, as reported by the
// client.
func (session *Session) RecordSolve(elapsed int) {
	now := time.Now()
	session.Solved = true
	session.SolvedAt = now.Format(time.RFC3339)
	session.SavePath()
	body := func(tx pgx.Tx) (err error) {
		_, err = tx.Exec(context.Background(),
			"INSERT INTO solves (sessionId, puzzleId, sideLength, seconds, solvedAt) "+
				"VALUES ($1, $2, $3, $4, $5)",
			session.SID, session.PID, session.Grid.SideLength(), elapsed, now)
		if err != nil {
			err = fmt.Errorf("Database error recording solve of %s:%q: %v",
				session.SID, session.PID, err)
		}
		return
	}
	pgExecute(body)
	log.Printf("Session %v solved puzzle %q in %d seconds.", session.SID, session.PID, elapsed)
}

/*

serialization of path state into and out of the cache

*/

// loadPuzzle rebuilds the grid and path for a found session.
func (session *Session) loadPuzzle() {
	pe := findPuzzleEntry(session.PID)
	if pe == nil {
		// stored puzzle vanished; fall back to a fresh default
		log.Printf("Session %v refers to missing puzzle %q; restarting.", session.SID, session.PID)
		session.Solved = false
		session.SolvedAt = ""
		session.StartPuzzle("default")
		return
	}
	session.Grid = pe.makeGrid()
	var bytes []byte
	body := func(tx redis.Conn) error {
		reply, err := tx.Do("GET", session.pathKey())
		if err != nil {
			log.Printf("Redis error on load of %s:%q path: %v", session.SID, session.PID, err)
			return err
		}
		if reply != nil {
			bytes, err = redis.Bytes(reply, nil)
		}
		return err
	}
	rdExecute(body)
	session.Path = session.unmarshalPath(bytes)
}

// marshalPath - get JSON for the current path
func (session *Session) marshalPath() []byte {
	bytes, err := json.Marshal(session.Path.Cells())
	if err != nil {
		log.Printf("Failed to marshal path of %s:%q as JSON: %v",
			session.SID, session.PID, err)
		panic(err)
	}
	return bytes
}

// unmarshalPath - rebuild the path from its saved cells.  A
// corrupt or stale save is logged and replaced with an empty
// path rather than wedging the session.
func (session *Session) unmarshalPath(bytes []byte) *puzzle.Path {
	if len(bytes) == 0 {
		session.Solved = false
		session.SolvedAt = ""
		return puzzle.NewPath(session.Grid)
	}
	var cells []puzzle.Position
	if err := json.Unmarshal(bytes, &cells); err != nil {
		log.Printf("Failed to unmarshal saved path of %s:%q: %v",
			session.SID, session.PID, err)
		return puzzle.NewPath(session.Grid)
	}
	path, err := puzzle.RestorePath(session.Grid, cells, session.Solved)
	if err != nil {
		log.Printf("Saved path of %s:%q no longer replays: %v",
			session.SID, session.PID, err)
		session.Solved = false
		session.SolvedAt = ""
		return puzzle.NewPath(session.Grid)
	}
	return path
}

/*

session key generation

*/

// key - returns the session key
func (session *Session) key() string {
	return rdEnv + ":SID:" + session.SID
}

// pathKey - returns the key for the session's saved path
func (session *Session) pathKey() string {
	return session.key() + ":Path"
}
