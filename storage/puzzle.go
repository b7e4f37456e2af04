package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gomodule/redigo/redis"
	"github.com/jackc/pgx/v5"

	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
)

// defaultPuzzleID names the puzzle new sessions get.
const defaultPuzzleID = "starter-1"

/*

puzzle info

*/

// A PuzzleInfo is the exported description of a stored puzzle,
// for menus and listings.
type PuzzleInfo struct {
	PuzzleId   string // unique ID for this puzzle
	Name       string // user-facing name of the puzzle
	SideLength int    // puzzle size
	Waypoints  int    // number of labeled cells
}

// ListPuzzles returns info for every stored puzzle, sorted by
// size and then name so menus come out smallest-first.
func ListPuzzles() []*PuzzleInfo {
	var infos []*PuzzleInfo
	body := func(tx pgx.Tx) error {
		rows, err := tx.Query(context.Background(),
			"SELECT puzzleId, name, sideLength, valueList FROM puzzles")
		if err != nil {
			return fmt.Errorf("Failure listing puzzles: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			pe := &puzzleEntry{}
			if err := rows.Scan(&pe.PuzzleId, &pe.Name, &pe.SideLength, &pe.Values); err != nil {
				return fmt.Errorf("Failure reading puzzle row: %v", err)
			}
			infos = append(infos, pe.info())
		}
		return rows.Err()
	}
	pgExecute(body)
	sort.Sort(BySize(infos))
	return infos
}

// sorting of info sequences by puzzle name
type ByName []*PuzzleInfo

func (pi ByName) Len() int           { return len(pi) }
func (pi ByName) Swap(i, j int)      { pi[i], pi[j] = pi[j], pi[i] }
func (pi ByName) Less(i, j int) bool { return pi[i].Name < pi[j].Name }

// sorting of info sequences by side length, then name
type BySize []*PuzzleInfo

func (pi BySize) Len() int      { return len(pi) }
func (pi BySize) Swap(i, j int) { pi[i], pi[j] = pi[j], pi[i] }
func (pi BySize) Less(i, j int) bool {
	return pi[i].SideLength < pi[j].SideLength ||
		(pi[i].SideLength == pi[j].SideLength && pi[i].Name < pi[j].Name)
}

/*

puzzle entries

*/

// A puzzleEntry is the stored form of a puzzle.  It is JSON
// serializable so it can go into the cache as well as the
// database.
type puzzleEntry struct {
	PuzzleId   string // unique ID for this puzzle
	Name       string // user-facing name
	SideLength int32
	Values     []int32
}

// findPuzzleEntry first checks the cache, then the database, to
// find the puzzle's entry.  If it loads from the database, it
// caches the result.  Returns nil if there is no such entry.
func findPuzzleEntry(id string) *puzzleEntry {
	pe := &puzzleEntry{PuzzleId: id}
	if pe.cacheLoad() {
		return pe
	}
	// cache miss, load from database and save to cache
	if !pe.databaseLoad() {
		return nil
	}
	pe.cacheInsert()
	return pe
}

// makeGrid: make the grid described in a puzzle entry
func (pe *puzzleEntry) makeGrid() *puzzle.Grid {
	values := make([]int, len(pe.Values))
	for i, v := range pe.Values {
		values[i] = int(v)
	}
	g, e := puzzle.New(&puzzle.Summary{
		SideLength: int(pe.SideLength),
		Values:     values,
	})
	if e != nil {
		panic(fmt.Errorf("Failed to create grid %q: %v", pe.PuzzleId, e))
	}
	return g
}

// info: make the exported description of a puzzle entry
func (pe *puzzleEntry) info() *PuzzleInfo {
	waypoints := 0
	for _, v := range pe.Values {
		if v != 0 {
			waypoints++
		}
	}
	return &PuzzleInfo{
		PuzzleId:   pe.PuzzleId,
		Name:       pe.Name,
		SideLength: int(pe.SideLength),
		Waypoints:  waypoints,
	}
}

// key: compute the cache key for a puzzleEntry.
func (pe *puzzleEntry) key() string {
	return rdEnv + ":PID:" + pe.PuzzleId
}

// cacheLoad: load an already cached puzzle entry.  Returns
// whether the entry was found in the cache.
func (pe *puzzleEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading puzzleEntry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var spe *puzzleEntry
	err := json.Unmarshal(bytes, &spe)
	if err != nil {
		panic(fmt.Errorf("Failed to unmarshal puzzleEntry %q: %v", pe.PuzzleId, err))
	}
	if spe.PuzzleId != pe.PuzzleId {
		panic(fmt.Errorf("Cached puzzleEntry (id: %q) found for puzzle %q!",
			spe.PuzzleId, pe.PuzzleId))
	}
	*pe = *spe
	return true
}

// databaseLoad: load a puzzle entry from the database.  Returns
// whether an entry with the given id exists.
func (pe *puzzleEntry) databaseLoad() (found bool) {
	body := func(tx pgx.Tx) error {
		row := tx.QueryRow(context.Background(),
			"SELECT name, sideLength, valueList FROM puzzles "+
				"WHERE puzzleId = $1", pe.PuzzleId)
		err := row.Scan(&pe.Name, &pe.SideLength, &pe.Values)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up puzzle %q: %v", pe.PuzzleId, err)
		}
		found = true
		return nil
	}
	pgExecute(body)
	return
}

// cacheInsert: insert a puzzle entry into the cache. Replaces
// any existing entry with the same id.
func (pe *puzzleEntry) cacheInsert() {
	bytes, e := json.Marshal(pe)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal puzzleEntry %q: %v", pe.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}
