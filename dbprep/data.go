package dbprep

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
)

/*

entries

*/

type dataFunction func(context.Context, pgx.Tx) error

var (
	upFunctions = []dataFunction{
		insertStarters,
	}
	downFunctions = []dataFunction{
		deleteStarters,
	}
)

// DataUp: load the starter puzzles into the database.  You
// should do this after you get the schema up!
func DataUp() error {
	return applyFunctions(upFunctions)
}

// DataDown: remove the starter puzzles from the database.  You
// should do this before you tear the schema down!
func DataDown() error {
	return applyFunctions(downFunctions)
}

// apply dataFunctions to the database.  Each is applied in a
// separate transaction, so later ones can rely on the effect of
// earlier ones having been committed.
func applyFunctions(fns []dataFunction) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/zip?sslmode=disable"
	}
	ctx := context.Background()

	// open the database, defer the close
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	// helper that runs each function inside a transaction, and
	// ensures that any problems are rolled back.
	runFunc := func(fn dataFunction) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if e := recover(); e != nil {
				tx.Rollback(ctx)
				panic(e)
			}
		}()
		if err := fn(ctx, tx); err != nil {
			tx.Rollback(ctx)
			return err
		}
		return tx.Commit(ctx)
	}

	// run the functions
	for _, fn := range fns {
		if err := runFunc(fn); err != nil {
			return fmt.Errorf("%v failed: %v", fn, err)
		}
	}
	return nil
}

/*

starter puzzles

Every starter here has at least one covering path, checked at
package load time so a bad edit can't ship an impossible board.

*/

type starterPuzzle struct {
	id      string
	name    string
	summary *puzzle.Summary
}

var starterPuzzles = []starterPuzzle{
	{"mini-1", "First Steps", &puzzle.Summary{
		SideLength: 3,
		Values: []int{
			1, 0, 0,
			0, 2, 0,
			0, 0, 3,
		}}},
	{"starter-1", "Around the Block", &puzzle.Summary{
		SideLength: 4,
		Values: []int{
			1, 0, 0, 0,
			0, 0, 0, 2,
			0, 0, 3, 0,
			4, 0, 0, 0,
		}}},
	{"starter-2", "Downtown", &puzzle.Summary{
		SideLength: 4,
		Values: []int{
			1, 0, 3, 4,
			0, 0, 0, 0,
			0, 0, 0, 0,
			0, 2, 0, 0,
		}}},
	{"medium-1", "The Long Way", &puzzle.Summary{
		SideLength: 5,
		Values: []int{
			1, 0, 0, 0, 0,
			0, 0, 2, 0, 0,
			0, 0, 0, 0, 0,
			0, 3, 0, 0, 0,
			0, 0, 0, 0, 4,
		}}},
	{"large-1", "Full Circuit", &puzzle.Summary{
		SideLength: 6,
		Values: []int{
			1, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0,
			0, 0, 0, 2, 0, 0,
			0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 3, 0,
			4, 0, 0, 0, 0, 0,
		}}},
}

// check the starters at load time
func init() {
	for _, sp := range starterPuzzles {
		g, err := puzzle.New(sp.summary)
		if err != nil {
			panic(fmt.Errorf("Can't happen! Starter puzzle %q is invalid: %v", sp.id, err))
		}
		if g.Solve() == nil {
			panic(fmt.Errorf("Can't happen! Starter puzzle %q has no solution", sp.id))
		}
	}
}

// Create and insert the starter puzzles
func insertStarters(ctx context.Context, tx pgx.Tx) error {
	// idempotency: if the first starter already exists, we are done
	var count int64
	row := tx.QueryRow(ctx, "SELECT COUNT(*) FROM puzzles "+
		"WHERE puzzleId = $1", starterPuzzles[0].id)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("Database error looking for puzzle %q: %v", starterPuzzles[0].id, err)
	}
	if count > 0 {
		return nil
	}

	// get the timestamp of this load
	now := time.Now()

	for _, sp := range starterPuzzles {
		values := make([]int32, len(sp.summary.Values))
		for i, v := range sp.summary.Values {
			values[i] = int32(v) // use 4-byte ints in database
		}
		_, err := tx.Exec(ctx,
			"INSERT INTO puzzles (puzzleId, name, sideLength, valueList, created) "+
				"VALUES ($1, $2, $3, $4, $5)",
			sp.id, sp.name, int32(sp.summary.SideLength), values, now)
		if err != nil {
			return fmt.Errorf("Database error saving starter puzzle %q: %v", sp.id, err)
		}
	}
	return nil
}

// Delete the starter puzzles and their recorded solves
func deleteStarters(ctx context.Context, tx pgx.Tx) error {
	for _, sp := range starterPuzzles {
		_, err := tx.Exec(ctx,
			"DELETE from solves where puzzleId = $1", sp.id)
		if err != nil {
			return fmt.Errorf("Database error deleting solves of %q: %v", sp.id, err)
		}
		_, err = tx.Exec(ctx,
			"DELETE from puzzles where puzzleId = $1", sp.id)
		if err != nil {
			return fmt.Errorf("Database error deleting starter puzzle %q: %v", sp.id, err)
		}
	}
	return nil
}
