// Bring the Zip storage system up to date without touching
// existing sessions: run any pending schema migrations and load
// the starter puzzles.  Meant to run as a release task before
// the server starts.
package main

import (
	"log"

	"github.com/leonbriscoe/Kiaras-Zip/dbprep"
)

func main() {
	log.Printf("Preparing data storage...")
	if err := dbprep.EnsureData(); err != nil {
		log.Fatalf("Couldn't prepare storage: %v", err)
	}
	version, err := dbprep.SchemaVersion()
	if err != nil {
		log.Fatalf("Couldn't get data schema version: %v", err)
	}
	log.Printf("Storage ready at schema version %d.", version)
}
