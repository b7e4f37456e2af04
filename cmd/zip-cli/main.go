// Command-line client for Kiara's Zip puzzles
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
	"github.com/leonbriscoe/Kiaras-Zip/storage"
)

func main() {
	// establish storage connections
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Printf("Storage connection failure: %v", err)
		shutdown(startupFailureShutdown)
	}
	log.Printf("Connected to cache at %q, database at %q", cacheId, databaseId)
	defer storage.Close()

	// catch signals
	shutdownOnSignal()

	// serve
	if err := listener(os.Stdout, os.Stdin); err != nil {
		log.Printf("CLI failure: %v", err)
		shutdown(listenerFailureShutdown)
	}
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// input buffer size, a variable so tests can shrink it
var bufsize = 4096

// listener reads lines and dispatches them to handlers
func listener(out io.Writer, in io.Reader) error {
	// if we are on a terminal, we do prompting
	// (see http://stackoverflow.com/questions/22744443/ for source)
	prompt := false
	if f, ok := out.(*os.File); ok {
		if stat, _ := f.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	input := bufio.NewReaderSize(in, bufsize)
	for {
		if prompt {
			fmt.Fprintf(out, "zip> ")
		}
		line, err := input.ReadString('\n')
		if len(line) > 0 {
			r := &request{inline: strings.Trim(line, " \t\r\n")}
			args := strings.Split(r.inline, " ")
			r.command = strings.ToLower(args[0])
			switch r.command {
			case "":
				// fall through to the error check below
			case "quit", "exit":
				return nil
			default:
				for _, arg := range args[1:] {
					if len(arg) > 0 {
						r.args = append(r.args, strings.ToLower(arg))
					}
				}
				dispatchCommand(out, r)
			}
		}
		switch err {
		case nil:
			continue
		case io.EOF:
			// ignore any input before the EOF
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(*storage.Session, io.Writer, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"hint", "", "suggest the next cell to draw to", hintHandler},
		{"markdown", "on|off", "format output in Markdown", markdownHandler},
		{"move", "index [rewind]", "draw the path to a cell", moveHandler},
		{"puzzles", "", "list the available puzzles", puzzlesHandler},
		{"reset", "[puzzleID]", "restart this or another puzzle", resetHandler},
		{"reveal", "", "fill in a full solution", revealHandler},
		{"session", "[sessionID]", "get/set session info", summaryHandler},
		{"state", "", "show the current path", stateHandler},
		{"summary", "", "show current session summary", summaryHandler},
		{"undo", "", "take back the last path step", undoHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(w io.Writer, r *request) {
	defer func() {
		if err := recover(); err != nil {
			errorHandler(err, w, r)
		}
	}()

	session := sessionSelect(w, r)
	ci := dispatchTable[r.command]
	if ci == nil {
		usageHandler(fmt.Sprintf("%q is not a known command", r.command), w, r)
	} else {
		ci.handler(session, w, r)
	}
}

/*

request handlers

*/

// client state
var (
	useMarkdown = false
	puzzleStart = time.Now() // when the current puzzle was started
)

func markdownHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) > 0 {
		switch r.args[0] {
		case "on":
			useMarkdown = true
			stateHandler(session, w, r)
		case "off":
			useMarkdown = false
			stateHandler(session, w, r)
		default:
			usageHandler(fmt.Sprintf("argument to %s must be 'on' or 'off'", r.command), w, r)
		}
	} else {
		if useMarkdown {
			fmt.Fprintf(w, "Markdown is on\n")
		} else {
			fmt.Fprintf(w, "Markdown is off\n")
		}
	}
}

func moveHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) < 1 || len(r.args) > 2 {
		usageHandler(fmt.Sprintf("%s requires a cell index", r.command), w, r)
		return
	}
	allowRewind := false
	if len(r.args) == 2 {
		if r.args[1] != "rewind" {
			usageHandler(fmt.Sprintf("second argument to %s must be 'rewind'", r.command), w, r)
			return
		}
		allowRewind = true
	}
	pos, err := parseCell(r.args[0], session.Grid.SideLength())
	if err != nil {
		usageHandler(fmt.Sprintf("%s %s", r.command, err), w, r)
		return
	}

	verdict := session.Path.TryExtend(pos, allowRewind)
	switch {
	case verdict == puzzle.MoveSolved:
		elapsed := int(time.Since(puzzleStart) / time.Second)
		session.RecordSolve(elapsed)
		fmt.Fprintf(w, "Solved!\n")
		stateHandler(session, w, r)
	case verdict.Accepted():
		session.SavePath()
		stateHandler(session, w, r)
	default:
		fmt.Fprintf(w, "Move to %s refused: %v\n", cellName(pos), verdict)
	}
}

func undoHandler(session *storage.Session, w io.Writer, r *request) {
	session.Path.UndoLast()
	session.SavePath()
	stateHandler(session, w, r)
}

func hintHandler(session *storage.Session, w io.Writer, r *request) {
	step, found := session.Grid.Hint(session.Path.Cells())
	if !found {
		fmt.Fprintf(w, "No hint: the path can't be completed from here.\n")
		return
	}
	if step.From == step.To {
		fmt.Fprintf(w, "Start at %s.\n", cellName(step.To))
	} else {
		fmt.Fprintf(w, "From %s, draw to %s.\n", cellName(step.From), cellName(step.To))
	}
}

func revealHandler(session *storage.Session, w io.Writer, r *request) {
	if session.Path.IsSolved() {
		stateHandler(session, w, r)
		return
	}
	soln, err := session.Grid.SolveFrom(session.Path.Cells())
	if soln == nil || err != nil {
		soln = session.Grid.Solve()
	}
	if soln == nil {
		fmt.Fprintf(w, "This puzzle has no solution.\n")
		return
	}
	if err := session.Path.Replace(soln); err != nil {
		panic(err)
	}
	// a revealed solution is saved but not recorded as a
	// solve, so the player can still start over
	session.SavePath()
	stateHandler(session, w, r)
}

func resetHandler(session *storage.Session, w io.Writer, r *request) {
	if len(r.args) > 0 {
		session.StartPuzzle(r.args[0])
	} else if !session.ResetPuzzle() {
		// an earlier solve keeps its path; restart instead
		session.StartPuzzle(session.PID)
	}
	puzzleStart = time.Now()
	stateHandler(session, w, r)
}

func stateHandler(session *storage.Session, w io.Writer, r *request) {
	if useMarkdown {
		fmt.Fprintf(w, "%s", session.Grid.TrailMarkdown(session.Path.Cells()))
	} else {
		fmt.Fprintf(w, "%s", session.Grid.TrailString(session.Path.Cells()))
	}
}

func summaryHandler(session *storage.Session, w io.Writer, r *request) {
	fmt.Fprintf(w, "Session %q playing puzzle %q\n", session.SID, session.PID)
	grid, path := session.Grid, session.Path
	fmt.Fprintf(w, "Side length: %d; Waypoints: %d; ",
		grid.SideLength(), len(grid.Waypoints()))
	fmt.Fprintf(w, "Cells drawn: %d of %d\n", path.Len(), grid.CellCount())
	if path.IsSolved() {
		fmt.Fprintf(w, "The puzzle is solved.\n")
	}
}

func puzzlesHandler(session *storage.Session, w io.Writer, r *request) {
	for _, info := range storage.ListPuzzles() {
		current := " "
		if info.PuzzleId == session.PID {
			current = "*"
		}
		fmt.Fprintf(w, "  %s %-12s %dx%d\t%s\n",
			current, info.PuzzleId, info.SideLength, info.SideLength, info.Name)
	}
}

func usageHandler(msg string, w io.Writer, r *request) {
	fmt.Fprintf(w, "Error: %s\nUsage:\n", msg)
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "    %8s %-14s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  and 'quit' or EOF to exit.\n")
}

func errorHandler(err interface{}, w io.Writer, r *request) {
	fmt.Fprintf(w, "Panic executing %q: %v\n", r.inline, err)
	log.Printf("Error executing %q: %v\n", r.inline, err)
}

/*

cell naming

*/

// parseCell turns an index like "b3" (row letter, 1-based column
// number) into a cell position.
func parseCell(idx string, sidelen int) (puzzle.Position, error) {
	if len(idx) < 2 {
		return puzzle.Position{}, fmt.Errorf("index (%s) must be a row letter and a column number", idx)
	}
	row := int(idx[0] - 'a')
	if row < 0 || row >= sidelen {
		return puzzle.Position{}, fmt.Errorf("index (%s) row is out of range", idx)
	}
	col, err := strconv.Atoi(idx[1:])
	if err != nil {
		return puzzle.Position{}, fmt.Errorf("index (%s) column is not a number", idx)
	}
	if col < 1 || col > sidelen {
		return puzzle.Position{}, fmt.Errorf("index (%s) column is out of range", idx)
	}
	return puzzle.Position{Row: row, Col: col - 1}, nil
}

// cellName is the inverse of parseCell.
func cellName(pos puzzle.Position) string {
	return fmt.Sprintf("%c%d", 'a'+pos.Row, pos.Col+1)
}

/*

session handling

*/

// cookie for the command line
var defaultCookie string

var startTime = time.Now() // instance start-up time

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
func getCookie(w io.Writer, r *request) string {
	// look to see if the user is specifying a cookie
	if r.command == "session" && len(r.args) > 0 {
		defaultCookie = r.args[0]
	}

	// look for an existing session cookie
	if len(defaultCookie) != 0 {
		return defaultCookie
	}

	// no session cookie: start a new session with a new ID
	// poor man's UUID for the session in local mode: time since startup.
	sid := "cli-" + strconv.FormatInt(int64(time.Now().Sub(startTime)), 36)
	log.Printf("No session cookie found, created new session ID %q", sid)
	defaultCookie = sid
	return sid
}

// sessionSelect: find or create the session for the current command.
func sessionSelect(w io.Writer, r *request) *storage.Session {
	session := &storage.Session{SID: getCookie(w, r)}
	if !session.Lookup() {
		session.StartPuzzle("default")
		puzzleStart = time.Now()
	}
	return session
}

/*

coordinate shutdown across goroutines and top-level listener

*/

type shutdownCause int

const (
	unknownShutdown = iota
	startupFailureShutdown
	caughtSignalShutdown
	listenerFailureShutdown
)

// shutdown: process exit with logging.
func shutdown(reason shutdownCause) {
	storage.Close()

	// log reason for shutdown and exit
	switch reason {
	case unknownShutdown:
		log.Fatal("Exiting: normal shutdown.")
	case startupFailureShutdown:
		log.Fatal("Exiting: initialization failure.")
	case caughtSignalShutdown:
		log.Fatal("Exiting: caught signal.")
	case listenerFailureShutdown:
		log.Fatal("Exiting: command listener failed.")
	default:
		log.Fatal("Exiting: unknown cause.")
	}
}

// shutdownOnSignal: catch signals and exit.
func shutdownOnSignal() {
	// based on example in os.signal godoc
	c := make(chan os.Signal, 1)
	signal.Notify(c) // die on all signals

	go func() {
		s := <-c
		log.Printf("Received OS-level signal: %v", s)
		shutdown(caughtSignalShutdown)
	}()
}
