package main

import (
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/leonbriscoe/Kiaras-Zip/client"
	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
	"github.com/leonbriscoe/Kiaras-Zip/storage"
)

const cookieName = "zipID"
const cookiePath = "/"

/*

session management

*/

// Session state lives in storage, but requests for the same
// session must not interleave, so each session ID gets its own
// lock for the duration of a request.
var (
	sessionMutex sync.Mutex
	sessionLocks = make(map[string]*sync.Mutex)
)

func sessionLock(sid string) *sync.Mutex {
	sessionMutex.Lock()
	defer sessionMutex.Unlock()
	l, ok := sessionLocks[sid]
	if !ok {
		l = new(sync.Mutex)
		sessionLocks[sid] = l
	}
	return l
}

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
//
// Browsers that reach the same server over both HTTP and HTTPS
// (as happens behind TLS-terminating proxies) think they have
// two different sessions, so the protocol is folded into the
// session ID: tabs on different source protocols get different
// sessions even if they submit each other's cookies.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	proto := "httpx" // absent other indicators, protocol is unknown
	if forwardedProtocol := r.Header.Get("X-Forwarded-Proto"); forwardedProtocol != "" {
		proto = forwardedProtocol
	}

	// check for an existing cookie whose value matches the protocol
	if sc, e := r.Cookie(cookieName); e == nil {
		if m, e := regexp.MatchString(proto+"-[0-9a-f-]{36}", sc.Value); e == nil && m {
			return sc.Value
		}
	}

	// no session cookie or not a valid session cookie,
	// start a new session with a new cookie
	sid := proto + "-" + uuid.NewString()
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// sessionSelect loads the storage-backed session for the given
// session ID, starting a fresh default puzzle when the session
// is new.  Callers must hold the session's lock: the load here
// and the save after the handler are one read-modify-write.
func sessionSelect(sid string) *storage.Session {
	session := &storage.Session{SID: sid}
	if !session.Lookup() {
		session.StartPuzzle("default")
	}
	return session
}

/*

request handlers

*/

func apiHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/state" && r.Method == "GET":
		puzzle.StateHandler(session.Path, w, r)
	case r.URL.Path == "/api/move" && r.Method == "POST":
		result, err := puzzle.MoveHandler(session.Path, w, r)
		if err != nil {
			log.Printf("Move failed, returned error, no session change.")
			return
		}
		if result.Solved {
			session.RecordSolve(result.Elapsed)
		} else if result.Accepted {
			session.SavePath()
		}
	case r.URL.Path == "/api/undo" && r.Method == "POST":
		puzzle.UndoHandler(session.Path, w, r)
		session.SavePath()
	case r.URL.Path == "/api/hint" && r.Method == "GET":
		puzzle.HintHandler(session.Path, w, r)
	case r.URL.Path == "/api/reveal" && r.Method == "POST":
		// a revealed solution is saved but not recorded as a
		// solve, so the player can still start over
		if err := puzzle.RevealHandler(session.Path, w, r); err == nil {
			session.SavePath()
		}
	default:
		http.NotFound(w, r)
	}
}

func solverHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	if pid := strings.TrimPrefix(r.URL.Path, "/solver/"); pid != "" && pid != session.PID {
		session.StartPuzzle(pid)
	}
	state := &puzzle.State{
		SideLength: session.Grid.SideLength(),
		Values:     session.Grid.Summary().Values,
		Waypoints:  session.Grid.Waypoints(),
		Cells:      session.Path.Cells(),
		Solved:     session.Path.IsSolved(),
	}
	body := client.SolverPage(session.SID, session.PID, state)
	writePage(w, body)
}

func homeHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	infos := storage.ListPuzzles()
	choices := make([]client.PuzzleChoice, len(infos))
	for i, info := range infos {
		choices[i] = client.PuzzleChoice{
			PuzzleID:   info.PuzzleId,
			Name:       info.Name,
			SideLength: info.SideLength,
		}
	}
	writePage(w, client.HomePage(session.SID, session.PID, choices))
}

func resetHandler(session *storage.Session, w http.ResponseWriter, r *http.Request) {
	if pid := strings.TrimPrefix(r.URL.Path, "/reset/"); pid != "" {
		session.StartPuzzle(pid)
	} else if !session.ResetPuzzle() {
		// an earlier solve keeps its path; restart instead
		session.StartPuzzle(session.PID)
	}
	http.Redirect(w, r, "/solver/", http.StatusFound)
}

func writePage(w http.ResponseWriter, body string) {
	hs := w.Header()
	hs.Add("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// serve dispatches one request against its session.  Storage
// failures panic out of the handlers, so they are caught here
// and turned into error pages.
func serve(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("Panic serving %s %s: %v", r.Method, r.URL.Path, err)
			w.Header().Add("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			if e, ok := err.(error); ok {
				w.Write([]byte(client.ErrorPage(e)))
			}
		}
	}()

	if client.StaticHandler(w, r) {
		return
	}
	log.Printf("Handling %s %s...", r.Method, r.URL.Path)
	sid := getCookie(w, r)
	lock := sessionLock(sid)
	lock.Lock()
	defer lock.Unlock()
	session := sessionSelect(sid)
	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		apiHandler(session, w, r)
	case strings.HasPrefix(r.URL.Path, "/solver/"):
		solverHandler(session, w, r)
	case r.URL.Path == "/home":
		homeHandler(session, w, r)
	case strings.HasPrefix(r.URL.Path, "/reset/"):
		resetHandler(session, w, r)
	default:
		http.Redirect(w, r, "/solver/", http.StatusFound)
	}
}

func main() {
	if err := client.VerifyResources(); err != nil {
		log.Fatalf("Resource check failed: %v", err)
	}
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Storage connect failed: %v", err)
	}
	defer storage.Close()
	log.Printf("Connected to cache at %q and database at %q.", cacheId, databaseId)

	http.HandleFunc("/", serve)

	// environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	log.Printf("Listening on %s...", port)
	if err := http.ListenAndServe(port, nil); err != nil {
		log.Fatal("Listener failure: ", err)
	}
}
