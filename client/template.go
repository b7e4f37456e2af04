package client

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/leonbriscoe/Kiaras-Zip/puzzle"
)

/*

solver pages

*/

// A templateSolverPage contains the values to fill the solver
// page template.
type templateSolverPage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	SideLength                int
	Solved                    bool
	Board                     templateBoard
	ApplicationFooter         string
}

// templateBoard is the structure expected by the board section
// of the solver page template: one slice of cells per row.
type templateBoard [][]templateBoardCell

// A templateBoardCell carries one cell's coordinates, label, and
// CSS styling classes.
type templateBoardCell struct {
	Row, Col int
	Value    template.HTML
	Classes  string
}

// add solver statics to the static list
func init() {
	staticResourcePaths["/solver.js"] = filepath.Join("solver", "board.js")
	staticResourcePaths["/solver.css"] = filepath.Join("solver", "board.css")
}

// SolverPage executes the solver page template over the passed
// session and puzzle state, and returns the solver page content
// as a string.  If there is an error, what's returned is the
// error page content as a string.
func SolverPage(sessionID string, puzzleID string, state *puzzle.State) string {
	board, err := boardTemplate(state)
	if err != nil {
		return errorPage(err)
	}

	tsp := templateSolverPage{
		SessionID:         sessionID,
		PuzzleID:          puzzleID,
		Title:             fmt.Sprintf("%s: Solver", brandName),
		TopHead:           "Draw the Path",
		IconFile:          iconPath,
		CssFile:           "/solver.css",
		JsFile:            "/solver.js",
		SideLength:        state.SideLength,
		Solved:            state.Solved,
		Board:             board,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("solver")
	if err != nil {
		return errorPage(fmt.Errorf("Couldn't load the %q template: %v", "solver", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tsp)
	if err != nil {
		return errorPage(err)
	}
	return buf.String()
}

// boardTemplate takes the state of a puzzle and returns the
// board for the solver page template.  Errors mean the state's
// values have the wrong shape for its side length.
func boardTemplate(state *puzzle.State) (templateBoard, error) {
	slen := state.SideLength
	if slen < 1 || len(state.Values) != slen*slen {
		return nil, fmt.Errorf("Puzzle has %v values for side length %v", len(state.Values), slen)
	}
	onPath := make(map[puzzle.Position]bool, len(state.Cells))
	for _, c := range state.Cells {
		onPath[c] = true
	}
	var head puzzle.Position
	hasHead := len(state.Cells) > 0
	if hasHead {
		head = state.Cells[len(state.Cells)-1]
	}
	rows := make(templateBoard, slen)
	for i := 0; i < slen; i++ {
		rows[i] = make([]templateBoardCell, slen)
		for j := 0; j < slen; j++ {
			pos := puzzle.Position{Row: i, Col: j}
			value := template.HTML("&nbsp;")
			classes := "cell"
			if val := state.Values[i*slen+j]; val > 0 {
				value = template.HTML(fmt.Sprint(val))
				classes += " waypoint"
			}
			if onPath[pos] {
				classes += " onpath"
			}
			if hasHead && pos == head {
				classes += " head"
			}
			rows[i][j] = templateBoardCell{
				Row:     i,
				Col:     j,
				Value:   value,
				Classes: classes,
			}
		}
	}
	return rows, nil
}

/*

home page

*/

// A templateHomePage contains the values to fill the home page
// template.
type templateHomePage struct {
	SessionID, PuzzleID       string
	Title, TopHead            string
	IconFile, CssFile, JsFile string
	Puzzles                   []templatePuzzleChoice
	ApplicationFooter         string
}

// A templatePuzzleChoice is one selectable puzzle on the home
// page.
type templatePuzzleChoice struct {
	PuzzleID string
	Name     string
	Size     string
	Current  bool
}

// add home statics to the static list
func init() {
	staticResourcePaths["/home.js"] = filepath.Join("home", "home.js")
	staticResourcePaths["/home.css"] = filepath.Join("home", "home.css")
}

// A PuzzleChoice describes one puzzle the player can pick.
type PuzzleChoice struct {
	PuzzleID   string
	Name       string
	SideLength int
}

// HomePage executes the home page template over the passed
// session and puzzle choices, and returns the home page content
// as a string.  If there is an error, what's returned is the
// error page content as a string.
func HomePage(sessionID string, puzzleID string, choices []PuzzleChoice) string {
	tcs := make([]templatePuzzleChoice, len(choices))
	for i, c := range choices {
		tcs[i] = templatePuzzleChoice{
			PuzzleID: c.PuzzleID,
			Name:     c.Name,
			Size:     fmt.Sprintf("%d×%d", c.SideLength, c.SideLength),
			Current:  c.PuzzleID == puzzleID,
		}
	}
	thp := templateHomePage{
		SessionID:         sessionID,
		PuzzleID:          puzzleID,
		Title:             fmt.Sprintf("%s: Home", brandName),
		TopHead:           brandName,
		IconFile:          iconPath,
		CssFile:           "/home.css",
		JsFile:            "/home.js",
		Puzzles:           tcs,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("home")
	if err != nil {
		return errorPage(fmt.Errorf("Couldn't load the %q template: %v", "home", err))
	}
	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, thp)
	if err != nil {
		return errorPage(err)
	}
	return buf.String()
}

/*

error pages

*/

// A templateErrorPage contains the values to fill the error page
// template.
type templateErrorPage struct {
	Title, TopHead, Message string
	IconFile, ReportBugPage string
	ApplicationFooter       string
}

// ErrorPage returns error page content for the given error.
func ErrorPage(e error) string {
	return errorPage(e)
}

// return error page content
func errorPage(e error) string {
	tep := templateErrorPage{
		Title:             fmt.Sprintf("%s: Error", brandName),
		TopHead:           "Error Page",
		Message:           e.Error(),
		IconFile:          iconPath,
		ReportBugPage:     reportBugPath,
		ApplicationFooter: applicationFooter(),
	}

	tmpl, err := loadPageTemplate("error")
	if err != nil {
		return fmt.Sprintf("Couldn't load the %q template: %v", "error", err)
	}

	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, tep)
	if err != nil {
		return fmt.Sprintf("A templating error has occurred: %v", err)
	}
	return buf.String()
}

/*

application footer

*/

// applicationFooter - the application footer that shows at the
// bottom of all pages.
func applicationFooter() string {
	appName := os.Getenv(applicationNameEnvVar)
	appEnv := os.Getenv(applicationEnvEnvVar)
	appVersion := os.Getenv(applicationVersionEnvVar)
	appInstance := os.Getenv(applicationInstanceEnvVar)
	appBuild := os.Getenv(applicationBuildEnvVar)

	if appName == "" {
		appName = brandName
	}

	if appEnv == "" {
		appEnv = "local"
	}

	if appVersion != "" {
		appVersion = " " + appVersion
	}
	if len(appBuild) >= 7 {
		appBuild = appBuild[:7]
	}

	if appInstance != "" {
		appInstance = " (dyno " + appInstance + ")"
	}

	switch appEnv {
	case "local":
		return "[" + appName + " local]"
	case "dev":
		return "[" + appName + " CI/CD]"
	case "stg":
		return "[" + appName + appVersion + " <" + appBuild + ">]"
	case "prd":
		return "[" + appName + appVersion + " <" + appBuild + ">" + appInstance + "]"
	}
	return "[" + appName + " <??>]"
}
