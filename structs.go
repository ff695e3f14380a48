package main

import (
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"

	"github.com/aschmelyun/tvocab/internal/playback"
	"github.com/aschmelyun/tvocab/internal/prefs"
	"github.com/aschmelyun/tvocab/internal/selection"
	"github.com/aschmelyun/tvocab/internal/subtitle"
	"github.com/aschmelyun/tvocab/internal/vocab"
)

type playerStartedMsg struct {
	cmd *exec.Cmd
}

type playerReadyMsg struct {
	player *playback.MPV
}

type playerExitedMsg struct {
	err error
}

type subtitlesLoadedMsg struct {
	path    string
	entries []subtitle.Entry
}

// tickMsg fires when the sampler is due. gen identifies the arming that
// scheduled it; ticks from an older arming are dropped.
type tickMsg struct {
	gen int
}

type sampledMsg struct {
	gen  int
	text string
}

type statusMsg struct {
	text string
}

type errorMsg struct {
	err error
}

type pane int

const (
	subtitlePane pane = iota
	wordsPane
	phrasesPane
)

type model struct {
	spinner    spinner.Model
	loading    bool
	loadingMsg string
	quitting   bool
	errorMsg   string
	statuses   []string
	logger     zerolog.Logger

	videoFile  string
	videoTitle string
	playerBin  string
	socketPath string
	player     *playback.MPV
	playerProc *exec.Cmd
	clock      *playback.Clock

	sync          *playback.Synchronizer
	entries       []subtitle.Entry
	tickInterval  time.Duration
	syncGen       int
	showSubtitles bool

	active   string
	tokens   []string
	cursor   int
	selector selection.Machine

	store   *vocab.Store
	words   list.Model
	phrases list.Model
	focus   pane

	prefs     prefs.Preferences
	savePrefs prefs.SaveFunc

	prompt    textinput.Model
	prompting bool

	copyText  func(string) error
	pasteText func() (string, error)

	keys keyMap
	help help.Model
}

// item is one saved word or phrase as shown in the vocabulary lists.
type item struct {
	text    string
	learned bool
}

type itemDelegate struct{}
