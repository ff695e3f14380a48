// Package selection turns word clicks into vocabulary save requests.
//
// Outside phrase mode every click saves the clicked word. In phrase mode the
// first click opens a span and the second closes it, saving the words
// between the two indices inclusive. The open span is not tied to the tokens
// it was opened on: closing it against a different subtitle's tokens is
// allowed and builds the phrase from whatever tokens are passed at that click.
package selection

import "strings"

type State int

const (
	Idle State = iota
	PhraseWaiting
	PhraseSpanning
)

func (s State) String() string {
	switch s {
	case PhraseWaiting:
		return "phrase"
	case PhraseSpanning:
		return "phrase (open)"
	default:
		return "word"
	}
}

type ActionKind int

const (
	NoOp ActionKind = iota
	SaveWord
	OpenPhrase
	SavePhrase
)

// Action is the result of a click. Text is set for SaveWord and SavePhrase,
// Index for OpenPhrase.
type Action struct {
	Kind  ActionKind
	Text  string
	Index int
}

type Machine struct {
	phraseMode bool
	spanOpen   bool
	spanStart  int
}

func (m *Machine) State() State {
	switch {
	case !m.phraseMode:
		return Idle
	case m.spanOpen:
		return PhraseSpanning
	default:
		return PhraseWaiting
	}
}

func (m *Machine) PhraseMode() bool { return m.phraseMode }

// SpanStart returns the open span's start index, if any.
func (m *Machine) SpanStart() (int, bool) {
	return m.spanStart, m.spanOpen
}

// SetPhraseMode switches modes. Any open span is discarded, even when the
// mode does not change.
func (m *Machine) SetPhraseMode(on bool) {
	m.phraseMode = on
	m.clearSpan()
}

func (m *Machine) TogglePhraseMode() bool {
	m.SetPhraseMode(!m.phraseMode)
	return m.phraseMode
}

func (m *Machine) clearSpan() {
	m.spanOpen = false
	m.spanStart = 0
}

// Click handles a click on tokens[index]. A span left open across a subtitle
// change whose start now lies past the end of tokens returns NoOp instead of
// saving an empty phrase.
func (m *Machine) Click(word string, index int, tokens []string) Action {
	if !m.phraseMode {
		return Action{Kind: SaveWord, Text: word}
	}

	if !m.spanOpen {
		m.spanOpen = true
		m.spanStart = index
		return Action{Kind: OpenPhrase, Index: index}
	}

	lo, hi := min(m.spanStart, index), max(m.spanStart, index)
	m.clearSpan()

	// A span opened on a longer subtitle can point past the current tokens.
	lo = max(lo, 0)
	hi = min(hi, len(tokens)-1)
	if lo > hi {
		return Action{Kind: NoOp}
	}
	return Action{Kind: SavePhrase, Text: strings.Join(tokens[lo:hi+1], " ")}
}
