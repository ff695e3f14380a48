// Package vocab holds the session vocabulary: saved words and saved phrases,
// each with a learned flag.
//
// Saved items historically came in two shapes, a bare string and a record
// carrying a learned flag. Both are normalized into Entry when they cross the
// decoding boundary, so the collection logic never looks at shape. A bare
// string is an entry with Learned false.
package vocab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Kind int

const (
	Words Kind = iota
	Phrases
)

func (k Kind) String() string {
	if k == Phrases {
		return "phrase"
	}
	return "word"
}

type Entry struct {
	Text    string
	Learned bool
}

// Collection is an ordered list of entries with unique Text.
type Collection struct {
	kind    Kind
	entries []Entry
}

// NewCollection builds a collection from entries, dropping later duplicates.
func NewCollection(kind Kind, entries ...Entry) *Collection {
	c := &Collection{kind: kind}
	for _, e := range entries {
		if c.index(e.Text) < 0 {
			c.entries = append(c.entries, e)
		}
	}
	return c
}

func (c *Collection) Kind() Kind { return c.kind }

func (c *Collection) Len() int { return len(c.entries) }

// Entries returns a copy in insertion order.
func (c *Collection) Entries() []Entry {
	return slices.Clone(c.entries)
}

func (c *Collection) index(text string) int {
	return slices.IndexFunc(c.entries, func(e Entry) bool { return e.Text == text })
}

func (c *Collection) Contains(text string) bool {
	return c.index(text) >= 0
}

// Add appends text as an unlearned entry. It reports false when text is
// already present.
func (c *Collection) Add(text string) bool {
	if c.Contains(text) {
		return false
	}
	c.entries = append(c.entries, Entry{Text: text})
	return true
}

// ToggleLearned flips the learned flag of text. It reports false when text is
// not present.
func (c *Collection) ToggleLearned(text string) bool {
	i := c.index(text)
	if i < 0 {
		return false
	}
	c.entries[i].Learned = !c.entries[i].Learned
	return true
}

// Delete removes text. It reports false when text is not present.
func (c *Collection) Delete(text string) bool {
	i := c.index(text)
	if i < 0 {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return true
}

func (c *Collection) IsLearned(text string) bool {
	i := c.index(text)
	return i >= 0 && c.entries[i].Learned
}

// Merge adds entries not yet present, keeping their learned flag, and returns
// how many were added.
func (c *Collection) Merge(entries []Entry) int {
	added := 0
	for _, e := range entries {
		if c.Contains(e.Text) {
			continue
		}
		c.entries = append(c.entries, e)
		added++
	}
	return added
}

// Store is the pair of collections for one viewing session.
type Store struct {
	Words   *Collection
	Phrases *Collection
}

func NewStore() *Store {
	return &Store{
		Words:   NewCollection(Words),
		Phrases: NewCollection(Phrases),
	}
}

func (s *Store) Collection(kind Kind) *Collection {
	if kind == Phrases {
		return s.Phrases
	}
	return s.Words
}

// snapshot is the exchange format. Each list element may be a bare string or
// a record keyed by "word" or "phrase".
type snapshot struct {
	Words   []legacyEntry `json:"words"`
	Phrases []legacyEntry `json:"phrases"`
}

type legacyEntry Entry

type legacyRecord struct {
	Word    *string `json:"word,omitempty"`
	Phrase  *string `json:"phrase,omitempty"`
	Text    *string `json:"text,omitempty"`
	Learned bool    `json:"learned"`
}

var (
	errNoText    = errors.New("vocabulary record has no word, phrase or text")
	errNullEntry = errors.New("vocabulary entry is null")
)

func (e *legacyEntry) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullEntry
	}

	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		*e = legacyEntry{Text: bare}
		return nil
	}

	var rec legacyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	switch {
	case rec.Word != nil:
		*e = legacyEntry{Text: *rec.Word, Learned: rec.Learned}
	case rec.Phrase != nil:
		*e = legacyEntry{Text: *rec.Phrase, Learned: rec.Learned}
	case rec.Text != nil:
		*e = legacyEntry{Text: *rec.Text, Learned: rec.Learned}
	default:
		return errNoText
	}
	return nil
}

func toLegacy(kind Kind, entries []Entry) []legacyRecord {
	out := make([]legacyRecord, len(entries))
	for i, e := range entries {
		text := e.Text
		out[i].Learned = e.Learned
		if kind == Phrases {
			out[i].Phrase = &text
		} else {
			out[i].Word = &text
		}
	}
	return out
}

// MarshalJSON writes both collections as records.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Words   []legacyRecord `json:"words"`
		Phrases []legacyRecord `json:"phrases"`
	}{
		Words:   toLegacy(Words, s.Words.entries),
		Phrases: toLegacy(Phrases, s.Phrases.entries),
	})
}

// Decode reads a vocabulary snapshot in either shape.
func Decode(data []byte) (words, phrases []Entry, err error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	for _, e := range snap.Words {
		words = append(words, Entry(e))
	}
	for _, e := range snap.Phrases {
		phrases = append(phrases, Entry(e))
	}
	return words, phrases, nil
}

// Import merges a snapshot into the store and returns how many entries were added.
func (s *Store) Import(data []byte) (int, error) {
	words, phrases, err := Decode(data)
	if err != nil {
		return 0, err
	}
	return s.Words.Merge(words) + s.Phrases.Merge(phrases), nil
}

// Summary renders one line per entry, learned entries marked with a check.
func (c *Collection) Summary() []string {
	lines := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		var b strings.Builder
		b.WriteString(e.Text)
		if e.Learned {
			b.WriteString(" ✔")
		}
		lines = append(lines, b.String())
	}
	return lines
}
