package vocab

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDeduplicates(t *testing.T) {
	c := NewCollection(Words)

	assert.True(t, c.Add("cat"))
	assert.False(t, c.Add("cat"))
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Add("Cat"))
	assert.True(t, c.Add("cat "))
	assert.Equal(t, 3, c.Len())
}

func TestToggleLearnedKeepsIdentity(t *testing.T) {
	c := NewCollection(Words)
	c.Add("dog")
	c.Add("cat")

	require.True(t, c.ToggleLearned("cat"))
	assert.True(t, c.IsLearned("cat"))
	assert.Equal(t, 2, c.Len())

	require.True(t, c.ToggleLearned("cat"))
	assert.False(t, c.IsLearned("cat"))
	assert.Equal(t, []Entry{{Text: "dog"}, {Text: "cat"}}, c.Entries())
}

func TestToggleAbsentIsNoOp(t *testing.T) {
	c := NewCollection(Phrases, Entry{Text: "a b"})

	assert.False(t, c.ToggleLearned("b c"))
	assert.Equal(t, []Entry{{Text: "a b"}}, c.Entries())
}

func TestDelete(t *testing.T) {
	c := NewCollection(Words, Entry{Text: "a"}, Entry{Text: "b", Learned: true}, Entry{Text: "c"})

	assert.True(t, c.Delete("b"))
	assert.False(t, c.Delete("b"))
	assert.False(t, c.Delete("zzz"))
	assert.Equal(t, []Entry{{Text: "a"}, {Text: "c"}}, c.Entries())
}

func TestMixedShapesLookup(t *testing.T) {
	words, _, err := Decode([]byte(`{"words":["dog",{"word":"cat","learned":true}]}`))
	require.NoError(t, err)

	c := NewCollection(Words, words...)

	assert.False(t, c.IsLearned("dog"))
	assert.True(t, c.IsLearned("cat"))
	assert.False(t, c.IsLearned("bird"))

	assert.False(t, c.Add("dog"))
	assert.False(t, c.Add("cat"))
	assert.Equal(t, 2, c.Len())
}

func TestBareEntryFirstToggleSetsLearned(t *testing.T) {
	words, _, err := Decode([]byte(`{"words":["dog"]}`))
	require.NoError(t, err)
	c := NewCollection(Words, words...)

	c.ToggleLearned("dog")
	assert.True(t, c.IsLearned("dog"))
}

func TestNewCollectionDropsDuplicates(t *testing.T) {
	c := NewCollection(Words, Entry{Text: "a", Learned: true}, Entry{Text: "a"})

	assert.Equal(t, []Entry{{Text: "a", Learned: true}}, c.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := NewCollection(Words, Entry{Text: "a"})
	entries := c.Entries()
	entries[0].Text = "changed"

	assert.True(t, c.Contains("a"))
}

func TestDecodeShapes(t *testing.T) {
	data := []byte(`{
		"words": ["run", {"word": "walk", "learned": false}, {"text": "jump", "learned": true}],
		"phrases": ["look up", {"phrase": "give in", "learned": true}]
	}`)

	words, phrases, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, []Entry{{Text: "run"}, {Text: "walk"}, {Text: "jump", Learned: true}}, words)
	assert.Equal(t, []Entry{{Text: "look up"}, {Text: "give in", Learned: true}}, phrases)
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, _, err = Decode([]byte(`{"words":[{"learned":true}]}`))
	assert.ErrorIs(t, err, errNoText)

	_, _, err = Decode([]byte(`{"words":["cat",null]}`))
	assert.ErrorIs(t, err, errNullEntry)
}

func TestCollectionKind(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Words, s.Collection(Words).Kind())
	assert.Equal(t, Phrases, s.Collection(Phrases).Kind())
}

func TestStoreImportMerges(t *testing.T) {
	s := NewStore()
	s.Words.Add("run")
	s.Words.ToggleLearned("run")

	added, err := s.Import([]byte(`{"words":[{"word":"run","learned":false},"swim"],"phrases":["go on"]}`))
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	assert.True(t, s.Words.IsLearned("run"))
	assert.Equal(t, []Entry{{Text: "run", Learned: true}, {Text: "swim"}}, s.Words.Entries())
	assert.True(t, s.Phrases.Contains("go on"))
}

func TestStoreMarshalJSON(t *testing.T) {
	s := NewStore()
	s.Words.Add("cat")
	s.Phrases.Add("hold on")
	s.Phrases.ToggleLearned("hold on")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"words": [{"word": "cat", "learned": false}],
		"phrases": [{"phrase": "hold on", "learned": true}]
	}`, string(data))

	restored := NewStore()
	added, err := restored.Import(data)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.True(t, restored.Phrases.IsLearned("hold on"))
}

func TestCollectionByKind(t *testing.T) {
	s := NewStore()

	assert.Same(t, s.Words, s.Collection(Words))
	assert.Same(t, s.Phrases, s.Collection(Phrases))
	assert.Equal(t, "phrase", Phrases.String())
}

func TestSummary(t *testing.T) {
	c := NewCollection(Words, Entry{Text: "a"}, Entry{Text: "b", Learned: true})

	assert.Equal(t, []string{"a", "b ✔"}, c.Summary())
}
