package subtitle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleBlock(t *testing.T) {
	entries := Parse("1\n00:00:01,000 --> 00:00:02,500\nHello world")

	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Start: 1.0, End: 2.5, Text: "Hello world"}, entries[0])
}

func TestParseDropsMalformedBlocks(t *testing.T) {
	raw := "1\n00:00:01,000 --> 00:00:02,000\nkept\n\n2\nno timing here\nlost"

	entries := Parse(raw)

	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Text)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Entry
	}{
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "garbage only",
			raw:  "not\na\nsubtitle\n\nfile",
			want: nil,
		},
		{
			name: "block with two lines",
			raw:  "1\n00:00:01,000 --> 00:00:02,000",
			want: nil,
		},
		{
			name: "timing line with no text",
			raw:  "1\n00:00:01,000 --> 00:00:02,000\n",
			want: nil,
		},
		{
			name: "multi-line text joined with spaces",
			raw:  "7\n01:02:03,004 --> 01:02:05,000\nfirst line\nsecond line\n",
			want: []Entry{{Start: 3723.004, End: 3725.0, Text: "first line second line"}},
		},
		{
			name: "several blank lines between blocks",
			raw:  "1\n00:00:01,000 --> 00:00:02,000\na\n\n\n\n2\n00:00:03,000 --> 00:00:04,000\nb",
			want: []Entry{
				{Start: 1, End: 2, Text: "a"},
				{Start: 3, End: 4, Text: "b"},
			},
		},
		{
			name: "crlf line endings",
			raw:  "1\r\n00:00:01,000 --> 00:00:02,000\r\nwindows\r\n\r\n",
			want: []Entry{{Start: 1, End: 2, Text: "windows"}},
		},
		{
			name: "period millisecond separator rejected",
			raw:  "1\n00:00:01.000 --> 00:00:02.000\nvtt style",
			want: nil,
		},
		{
			name: "file order kept without sorting",
			raw:  "1\n00:00:05,000 --> 00:00:06,000\nlater\n\n2\n00:00:01,000 --> 00:00:02,000\nearlier",
			want: []Entry{
				{Start: 5, End: 6, Text: "later"},
				{Start: 1, End: 2, Text: "earlier"},
			},
		},
		{
			name: "end before start is not validated",
			raw:  "1\n00:00:05,000 --> 00:00:01,000\nbackwards",
			want: []Entry{{Start: 5, End: 1, Text: "backwards"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i].Start, got[i].Start, 1e-9)
				assert.InDelta(t, tt.want[i].End, got[i].End, 1e-9)
				assert.Equal(t, tt.want[i].Text, got[i].Text)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.srt")
	require.NoError(t, os.WriteFile(path, []byte("1\n00:00:00,500 --> 00:00:01,000\nhi\n"), 0644))

	entries, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hi", entries[0].Text)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.srt"))
	assert.Error(t, err)
}

func TestEntryActiveBoundaries(t *testing.T) {
	e := Entry{Start: 1.0, End: 2.0}

	assert.True(t, e.Active(1.0))
	assert.True(t, e.Active(2.0))
	assert.False(t, e.Active(0.999))
	assert.False(t, e.Active(2.001))
}

func TestTokens(t *testing.T) {
	assert.Nil(t, Tokens(""))
	assert.Equal(t, []string{"a", "b", "c"}, Tokens("a b c"))
	assert.Equal(t, []string{"a", "", "b"}, Tokens("a  b"))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:00:00,000", FormatTimestamp(0))
	assert.Equal(t, "01:02:03,004", FormatTimestamp(3723.004))
	assert.Equal(t, "00:00:00,000", FormatTimestamp(-3))
}
