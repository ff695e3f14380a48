// Package subtitle parses SRT-style subtitle text into timed entries.
package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Entry is one timed block of subtitle text. Start and End are seconds.
type Entry struct {
	Start float64
	End   float64
	Text  string
}

// Active reports whether t falls inside [Start, End], inclusive at both ends.
func (e Entry) Active(t float64) bool {
	return t >= e.Start && t <= e.End
}

var (
	blockSeparator = regexp.MustCompile(`\n\n+`)
	timingPattern  = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3}) --> (\d{2}):(\d{2}):(\d{2}),(\d{3})`)
)

// Parse turns raw subtitle text into entries in file order. Blocks with fewer
// than three lines or without a timing line in second position are skipped.
func Parse(raw string) []Entry {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var entries []Entry
	for _, block := range blockSeparator.Split(raw, -1) {
		lines := strings.Split(block, "\n")
		// A newline before EOF is not a text line.
		for len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		if len(lines) < 3 {
			continue
		}

		matches := timingPattern.FindStringSubmatch(lines[1])
		if matches == nil {
			continue
		}

		entries = append(entries, Entry{
			Start: timestampSeconds(matches[1:5]),
			End:   timestampSeconds(matches[5:9]),
			Text:  strings.Join(lines[2:], " "),
		})
	}

	return entries
}

// ParseFile reads path and parses its contents.
func ParseFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitles: %w", err)
	}
	return Parse(string(data)), nil
}

// timestampSeconds expects hours, minutes, seconds and milliseconds as
// digit-only strings, which the timing pattern guarantees.
func timestampSeconds(parts []string) float64 {
	var n [4]int
	for i, part := range parts {
		n[i], _ = strconv.Atoi(part)
	}
	return float64(n[0]*3600+n[1]*60+n[2]) + float64(n[3])/1000
}

// Tokens splits active subtitle text into the word tokens the viewer clicks.
// Tokens are split on single spaces so indices line up with the rendered words.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds*1000 + 0.5)
	ms := total % 1000
	s := total / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", s/3600, (s/60)%60, s%60, ms)
}
