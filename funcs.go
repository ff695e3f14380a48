package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aschmelyun/tvocab/internal/playback"
	"github.com/aschmelyun/tvocab/internal/subtitle"
	"github.com/aschmelyun/tvocab/internal/vocab"
)

func launchPlayerCmd(player, videoFile, socketPath string) tea.Cmd {
	return func() tea.Msg {
		os.Remove(socketPath)

		cmd := exec.Command(player,
			"--input-ipc-server="+socketPath,
			"--force-window=yes",
			"--sub-visibility=no",
			videoFile,
		)
		if err := cmd.Start(); err != nil {
			return errorMsg{err: fmt.Errorf("failed to start %s: %w", player, err)}
		}
		return playerStartedMsg{cmd: cmd}
	}
}

func waitPlayerCmd(cmd *exec.Cmd) tea.Cmd {
	return func() tea.Msg {
		return playerExitedMsg{err: cmd.Wait()}
	}
}

func dialPlayerCmd(socketPath string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		player, err := playback.DialMPV(ctx, socketPath)
		if err != nil {
			return errorMsg{err: err}
		}
		return playerReadyMsg{player: player}
	}
}

func loadSubtitlesCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := subtitle.ParseFile(path)
		if err != nil {
			return errorMsg{err: err}
		}
		return subtitlesLoadedMsg{path: path, entries: entries}
	}
}

func tickCmd(gen int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// sampleCmd reads the playback clock off the update loop, since the player
// answers over a socket.
func sampleCmd(s *playback.Synchronizer, gen int) tea.Cmd {
	return func() tea.Msg {
		return sampledMsg{gen: gen, text: s.Tick()}
	}
}

func copyVocabularyCmd(store *vocab.Store, copyText func(string) error) tea.Cmd {
	return func() tea.Msg {
		data, err := json.MarshalIndent(store, "", "  ")
		if err != nil {
			return errorMsg{err: err}
		}
		if err := copyText(string(data)); err != nil {
			return errorMsg{err: fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		return statusMsg{text: fmt.Sprintf("Copied %d words and %d phrases to the clipboard.", store.Words.Len(), store.Phrases.Len())}
	}
}

// pasteVocabularyCmd only reads the clipboard; the import itself happens in
// Update so the store is only ever touched from the update loop.
func pasteVocabularyCmd(pasteText func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := pasteText()
		if err != nil {
			return errorMsg{err: fmt.Errorf("failed to read clipboard: %w", err)}
		}
		return pastedMsg{text: text}
	}
}

type pastedMsg struct {
	text string
}

func itemsFrom(c *vocab.Collection) []list.Item {
	entries := c.Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = item{text: e.Text, learned: e.Learned}
	}
	return items
}

func styleOutput(statuses []string) string {
	var styledStatuses []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styledStatuses = append(styledStatuses, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styledStatuses, "\n") + "\n"
}

func summaryStatuses(store *vocab.Store) []string {
	var statuses []string
	if n := store.Words.Len(); n > 0 {
		statuses = append(statuses, fmt.Sprintf("Saved %d words: %s", n, strings.Join(store.Words.Summary(), ", ")))
	}
	if n := store.Phrases.Len(); n > 0 {
		statuses = append(statuses, fmt.Sprintf("Saved %d phrases: %s", n, strings.Join(store.Phrases.Summary(), ", ")))
	}
	if len(statuses) == 0 {
		statuses = append(statuses, "Nothing saved this session.")
	}
	return statuses
}

func socketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("tvocab-%d.sock", os.Getpid()))
}

func checkDependency(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

func getSystemUser() string {
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME") // Windows fallback
	}
	if username == "" {
		username = "anon" // Default fallback
	}

	return username
}
