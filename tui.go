package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/aschmelyun/tvocab/internal/playback"
	"github.com/aschmelyun/tvocab/internal/prefs"
	"github.com/aschmelyun/tvocab/internal/selection"
	"github.com/aschmelyun/tvocab/internal/subtitle"
	"github.com/aschmelyun/tvocab/internal/vocab"
)

const maxStatuses = 6

func (i item) FilterValue() string { return i.text }

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	checkbox := "☐"
	str := i.text
	if i.learned {
		checkbox = "◼"
		str += " ✔"
	}
	str = fmt.Sprintf("%s %s", checkbox, str)

	fn := ItemStyle.Render
	if i.learned {
		fn = LearnedItemStyle.Render
	}
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

type modelOptions struct {
	videoFile    string
	playerBin    string
	entries      []subtitle.Entry
	clock        *playback.Clock // set when no external player is used
	tickInterval time.Duration
	prefs        prefs.Preferences
	savePrefs    prefs.SaveFunc
	logger       zerolog.Logger
	copyText     func(string) error
	pasteText    func() (string, error)
}

func newVocabList() list.Model {
	l := list.New(nil, itemDelegate{}, 64, 8)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	return l
}

func newModel(opts modelOptions) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	prompt := textinput.New()
	prompt.Prompt = "srt> "
	prompt.Placeholder = "path/to/subtitles.srt"

	title := "session"
	if opts.videoFile != "" {
		title = filepath.Base(opts.videoFile)
	}

	m := model{
		spinner:       s,
		logger:        opts.logger,
		videoFile:     opts.videoFile,
		videoTitle:    title,
		playerBin:     opts.playerBin,
		clock:         opts.clock,
		entries:       opts.entries,
		tickInterval:  opts.tickInterval,
		showSubtitles: true,
		store:         vocab.NewStore(),
		words:         newVocabList(),
		phrases:       newVocabList(),
		prefs:         opts.prefs,
		savePrefs:     opts.savePrefs,
		prompt:        prompt,
		copyText:      opts.copyText,
		pasteText:     opts.pasteText,
		keys:          defaultKeyMap(),
		help:          help.New(),
	}
	if m.tickInterval <= 0 {
		m.tickInterval = playback.DefaultInterval
	}

	if opts.clock != nil {
		m.sync = playback.NewSynchronizer(opts.clock, opts.logger)
		m.sync.Replace(opts.entries)
		m.syncGen = 1
	} else {
		m.loading = true
		m.loadingMsg = "Starting " + opts.playerBin + "..."
		m.socketPath = socketPath()
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.loading {
		return tea.Batch(
			m.spinner.Tick,
			launchPlayerCmd(m.playerBin, m.videoFile, m.socketPath),
		)
	}
	m.clock.Play()
	return tickCmd(m.syncGen, m.tickInterval)
}

// armSync starts a new sampling generation. Ticks still in flight from the
// previous generation are ignored when they arrive.
func (m *model) armSync() tea.Cmd {
	m.syncGen++
	if m.sync == nil || !m.showSubtitles {
		return nil
	}
	return tickCmd(m.syncGen, m.tickInterval)
}

func (m *model) stopSync() {
	m.syncGen++
	m.setActive("")
}

func (m *model) setActive(text string) {
	if text == m.active {
		return
	}
	m.active = text
	m.tokens = subtitle.Tokens(text)
	m.cursor = 0
}

func (m *model) addStatus(status string) {
	m.statuses = append(m.statuses, status)
	if len(m.statuses) > maxStatuses {
		m.statuses = m.statuses[len(m.statuses)-maxStatuses:]
	}
}

func (m *model) refreshLists() tea.Cmd {
	return tea.Batch(
		m.words.SetItems(itemsFrom(m.store.Words)),
		m.phrases.SetItems(itemsFrom(m.store.Phrases)),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max((msg.Height-12)/2, 3)
		m.words.SetSize(msg.Width, height)
		m.phrases.SetSize(msg.Width, height)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.stopSync()
			if m.player != nil {
				m.player.Quit()
				m.player.Close()
			} else if m.playerProc != nil && m.playerProc.Process != nil {
				// Still loading: nothing to send "quit" to yet.
				m.playerProc.Process.Kill()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Focus):
			m.focus = (m.focus + 1) % 3
			return m, nil
		}

		if m.loading || m.errorMsg != "" {
			return m, nil
		}

		switch m.focus {
		case wordsPane:
			return m.updateList(msg, vocab.Words)
		case phrasesPane:
			return m.updateList(msg, vocab.Phrases)
		default:
			return m.updateSubtitles(msg)
		}

	case playerStartedMsg:
		m.playerProc = msg.cmd
		m.addStatus("Started " + m.playerBin + ".")
		return m, tea.Batch(
			waitPlayerCmd(msg.cmd),
			dialPlayerCmd(m.socketPath),
		)

	case playerReadyMsg:
		m.player = msg.player
		m.sync = playback.NewSynchronizer(msg.player, m.logger)
		m.sync.Replace(m.entries)
		m.loading = false
		m.addStatus(SuccessStyle.Render("Connected to player."))
		cmd := m.armSync()
		return m, cmd

	case playerExitedMsg:
		m.logger.Info().Err(msg.err).Msg("player exited")
		m.stopSync()
		m.sync = nil
		m.playerProc = nil
		if m.player != nil {
			m.player.Close()
			m.player = nil
		}
		if m.loading {
			m.loading = false
			m.errorMsg = "player exited before it was ready"
			m.addStatus("The player exited before it was ready.")
			return m, nil
		}
		m.addStatus("Player closed; saved items are still available.")
		return m, nil

	case subtitlesLoadedMsg:
		m.logger.Info().Str("path", msg.path).Int("entries", len(msg.entries)).Msg("subtitles loaded")
		m.entries = msg.entries
		m.addStatus(fmt.Sprintf("Loaded %d subtitles from %s.", len(msg.entries), filepath.Base(msg.path)))
		if m.sync == nil {
			return m, nil
		}
		m.sync.Replace(msg.entries)
		cmd := m.armSync()
		return m, cmd

	case tickMsg:
		if msg.gen != m.syncGen || m.sync == nil {
			return m, nil
		}
		return m, sampleCmd(m.sync, msg.gen)

	case sampledMsg:
		if msg.gen != m.syncGen {
			return m, nil
		}
		m.setActive(msg.text)
		return m, tickCmd(msg.gen, m.tickInterval)

	case statusMsg:
		m.addStatus(msg.text)
		return m, nil

	case pastedMsg:
		added, err := m.store.Import([]byte(msg.text))
		if err != nil {
			m.addStatus(ErrorStyle.Render(err.Error()))
			return m, nil
		}
		m.addStatus(SuccessStyle.Render(fmt.Sprintf("Imported %d saved items from the clipboard.", added)))
		cmd := m.refreshLists()
		return m, cmd

	case errorMsg:
		m.logger.Error().Err(msg.err).Msg("command failed")
		if m.loading {
			m.loading = false
			m.errorMsg = msg.err.Error()
		}
		m.addStatus(ErrorStyle.Render(msg.err.Error()))
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m model) updateSubtitles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(m.tokens)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Click):
		if len(m.tokens) == 0 {
			return m, nil
		}
		cmd := m.click(m.cursor)
		return m, cmd

	case key.Matches(msg, m.keys.PhraseMode):
		on := m.selector.TogglePhraseMode()
		m.logger.Debug().Bool("phrase_mode", on).Msg("selection mode changed")

	case key.Matches(msg, m.keys.Subtitles):
		m.showSubtitles = !m.showSubtitles
		if m.showSubtitles {
			cmd := m.armSync()
			return m, cmd
		}
		m.stopSync()

	case key.Matches(msg, m.keys.Open):
		m.prompting = true
		m.prompt.SetValue("")
		cmd := m.prompt.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Copy):
		return m, copyVocabularyCmd(m.store, m.copyText)

	case key.Matches(msg, m.keys.Paste):
		return m, pasteVocabularyCmd(m.pasteText)

	case key.Matches(msg, m.keys.Color):
		m.prefs.Color = nextColor(textColors, m.prefs.Color)
		m.persistPrefs()

	case key.Matches(msg, m.keys.Background):
		m.prefs.Background = nextColor(backgroundColors, m.prefs.Background)
		m.persistPrefs()

	case key.Matches(msg, m.keys.Bigger):
		m.prefs = m.prefs.WithSize(m.prefs.SizePx() + 2)
		m.persistPrefs()

	case key.Matches(msg, m.keys.Smaller):
		m.prefs = m.prefs.WithSize(m.prefs.SizePx() - 2)
		m.persistPrefs()

	case key.Matches(msg, m.keys.PlayPause):
		if m.clock != nil {
			m.clock.Toggle()
		}

	case key.Matches(msg, m.keys.Back):
		if m.clock != nil {
			m.clock.Seek(-5)
		}

	case key.Matches(msg, m.keys.Forward):
		if m.clock != nil {
			m.clock.Seek(5)
		}
	}

	return m, nil
}

// click applies a click on the token at index to the selection machine and
// saves whatever it asks for.
func (m *model) click(index int) tea.Cmd {
	action := m.selector.Click(m.tokens[index], index, m.tokens)

	switch action.Kind {
	case selection.SaveWord:
		if !m.store.Words.Add(action.Text) {
			m.logger.Debug().Str("word", action.Text).Msg("word already saved")
		}
	case selection.SavePhrase:
		if !m.store.Phrases.Add(action.Text) {
			m.logger.Debug().Str("phrase", action.Text).Msg("phrase already saved")
		}
	case selection.OpenPhrase:
		m.logger.Debug().Int("index", action.Index).Msg("phrase span opened")
		return nil
	default:
		return nil
	}

	return m.refreshLists()
}

func (m *model) persistPrefs() {
	if m.savePrefs == nil {
		return
	}
	if err := m.savePrefs(m.prefs); err != nil {
		m.logger.Warn().Err(err).Msg("failed to save preferences")
		m.addStatus(ErrorStyle.Render(err.Error()))
	}
}

func (m model) updateList(msg tea.KeyMsg, kind vocab.Kind) (tea.Model, tea.Cmd) {
	l := &m.words
	if kind == vocab.Phrases {
		l = &m.phrases
	}
	collection := m.store.Collection(kind)

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if i, ok := l.SelectedItem().(item); ok {
			collection.ToggleLearned(i.text)
			m.logger.Debug().Stringer("kind", collection.Kind()).Str("text", i.text).Bool("learned", collection.IsLearned(i.text)).Msg("toggled learned")
			cmd := m.refreshLists()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if i, ok := l.SelectedItem().(item); ok {
			collection.Delete(i.text)
			m.logger.Debug().Stringer("kind", collection.Kind()).Str("text", i.text).Msg("deleted")
			cmd := m.refreshLists()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil

	case tea.KeyEnter:
		m.prompting = false
		m.prompt.Blur()
		path := strings.TrimSpace(m.prompt.Value())
		if path == "" {
			return m, nil
		}
		return m, loadSubtitlesCmd(path)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m model) renderSubtitle() string {
	if !m.showSubtitles {
		return DimTextStyle.Render("  subtitles hidden")
	}
	if len(m.tokens) == 0 {
		return DimTextStyle.Render("  …")
	}

	base := subtitleStyle(m.prefs)
	spanStart, spanOpen := m.selector.SpanStart()
	pad := base.Render(strings.Repeat(" ", subtitlePadding(m.prefs)))

	words := make([]string, len(m.tokens))
	for i, w := range m.tokens {
		style := base
		if i == m.cursor && m.focus == subtitlePane {
			style = style.Underline(true)
		}
		if spanOpen && i == spanStart {
			style = style.Reverse(true)
		}
		words[i] = style.Render(w)
	}

	return "  " + pad + strings.Join(words, base.Render(" ")) + pad
}

func (m model) header() string {
	visibility := "on"
	if !m.showSubtitles {
		visibility = "off"
	}
	return HeaderStyle.Render(fmt.Sprintf(
		"Mode: %s | Subtitles: %s | %d entries | %s on %s, %s",
		m.selector.State(), visibility, len(m.sync.Entries()), m.prefs.Color, m.prefs.Background, m.prefs.Size,
	))
}

func (m model) View() string {
	if m.quitting {
		return styleOutput(append(m.statuses, summaryStatuses(m.store)...))
	}

	if m.errorMsg != "" {
		return styleOutput(m.statuses) + "\nPress 'q' to quit"
	} else if m.loading {
		loadingText := fmt.Sprintf("%s%s", m.spinner.View(), m.loadingMsg)
		if len(m.statuses) > 0 {
			return styleOutput(m.statuses) + loadingText
		}
		return loadingText
	}

	var b strings.Builder
	if len(m.statuses) > 0 {
		b.WriteString(styleOutput(m.statuses))
	}
	if m.sync != nil {
		b.WriteString(m.header() + "\n\n")
	}
	b.WriteString(m.renderSubtitle() + "\n\n")
	if m.prompting {
		b.WriteString("  " + m.prompt.View() + "\n\n")
	}
	b.WriteString(m.help.View(m.keys) + "\n")

	if m.store.Words.Len() > 0 || m.store.Phrases.Len() > 0 {
		b.WriteString("\n" + TitleStyle.Render(fmt.Sprintf("Saved (%s)", m.videoTitle)) + "\n")
		if m.store.Words.Len() > 0 {
			b.WriteString(m.paneTitle("Words", wordsPane) + "\n" + m.words.View() + "\n")
		}
		if m.store.Phrases.Len() > 0 {
			b.WriteString(m.paneTitle("Phrases", phrasesPane) + "\n" + m.phrases.View() + "\n")
		}
	}

	return b.String()
}

func (m model) paneTitle(title string, p pane) string {
	if m.focus == p {
		return FocusedTitleStyle.Render(title)
	}
	return PaneTitleStyle.Render(title)
}
