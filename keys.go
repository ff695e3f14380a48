package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Click      key.Binding
	PhraseMode key.Binding
	Subtitles  key.Binding
	Focus      key.Binding
	Open       key.Binding
	Copy       key.Binding
	Paste      key.Binding
	Color      key.Binding
	Background key.Binding
	Bigger     key.Binding
	Smaller    key.Binding
	PlayPause  key.Binding
	Back       key.Binding
	Forward    key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev word")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next word")),
		Click:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save word")),
		PhraseMode: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "phrase mode")),
		Subtitles:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show/hide")),
		Focus:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open srt")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy saved")),
		Paste:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "paste saved")),
		Color:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "text color")),
		Background: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "background")),
		Bigger:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "size")),
		Smaller:    key.NewBinding(key.WithKeys("-")),
		PlayPause:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Back:       key.NewBinding(key.WithKeys(","), key.WithHelp(",/.", "seek 5s")),
		Forward:    key.NewBinding(key.WithKeys(".")),
		Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "learned")),
		Delete:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.PhraseMode, k.Subtitles, k.Focus, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Click, k.PhraseMode},
		{k.Subtitles, k.Focus, k.Open, k.Copy, k.Paste},
		{k.Color, k.Background, k.Bigger, k.PlayPause, k.Back},
		{k.Toggle, k.Delete, k.Quit},
	}
}
