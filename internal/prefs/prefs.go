// Package prefs holds the subtitle display preferences and the backends that
// persist them.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	DefaultColor      = "#ffff00"
	DefaultBackground = "transparent"
	DefaultSize       = "20px"

	MinSize = 10
	MaxSize = 50
)

type Preferences struct {
	Color      string `yaml:"subtitle_color"`
	Background string `yaml:"subtitle_bg"`
	Size       string `yaml:"subtitle_size"`
}

func Defaults() Preferences {
	return Preferences{
		Color:      DefaultColor,
		Background: DefaultBackground,
		Size:       DefaultSize,
	}
}

// withDefaults fills any empty field from Defaults.
func (p Preferences) withDefaults() Preferences {
	d := Defaults()
	if p.Color == "" {
		p.Color = d.Color
	}
	if p.Background == "" {
		p.Background = d.Background
	}
	if p.Size == "" {
		p.Size = d.Size
	}
	return p
}

// SizePx parses Size ("20px" or "20"), falling back to the default size.
func (p Preferences) SizePx() int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(p.Size), "px"))
	if err != nil {
		n, _ = strconv.Atoi(strings.TrimSuffix(DefaultSize, "px"))
	}
	return n
}

// WithSize returns p with Size set to n pixels, clamped to [MinSize, MaxSize].
func (p Preferences) WithSize(n int) Preferences {
	n = min(max(n, MinSize), MaxSize)
	p.Size = strconv.Itoa(n) + "px"
	return p
}

// Transparent reports whether no background should be drawn.
func (p Preferences) Transparent() bool {
	return p.Background == "" || strings.EqualFold(p.Background, DefaultBackground)
}

// LoadFunc and SaveFunc are the injected persistence hooks.
type (
	LoadFunc func() (Preferences, error)
	SaveFunc func(Preferences) error
)

// Load calls load and fills missing fields with defaults. A failed load
// yields the defaults together with the error.
func Load(load LoadFunc) (Preferences, error) {
	if load == nil {
		return Defaults(), nil
	}
	p, err := load()
	if err != nil {
		return Defaults(), err
	}
	return p.withDefaults(), nil
}

// FileStore keeps preferences in a yaml file.
type FileStore struct {
	Path string
}

// DefaultFilePath is prefs.yaml under the user config directory.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tvocab", "prefs.yaml"), nil
}

func (s FileStore) Load() (Preferences, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return p, nil
}

func (s FileStore) Save(p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// KeyringStore keeps each preference as its own secret in the OS keyring.
type KeyringStore struct {
	Service string
	User    string
}

func (s KeyringStore) key(name string) string {
	return s.User + "/" + name
}

func (s KeyringStore) Load() (Preferences, error) {
	var p Preferences
	fields := map[string]*string{
		"subtitleColor": &p.Color,
		"subtitleBg":    &p.Background,
		"subtitleSize":  &p.Size,
	}
	for name, dst := range fields {
		v, err := keyring.Get(s.Service, s.key(name))
		if errors.Is(err, keyring.ErrNotFound) {
			continue
		}
		if err != nil {
			return Preferences{}, fmt.Errorf("failed to read %s from keyring: %w", name, err)
		}
		*dst = v
	}
	return p, nil
}

func (s KeyringStore) Save(p Preferences) error {
	fields := map[string]string{
		"subtitleColor": p.Color,
		"subtitleBg":    p.Background,
		"subtitleSize":  p.Size,
	}
	for name, v := range fields {
		if err := keyring.Set(s.Service, s.key(name), v); err != nil {
			return fmt.Errorf("failed to save %s to keyring: %w", name, err)
		}
	}
	return nil
}
