package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aschmelyun/tvocab/internal/config"
	"github.com/aschmelyun/tvocab/internal/logging"
	"github.com/aschmelyun/tvocab/internal/playback"
	"github.com/aschmelyun/tvocab/internal/prefs"
	"github.com/aschmelyun/tvocab/internal/subtitle"
)

const VERSION = "1.0.0"

var validExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".m4v", ".webm"}

type playOptions struct {
	envFile  string
	srtFile  string
	noPlayer bool
	tick     time.Duration
	logLevel string
}

func newRootCommand() *cobra.Command {
	var opts playOptions

	root := &cobra.Command{
		Use:           "tvocab [video]",
		Short:         "Watch a video with clickable subtitles and collect vocabulary",
		Version:       VERSION,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, opts)
		},
	}

	addPlayFlags(root, &opts)
	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "Path to a .env file (default .env)")

	root.AddCommand(newPlayCommand(&opts))
	root.AddCommand(newParseCommand())

	return root
}

// newPlayCommand is the explicit form of the root command. It shares opts
// with the root so the persistent --env flag reaches it.
func newPlayCommand(opts *playOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [video]",
		Short: "Play a video with clickable subtitles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, args, *opts)
		},
	}
	addPlayFlags(cmd, opts)
	return cmd
}

func addPlayFlags(cmd *cobra.Command, opts *playOptions) {
	cmd.Flags().StringVar(&opts.srtFile, "srt", "", "Subtitle file (.srt) to overlay")
	cmd.Flags().BoolVar(&opts.noPlayer, "no-player", false, "Use an internal clock instead of launching a video player")
	cmd.Flags().DurationVar(&opts.tick, "tick", 0, "Subtitle sampling interval (default from TVOCAB_TICK_MS or 300ms)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.srt>",
		Short: "Print the entries parsed from a subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := subtitle.ParseFile(args[0])
			if err != nil {
				return err
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					fmt.Sprintf("%d", i+1),
					subtitle.FormatTimestamp(e.Start),
					subtitle.FormatTimestamp(e.End),
					e.Text,
				}
			}

			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Start", "End", "Text"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
			}
			fmt.Fprintf(out, "%d entries\n", len(entries))
			return nil
		},
	}
}

func runPlay(cmd *cobra.Command, args []string, opts playOptions) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("tick") {
		cfg.TickInterval = opts.tick
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tvocab needs an interactive terminal")
	}

	var videoFile string
	if len(args) == 1 {
		videoFile = args[0]
		if _, err := os.Stat(videoFile); os.IsNotExist(err) {
			return fmt.Errorf("file '%s' does not exist", videoFile)
		}
		if !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(videoFile))) {
			return fmt.Errorf("file '%s' is not a valid video file", videoFile)
		}
	}

	if !opts.noPlayer {
		if videoFile == "" {
			return errors.New("a video file is required unless --no-player is set")
		}
		if !checkDependency(cfg.Player) {
			return fmt.Errorf("%s is not installed; install it or use --no-player", cfg.Player)
		}
	}

	fmt.Println(BulletStyle.Render("┌") + TitleStyle.Render("tvocab"))

	store, err := prefsStore(cfg)
	if err != nil {
		return err
	}
	preferences, err := prefs.Load(store.Load)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load preferences, using defaults")
	}

	var entries []subtitle.Entry
	if opts.srtFile != "" {
		entries, err = subtitle.ParseFile(opts.srtFile)
		if err != nil {
			return err
		}
		logger.Info().Str("path", opts.srtFile).Int("entries", len(entries)).Msg("subtitles loaded")
		fmt.Println(BulletStyle.Render("├") + TextStyle.Render(fmt.Sprintf("Loaded %d subtitles from %s.", len(entries), filepath.Base(opts.srtFile))))
	}

	var clock *playback.Clock
	if opts.noPlayer {
		clock = playback.NewClock(time.Now)
	}

	initialModel := newModel(modelOptions{
		videoFile:    videoFile,
		playerBin:    cfg.Player,
		entries:      entries,
		clock:        clock,
		tickInterval: cfg.TickInterval,
		prefs:        preferences,
		savePrefs:    store.Save,
		logger:       logger,
		copyText:     clipboard.WriteAll,
		pasteText:    clipboard.ReadAll,
	})

	p := tea.NewProgram(initialModel)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

type prefsBackend interface {
	Load() (prefs.Preferences, error)
	Save(prefs.Preferences) error
}

func prefsStore(cfg *config.Config) (prefsBackend, error) {
	if cfg.PrefsBackend == config.BackendKeyring {
		return prefs.KeyringStore{Service: "tvocab", User: getSystemUser()}, nil
	}

	path := cfg.PrefsFile
	if path == "" {
		var err error
		path, err = prefs.DefaultFilePath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate preferences file: %w", err)
		}
	}
	return prefs.FileStore{Path: path}, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, BulletStyle.Render("└")+ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
