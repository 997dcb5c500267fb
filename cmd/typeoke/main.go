// Package main provides the CLI entrypoint for typeoke.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typeoke/internal/config"
	"github.com/verte-zerg/typeoke/internal/game"
	"github.com/verte-zerg/typeoke/internal/lyrics"
	"github.com/verte-zerg/typeoke/internal/model"
	"github.com/verte-zerg/typeoke/internal/playback"
	"github.com/verte-zerg/typeoke/internal/scoresui"
	"github.com/verte-zerg/typeoke/internal/source"
	"github.com/verte-zerg/typeoke/internal/stats"
	"github.com/verte-zerg/typeoke/internal/store"
	"github.com/verte-zerg/typeoke/internal/tui"
)

const (
	defaultDuration = 180.0
	defaultSeed     = 0
	defaultLines    = 8
	defaultTickMs   = 50
)

var (
	playFile     string
	playMIDI     string
	playAudio    string
	playTitle    string
	playArtist   string
	playDuration float64
	playSeed     int
	playLines    int
	playTickMs   int

	scoresTitle string
	scoresSince string
	scoresLast  int
	scoresPlain bool

	parseDuration float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeoke",
		Short:         "Terminal karaoke typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playFile, "file", "", "lyrics file (LRC or plain text)")
	rootCmd.Flags().StringVar(&playMIDI, "midi", "", "MIDI/karaoke file with embedded lyrics")
	rootCmd.Flags().StringVar(&playAudio, "audio", "", "audio file to play along (mp3 or wav)")
	rootCmd.Flags().StringVar(&playTitle, "title", "", "track title (enables online lyrics lookup)")
	rootCmd.Flags().StringVar(&playArtist, "artist", "", "track artist for online lyrics lookup")
	rootCmd.Flags().Float64Var(&playDuration, "duration", defaultDuration, "track duration in seconds when no audio file is given")
	rootCmd.Flags().IntVar(&playSeed, "seed", defaultSeed, "seed for generated practice lyrics")
	rootCmd.Flags().IntVar(&playLines, "lines", defaultLines, "number of generated practice lines")
	rootCmd.Flags().IntVar(&playTickMs, "tick-ms", defaultTickMs, "playback sampling interval in milliseconds")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newParseCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "file", &playFile, fileCfg.Play.File)
	applyStringConfig(cmd, "midi", &playMIDI, fileCfg.Play.MIDI)
	applyStringConfig(cmd, "audio", &playAudio, fileCfg.Play.Audio)
	applyStringConfig(cmd, "title", &playTitle, fileCfg.Play.Title)
	applyStringConfig(cmd, "artist", &playArtist, fileCfg.Play.Artist)
	applyFloatConfig(cmd, "duration", &playDuration, fileCfg.Play.Duration)
	applyIntConfig(cmd, "seed", &playSeed, fileCfg.Play.Seed)
	applyIntConfig(cmd, "lines", &playLines, fileCfg.Play.Lines)
	applyIntConfig(cmd, "tick-ms", &playTickMs, fileCfg.Play.TickMs)

	if err := validatePlay(); err != nil {
		return err
	}

	tun := model.DefaultTunables()
	applySyncConfig(&tun, fileCfg.Sync)

	provider := resolveProvider()

	clock, err := resolveClock()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := clock.Close(); cerr != nil {
			logErrf("failed to close player: %v\n", cerr)
		}
	}()

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	engine := game.New(tun, st)
	track := model.TrackInfo{
		Title:    playTitle,
		Artist:   playArtist,
		Source:   provider.Name(),
		Duration: clock.Duration(),
	}

	m := tui.NewModel(engine, clock, provider, track, time.Duration(playTickMs)*time.Millisecond)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveProvider picks the lyric source by precedence: explicit file, MIDI
// file, online lookup, generated practice lines.
func resolveProvider() source.Provider {
	switch {
	case playFile != "":
		return source.NewFile(playFile)
	case playMIDI != "":
		return source.NewMIDI(playMIDI)
	case playTitle != "" && playArtist != "":
		return source.NewLRCLib(playTitle, playArtist, config.DefaultLyricsCacheDir())
	default:
		return source.NewPlaceholder(int64(playSeed), playLines)
	}
}

func resolveClock() (playback.Clock, error) {
	if playAudio == "" {
		return playback.NewManualClock(playDuration), nil
	}
	player, err := playback.OpenAudio(playAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio: %w", err)
	}
	return player, nil
}

func validatePlay() error {
	if playTickMs <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	if playLines <= 0 {
		return fmt.Errorf("--lines must be > 0")
	}
	if playDuration < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	if playFile != "" && playMIDI != "" {
		return fmt.Errorf("--file and --midi are mutually exclusive")
	}
	if playTitle != "" && playArtist == "" && playFile == "" && playMIDI == "" {
		return fmt.Errorf("--title requires --artist for online lookup")
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Browse play scores",
		RunE:  runScoresCmd,
	}
	cmd.Flags().StringVar(&scoresTitle, "title", "", "track title filter")
	cmd.Flags().StringVar(&scoresSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&scoresLast, "last", 0, "limit to last N plays")
	cmd.Flags().BoolVar(&scoresPlain, "plain", false, "print scores instead of opening the browser")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if scoresSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", scoresSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	filter := model.ScoreFilter{
		Title: scoresTitle,
		Since: sinceTime,
		Last:  scoresLast,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if scoresPlain {
		scores, err := st.ListScores(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list scores: %w", err)
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderSummary(out, scores); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
		if err := stats.RenderScores(out, scores); err != nil {
			return fmt.Errorf("failed to render scores: %w", err)
		}
		if scoresTitle != "" {
			best, ok, err := st.BestScore(cmd.Context(), scoresTitle)
			if err != nil {
				return fmt.Errorf("failed to load best score: %w", err)
			}
			if ok {
				if _, err := fmt.Fprintf(out, "\nBest: %d WPM at %d%% on %s\n",
					best.WPM, best.Accuracy, best.PlayedAt.Format("2006-01-02")); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
		}
		return nil
	}

	m := scoresui.NewModel(st, filter)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run scores TUI: %w", err)
	}
	return nil
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed lyric timeline for a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runParseCmd,
	}
	cmd.Flags().Float64Var(&parseDuration, "duration", 0, "normalize untimed lyrics to this duration in seconds")
	return cmd
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	var provider source.Provider
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi", ".kar":
		provider = source.NewMIDI(path)
	default:
		provider = source.NewFile(path)
	}

	loaded, err := provider.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load lyrics: %w", err)
	}
	seq := lyrics.Parse(loaded.Raw)
	duration := parseDuration
	if duration <= 0 {
		duration = loaded.Duration
	}
	if duration > 0 && !seq.Timed {
		tun := model.DefaultTunables()
		seq = lyrics.Normalize(seq, duration, tun.StartOffset, tun.EndOffset)
	}

	out := cmd.OutOrStdout()
	if seq.Empty() {
		_, err := fmt.Fprintln(out, "No lyric lines found.")
		return err
	}
	for _, line := range seq.Lines {
		if _, err := fmt.Fprintf(out, "%s - %s  %s\n",
			lyrics.FormatTimestamp(line.Start),
			lyrics.FormatTimestamp(line.End),
			line.Text,
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applySyncConfig overrides the default thresholds with any values set in
// the config file. Sync thresholds have no CLI flags.
func applySyncConfig(tun *model.Tunables, sync config.SyncConfig) {
	if sync.GapLookAhead != nil {
		tun.GapLookAhead = *sync.GapLookAhead
	}
	if sync.IntroLookAhead != nil {
		tun.IntroLookAhead = *sync.IntroLookAhead
	}
	if sync.CatchUpChars != nil {
		tun.CatchUpChars = *sync.CatchUpChars
	}
	if sync.CatchUpGrace != nil {
		tun.CatchUpGrace = *sync.CatchUpGrace
	}
	if sync.CatchUpLead != nil {
		tun.CatchUpLead = *sync.CatchUpLead
	}
	if sync.StallTimeout != nil {
		tun.StallTimeout = *sync.StallTimeout
	}
	if sync.StartOffset != nil {
		tun.StartOffset = *sync.StartOffset
	}
	if sync.EndOffset != nil {
		tun.EndOffset = *sync.EndOffset
	}
}

func defaultConfigTemplate() string {
	tun := model.DefaultTunables()
	return fmt.Sprintf(`# typeoke configuration
# Uncomment a value to enable it. CLI flags override config values.

[play]
# file = ""                # Lyrics file (LRC or plain text)
# midi = ""                # MIDI/karaoke file with embedded lyrics
# audio = ""               # Audio file to play along (mp3 or wav)
# title = ""               # Track title for online lyrics lookup
# artist = ""              # Track artist for online lyrics lookup
# duration = %.1f         # Track duration in seconds without audio
# seed = %d                 # Seed for generated practice lyrics
# lines = %d                # Number of generated practice lines
# tick-ms = %d             # Playback sampling interval in milliseconds

[sync]
# gap-look-ahead = %.1f     # Seconds before a line when it becomes active
# intro-look-ahead = %.1f   # Seconds before the first line when it activates
# catch-up-chars = %d      # Lag in characters before forced catch-up
# catch-up-grace = %.1f     # Seconds of playback before catch-up applies
# catch-up-lead = %d        # Characters of runway left after catch-up
# stall-timeout = %.1f      # Seconds without sync before lyrics reload
# start-offset = %.1f       # Leading silence when rescaling timings
# end-offset = %.1f         # Trailing silence when rescaling timings
`,
		defaultDuration,
		defaultSeed,
		defaultLines,
		defaultTickMs,
		tun.GapLookAhead,
		tun.IntroLookAhead,
		tun.CatchUpChars,
		tun.CatchUpGrace,
		tun.CatchUpLead,
		tun.StallTimeout,
		tun.StartOffset,
		tun.EndOffset,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
