// Package main provides the CLI entrypoint for keyzen.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/keyzen/internal/config"
	"github.com/verte-zerg/keyzen/internal/corpus"
	"github.com/verte-zerg/keyzen/internal/feedback"
	"github.com/verte-zerg/keyzen/internal/keyboard"
	"github.com/verte-zerg/keyzen/internal/logging"
	"github.com/verte-zerg/keyzen/internal/model"
	"github.com/verte-zerg/keyzen/internal/reports"
	"github.com/verte-zerg/keyzen/internal/stats"
	"github.com/verte-zerg/keyzen/internal/store"
	"github.com/verte-zerg/keyzen/internal/tui"
)

const (
	defaultOS           = "auto"
	defaultLayout       = "full"
	defaultChatterMs    = 50
	defaultHistory      = 20
	defaultReleaseMs    = 150
	defaultErrorFlashMs = 300
	defaultSound        = feedback.BackendBell
	defaultSoundPerSec  = 20
	defaultLogLevel     = "info"
	defaultStatsTop     = 10
	defaultStatsWindow  = 10
	defaultTermWidth    = 80
)

var (
	testerOS             string
	testerLayout         string
	testerChatterMs      int
	testerHistory        int
	testerReleaseMs      int
	testerSuppressRepeat bool

	zenCorpus       string
	zenKeepStreaks  bool
	zenResetOnExit  bool
	zenErrorFlashMs int

	soundBackend string
	soundPerSec  int

	logLevel  string
	logFile   string
	sessionID string

	reportsOS string

	statsSince  string
	statsLast   int
	statsWindow int
	statsTop    int
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "keyzen",
		Short:             "Terminal keyboard tester with a typing zen mode",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupLogging,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, false)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")
	addAppFlags(rootCmd)

	rootCmd.AddCommand(newZenCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addAppFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&testerOS, "os", defaultOS, "key label variant (auto, mac, win)")
	cmd.Flags().StringVar(&testerLayout, "layout", defaultLayout, "keyboard layout (full, compact)")
	cmd.Flags().IntVar(&testerChatterMs, "chatter-ms", defaultChatterMs, "repeat presses closer than this are flagged as chatter")
	cmd.Flags().IntVar(&testerHistory, "history", defaultHistory, "number of recent presses shown")
	cmd.Flags().IntVar(&testerReleaseMs, "release-ms", defaultReleaseMs, "a key counts as released after this long without a repeat")
	cmd.Flags().BoolVar(&testerSuppressRepeat, "suppress-repeat", false, "ignore auto-repeat of held keys")
	cmd.Flags().StringVar(&zenCorpus, "corpus", "", "YAML quote file (default: built-in quotes)")
	cmd.Flags().BoolVar(&zenKeepStreaks, "keep-streaks", true, "keep best combo and completed count across quotes")
	cmd.Flags().BoolVar(&zenResetOnExit, "reset-on-exit", false, "start a fresh quote when leaving zen mode")
	cmd.Flags().IntVar(&zenErrorFlashMs, "error-flash-ms", defaultErrorFlashMs, "how long a mistyped character stays highlighted")
	cmd.Flags().StringVar(&soundBackend, "sound", defaultSound, "click backend (bell, off)")
	cmd.Flags().IntVar(&soundPerSec, "sound-max-per-second", defaultSoundPerSec, "maximum clicks per second (0 for no limit)")
}

func newZenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zen",
		Short: "Start directly in typing zen mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, true)
		},
	}
	addAppFlags(cmd)
	return cmd
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	sessionID = uuid.NewString()
	if err := logging.Initialize(logging.Config{
		Level:     logLevel,
		File:      logFile,
		SessionID: sessionID,
	}); err != nil {
		logErrf("logging disabled: %v\n", err)
	}
	return nil
}

func loadAppConfig(cmd *cobra.Command, startInZen bool) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFileConfig(cmd, fileCfg)

	cfg := model.Config{
		OS:             testerOS,
		Layout:         testerLayout,
		ChatterWindow:  time.Duration(testerChatterMs) * time.Millisecond,
		HistoryLimit:   testerHistory,
		ReleaseAfter:   time.Duration(testerReleaseMs) * time.Millisecond,
		SuppressRepeat: testerSuppressRepeat,
		Corpus:         zenCorpus,
		KeepStreaks:    zenKeepStreaks,
		ResetOnExit:    zenResetOnExit,
		ErrorFlash:     time.Duration(zenErrorFlashMs) * time.Millisecond,
		Sound:          soundBackend,
		SoundPerSec:    soundPerSec,
		SessionID:      sessionID,
		StartInZen:     startInZen,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyFileConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyStringConfig(cmd, "os", &testerOS, fileCfg.Tester.OS)
	applyStringConfig(cmd, "layout", &testerLayout, fileCfg.Tester.Layout)
	applyIntConfig(cmd, "chatter-ms", &testerChatterMs, fileCfg.Tester.ChatterMs)
	applyIntConfig(cmd, "history", &testerHistory, fileCfg.Tester.History)
	applyIntConfig(cmd, "release-ms", &testerReleaseMs, fileCfg.Tester.ReleaseMs)
	applyBoolConfig(cmd, "suppress-repeat", &testerSuppressRepeat, fileCfg.Tester.SuppressRepeat)
	applyStringConfig(cmd, "corpus", &zenCorpus, fileCfg.Zen.Corpus)
	applyBoolConfig(cmd, "keep-streaks", &zenKeepStreaks, fileCfg.Zen.KeepStreaks)
	applyBoolConfig(cmd, "reset-on-exit", &zenResetOnExit, fileCfg.Zen.ResetOnExit)
	applyIntConfig(cmd, "error-flash-ms", &zenErrorFlashMs, fileCfg.Zen.ErrorFlashMs)
	applyStringConfig(cmd, "sound", &soundBackend, fileCfg.Sound.Backend)
	applyIntConfig(cmd, "sound-max-per-second", &soundPerSec, fileCfg.Sound.MaxPerSecond)
}

func runApp(cmd *cobra.Command, startInZen bool) error {
	cfg, err := loadAppConfig(cmd, startInZen)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("keyzen needs an interactive terminal")
	}
	log := logging.GetLogger().Named("cmd")

	quotes := corpus.Builtin()
	if cfg.Corpus != "" {
		quotes, err = corpus.Load(cfg.Corpus)
		if err != nil {
			return fmt.Errorf("failed to load corpus: %w", err)
		}
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	player, err := feedback.NewPlayer(cfg.Sound, os.Stderr)
	if err != nil {
		return err
	}
	sounds := feedback.NewDispatcher(player, feedback.WithMaxPerSecond(cfg.SoundPerSec))
	defer sounds.Close()

	app, err := tui.NewApp(cfg, tui.Deps{
		Picker:    corpus.NewPicker(quotes),
		Sounds:    sounds,
		History:   reports.NewHistory(st),
		Attempts:  st,
		Clipboard: reports.SystemClipboard{},
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(app, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	if cfg.Corpus != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := corpus.Watch(ctx, cfg.Corpus, func(q []corpus.Quote) {
				program.Send(tui.QuotesMsg{Quotes: q})
			})
			if err != nil {
				log.Warn("corpus watch stopped", zap.String("path", cfg.Corpus), zap.Error(err))
			}
		}()
	}

	log.Info("starting", zap.Bool("zen", startInZen), zap.String("sound", cfg.Sound))
	_, runErr := program.Run()
	cancel()
	wg.Wait()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage saved keyboard test reports",
	}
	cmd.PersistentFlags().StringVar(&reportsOS, "os", defaultOS, "key label variant (auto, mac, win)")
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		Args:  cobra.NoArgs,
		RunE:  runReportsListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportsShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportsDeleteCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a report to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportsCopyCmd,
	})
	return cmd
}

// withHistory opens the database for the duration of fn.
func withHistory(fn func(*reports.History) error) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return fn(reports.NewHistory(st))
}

func resolveReportsOS(cmd *cobra.Command) (keyboard.OS, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return keyboard.OSWin, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "os", &reportsOS, fileCfg.Tester.OS)
	return keyboard.ParseOS(reportsOS)
}

func runReportsListCmd(cmd *cobra.Command, _ []string) error {
	return withHistory(func(h *reports.History) error {
		list, err := h.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			_, err := fmt.Fprintln(out, "No reports saved.")
			return err
		}
		for _, r := range list {
			if _, err := fmt.Fprintf(out, "%-26s  %s  %7s  %3d%%\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Score(), r.Percentage); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	})
}

func findReport(ctx context.Context, h *reports.History, id string) (model.ReportSnapshot, error) {
	snap, ok, err := h.Get(ctx, id)
	if err != nil {
		return model.ReportSnapshot{}, err
	}
	if !ok {
		return model.ReportSnapshot{}, fmt.Errorf("report %q not found", id)
	}
	return snap, nil
}

func runReportsShowCmd(cmd *cobra.Command, args []string) error {
	osLabels, err := resolveReportsOS(cmd)
	if err != nil {
		return err
	}
	return withHistory(func(h *reports.History) error {
		snap, err := findReport(cmd.Context(), h, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), reports.FormatText(snap, osLabels))
		return err
	})
}

func runReportsDeleteCmd(cmd *cobra.Command, args []string) error {
	return withHistory(func(h *reports.History) error {
		removed, err := h.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("report %q not found", args[0])
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return err
	})
}

func runReportsCopyCmd(cmd *cobra.Command, args []string) error {
	osLabels, err := resolveReportsOS(cmd)
	if err != nil {
		return err
	}
	return withHistory(func(h *reports.History) error {
		snap, err := findReport(cmd.Context(), h, args[0])
		if err != nil {
			return err
		}
		if err := reports.Copy(snap, osLabels, nil); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard.")
		return err
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show typing practice stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "number of most missed characters")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := statsFilter(statsSince, statsLast)
	if err != nil {
		return err
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if statsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, filter, statsTop)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), statsWindow, terminalWidth())
}

func statsFilter(since string, last int) (model.AttemptFilter, error) {
	if last < 0 {
		return model.AttemptFilter{}, fmt.Errorf("--last must be >= 0")
	}
	filter := model.AttemptFilter{Last: last}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.AttemptFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	return filter, nil
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keyzen configuration
# Uncomment a value to enable it. CLI flags override config values.

[tester]
# os = %q               # Key labels: auto, mac or win
# layout = %q           # full or compact (no numpad)
# chatter-ms = %d         # Repeat presses closer than this are flagged
# history = %d            # Recent presses shown
# release-ms = %d        # Hold time before a key counts as released
# suppress-repeat = false # Ignore auto-repeat of held keys

[zen]
# corpus = "~/quotes.yaml" # YAML list of {text, author}
# keep-streaks = true     # Keep best combo across quotes
# reset-on-exit = false   # Fresh quote when leaving zen mode
# error-flash-ms = %d    # Mistype highlight duration

[sound]
# backend = %q          # bell or off
# max-per-second = %d     # Click rate cap (0 for no limit)

[log]
# level = %q            # debug, info, warn or error
# file = ""               # Log file (empty disables logging)
`,
		defaultOS,
		defaultLayout,
		defaultChatterMs,
		defaultHistory,
		defaultReleaseMs,
		defaultErrorFlashMs,
		defaultSound,
		defaultSoundPerSec,
		defaultLogLevel,
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := keyboard.ParseOS(cfg.OS); err != nil {
		return fmt.Errorf("--os: %w", err)
	}
	if _, err := keyboard.ParseLayout(cfg.Layout); err != nil {
		return fmt.Errorf("--layout: %w", err)
	}
	if cfg.ChatterWindow <= 0 {
		return fmt.Errorf("--chatter-ms must be > 0")
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("--history must be > 0")
	}
	if cfg.ReleaseAfter <= 0 {
		return fmt.Errorf("--release-ms must be > 0")
	}
	if cfg.ErrorFlash <= 0 {
		return fmt.Errorf("--error-flash-ms must be > 0")
	}
	if cfg.SoundPerSec < 0 {
		return fmt.Errorf("--sound-max-per-second must be >= 0")
	}
	if _, err := feedback.NewPlayer(cfg.Sound, nil); err != nil {
		return fmt.Errorf("--sound: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
