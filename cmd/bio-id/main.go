package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/bio-id/internal/config"
	"github.com/ensigniasec/bio-id/internal/headless"
	"github.com/ensigniasec/bio-id/internal/i18n"
	"github.com/ensigniasec/bio-id/internal/scanner"
	"github.com/ensigniasec/bio-id/internal/schedule"
	"github.com/ensigniasec/bio-id/internal/tui"
	"github.com/ensigniasec/bio-id/internal/validate"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile   = config.DefaultPath
	verbose      bool
	locale       string
	headlessMode bool
	secret       bool
	releaseAt    float64
	simulate     bool
	jsonOutput   bool
	seed         uint64
	logFile      string

	rootCmd = &cobra.Command{
		Use:   "bio-id",
		Short: "A terminal biometric identity scanner.",
		Long:  `Press and hold the scanner pad to read your biometrics. After analysis the scanner displays its verdict on your identity.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.DefaultPath, "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "Override the display locale (e.g. en-US, es-ES)")

	scanCmd.Flags().BoolVar(&headlessMode, "headless", false, "Run one scan without the interactive terminal UI")
	scanCmd.Flags().BoolVar(&secret, "secret", false, "Headless: arm the hidden trigger before pressing")
	scanCmd.Flags().Float64Var(&releaseAt, "release-at", 0, "Headless: release the press once progress reaches this percentage (0-100, 0 holds)")
	scanCmd.Flags().BoolVar(&simulate, "simulate", false, "Headless: run on a simulated clock and finish instantly")
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "Headless: output the report in JSON format instead of text")
	scanCmd.Flags().Uint64Var(&seed, "seed", 0, "Fix the progress jitter sequence for reproducible runs")
	scanCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the terminal UI is running")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig resolves the effective config. An explicit --config must exist.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return config.Config{}, err
	}
	if locale != "" {
		cfg.UI.Locale = locale
	}
	if cmd.Flags().Changed("seed") {
		cfg.Scanner.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Start the scanner. [Defaults to the interactive terminal UI]",
	Long:  "Start the biometric scanner. Hold the pad with the mouse (or toggle with space) until the scan completes. Use --headless to run a single scan without a terminal UI.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !headlessMode && (secret || simulate || jsonOutput || cmd.Flags().Changed("release-at")) {
			logrus.Fatal("--secret, --release-at, --simulate and --json require --headless")
		}
		if err := validate.Var(releaseAt, "gte=0,lte=100"); err != nil {
			logrus.Fatalf("--release-at must be between 0 and 100: %s", validate.Describe(err))
		}

		// Set log level based on flags
		if !verbose {
			logrus.SetLevel(logrus.WarnLevel)
		} else {
			logrus.SetLevel(logrus.DebugLevel)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatal(err)
		}
		cat, err := i18n.LoadEmbedded()
		if err != nil {
			logrus.Fatal(err)
		}
		printer := cat.Printer(cfg.UI.Locale)

		var sched schedule.Scheduler = schedule.Real{}
		if simulate {
			sched = schedule.NewManual(time.Unix(0, 0))
		}
		ctrl := newController(cfg, sched, !headlessMode)
		defer ctrl.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if headlessMode {
			report, err := headless.Run(ctx, ctrl, sched, headless.Options{Secret: secret, ReleaseAt: releaseAt})
			if err != nil {
				logrus.Fatal(err)
			}
			if err := headless.Print(os.Stdout, report, jsonOutput, printer); err != nil {
				logrus.Fatal(err)
			}
			return
		}

		logOut, closeLog := openLogFile(logFile)
		defer closeLog()
		if err := tui.Run(ctx, ctrl, tui.Options{
			Printer:    printer,
			SecretZone: tui.Zone{Width: cfg.UI.SecretZoneWidth, Height: cfg.UI.SecretZoneHeight},
			AltScreen:  cfg.UI.AltScreen,
			LogOutput:  logOut,
		}); err != nil {
			logrus.Fatalf("TUI mode failed: %v", err)
		}
	},
}

// newController wires the configured options, jitter source and feedback.
func newController(cfg config.Config, sched schedule.Scheduler, interactive bool) *scanner.Controller {
	opts := []scanner.ControllerOption{scanner.WithScheduler(sched)}
	if cfg.Scanner.Seed != 0 {
		opts = append(opts, scanner.WithSteps(scanner.NewUniformSteps(cfg.Scanner.MinStep, cfg.Scanner.MaxStep, cfg.Scanner.Seed)))
	}

	fb := scanner.MultiFeedback{scanner.LogFeedback{Log: logrus.NewEntry(logrus.StandardLogger())}}
	if interactive && cfg.UI.Haptics {
		fb = append(fb, scanner.BellFeedback{W: os.Stderr})
	}
	opts = append(opts, scanner.WithFeedback(fb))

	return scanner.New(cfg.ScannerOptions(), opts...)
}

// openLogFile returns the writer logs go to while the TUI owns the terminal.
func openLogFile(path string) (io.Writer, func()) {
	if path == "" {
		return nil, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logrus.Fatalf("Unable to open log file: %v", err)
	}
	return f, func() { _ = f.Close() }
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect scanner configuration",
	Long:  "Inspect the effective scanner configuration: built-in defaults, the optional YAML file, then BIOID_* environment overrides.",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			logrus.Fatal(err)
		}
		out, err := cfg.Marshal()
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprint(os.Stdout, string(out))
	},
}

func main() {
	Execute()
}
