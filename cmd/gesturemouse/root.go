package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/gesturemouse/internal/config"
	"github.com/ayusman/gesturemouse/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg      *config.Config
	logLevel string
	logDev   bool
)

// rootCmd represents the base command. Without a subcommand it runs the
// gesture controller.
var rootCmd = &cobra.Command{
	Use:   "gesturemouse",
	Short: "Control the mouse with hand gestures",
	Long: `gesturemouse watches your hand through the webcam and turns gestures into
pointer actions:

  index finger            move the cursor
  index + middle close    left click
  index + thumb pinch     hold to drag
  three fingers           scroll
  four fingers            switch windows

Press Esc in the preview window to exit.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runController,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logDev, "dev", false, "human-readable development logging")
	rootCmd.PersistentFlags().String("journal", "", "SQLite action journal path (empty disables)")

	addRunFlags(rootCmd)
	rootCmd.AddCommand(runCmd, journalCmd, versionCmd)
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// loadConfig reads the environment, then applies any flags the user set.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("dev") {
		c.LogDev = logDev
	}
	if flags.Changed("journal") {
		c.Journal, _ = flags.GetString("journal")
	}
	applyRunFlags(cmd, c)

	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDev,
	})
}

// defaultJournalPath is used by the journal commands when no path is configured.
func defaultJournalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gesturemouse", "journal.db"), nil
}

// printJSON prints data as indented JSON.
func printJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gesturemouse", version)
	},
}
