package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/desertwitch/diskman/internal/configuration"
	"github.com/desertwitch/diskman/internal/gate"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var (
	cfgFiles   []string
	assumeYes  bool
	saveMode   string
	cpuprofile string
	memprofile string

	settings *configuration.Settings
	prof     *profiler
	memObs   *memoryObserver
)

//nolint:gochecknoglobals
var rootCmd = &cobra.Command{
	Use:   "diskman",
	Short: "Manage drives, partitions and RAID arrays",
	Long: `diskman manages drives, partitions and Linux MD RAID arrays through the
disk-management daemon.

Run "diskman tui" for the interactive terminal interface, or use one of the
commands below for single operations. Destructive operations ask for
confirmation unless --yes is given.`,
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringSliceVar(&cfgFiles, "config", defaultConfigFiles(), "environment files to read settings from")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "confirm all operations without asking")
	rootCmd.PersistentFlags().StringVar(&saveMode, "save-passphrase", gate.SaveNever.String(), "remember new passphrases when confirming automatically (never, session, forever)")
	rootCmd.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "write cpu profile to file")
	rootCmd.PersistentFlags().StringVar(&memprofile, "memprofile", "", "write memory profile to file")

	rootCmd.SetVersionTemplate("diskman {{.Version}}\n")
}

func defaultConfigFiles() []string {
	files := []string{"/etc/diskman/diskman.env"}

	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "diskman", "diskman.env"))
	}

	return files
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	s, err := configuration.NewHandler().Load(cfgFiles...)
	if err != nil {
		return fmt.Errorf("(main) failed to load settings: %w", err)
	}

	settings = s
	logLevel.Set(s.LogLevel)
	prof = startProfiler(cpuprofile, memprofile)

	if s.LogLevel <= slog.LevelDebug {
		memObs = newMemoryObserver(cmd.Context())
	}

	return nil
}

// terminalModals returns the modals of the command-line interface.
func terminalModals(pump gate.Pump) (*countingModals, error) {
	mode, err := gate.ParseSaveMode(saveMode)
	if err != nil {
		return nil, fmt.Errorf("(main) %w", err)
	}

	return &countingModals{
		Modals: gate.NewTerminal(os.Stdin, os.Stdout, pump, gate.WithAssumeYes(assumeYes), gate.WithSaveMode(mode)),
	}, nil
}
