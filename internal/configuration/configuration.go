// Package configuration reads the settings of the disk utility from
// environment files and the process environment.
package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

// Keys of the recognized settings.
const (
	KeyBus              = "DISKMAN_BUS"
	KeyJournal          = "DISKMAN_JOURNAL"
	KeyCheckSchedule    = "DISKMAN_CHECK_SCHEDULE"
	KeyCheckOptions     = "DISKMAN_CHECK_OPTIONS"
	KeyCheckArrays      = "DISKMAN_CHECK_ARRAYS"
	KeyLogLevel         = "DISKMAN_LOG_LEVEL"
	KeySecretCollection = "DISKMAN_SECRET_COLLECTION"
)

const (
	// BusSystem connects to the disk-management daemon on the system bus.
	BusSystem = "system"

	// BusSession connects to the disk-management daemon on the session bus,
	// which is mostly useful for testing against a private daemon.
	BusSession = "session"

	// journalOff disables the operation journal.
	journalOff = "off"
)

// Settings are the effective settings of the disk utility.
type Settings struct {
	Bus string

	// JournalPath is the database of the operation journal, empty if the
	// journal is disabled.
	JournalPath string

	// CheckSchedule is the cron expression of the periodic RAID checks,
	// empty if there are none.
	CheckSchedule string
	CheckOptions  []string
	CheckArrays   []string

	LogLevel slog.Level

	// SecretCollection is the Secret Service collection new passphrases are
	// saved to, empty for the default collection.
	SecretCollection string
}

type envFileProvider interface {
	Read(filename string) (envMap map[string]string, err error)
}

// Handler is the principal implementation of the configuration handler.
type Handler struct {
	reader    envFileProvider
	lookupEnv func(key string) (string, bool)
	stateDir  func() (string, error)
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler() *Handler {
	return &Handler{
		reader:    &GodotenvProvider{},
		lookupEnv: os.LookupEnv,
		stateDir:  stateDir,
	}
}

// Load reads the given environment files, in order, and then the process
// environment. Later values override earlier ones. Files that do not exist
// are skipped.
func (h *Handler) Load(filenames ...string) (*Settings, error) {
	envMap := make(map[string]string)

	for _, filename := range filenames {
		data, err := h.reader.Read(filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("Configuration file does not exist, skipping.", "file", filename)

				continue
			}

			return nil, fmt.Errorf("(config) %w", err)
		}

		maps.Copy(envMap, data)
	}

	for _, key := range []string{KeyBus, KeyJournal, KeyCheckSchedule, KeyCheckOptions, KeyCheckArrays, KeyLogLevel, KeySecretCollection} {
		if v, ok := h.lookupEnv(key); ok {
			envMap[key] = v
		}
	}

	return h.settings(envMap)
}

func (h *Handler) settings(envMap map[string]string) (*Settings, error) {
	settings := &Settings{
		Bus:              BusSystem,
		CheckSchedule:    mapKeyToString(envMap, KeyCheckSchedule),
		CheckOptions:     mapKeyToList(envMap, KeyCheckOptions),
		CheckArrays:      mapKeyToList(envMap, KeyCheckArrays),
		SecretCollection: mapKeyToString(envMap, KeySecretCollection),
	}

	switch bus := strings.ToLower(mapKeyToString(envMap, KeyBus)); bus {
	case "", BusSystem:
	case BusSession:
		settings.Bus = BusSession
	default:
		return nil, fmt.Errorf("(config) %w: %s=%q", ErrInvalidValue, KeyBus, bus)
	}

	if level := mapKeyToString(envMap, KeyLogLevel); level != "" {
		if err := settings.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("(config) %w: %s=%q", ErrInvalidValue, KeyLogLevel, level)
		}
	}

	switch journal := mapKeyToString(envMap, KeyJournal); journal {
	case journalOff:
	case "":
		dir, err := h.stateDir()
		if err != nil {
			return nil, fmt.Errorf("(config) %w: %w", ErrNoStateDir, err)
		}
		settings.JournalPath = filepath.Join(dir, "diskman", "journal.db")
	default:
		settings.JournalPath = journal
	}

	return settings, nil
}

// stateDir returns the base directory for state files as per the XDG base
// directory specification.
func stateDir() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); filepath.IsAbs(dir) {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return filepath.Join(home, ".local", "state"), nil
}

func mapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return strings.TrimSpace(value)
	}

	return ""
}

func mapKeyToList(envMap map[string]string, key string) []string {
	var list []string

	for _, v := range strings.Split(mapKeyToString(envMap, key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}

	return list
}
