package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  = "dev"

	logLevel = new(slog.LevelVar)
	logs     = NewSlogManager()
)

func newLogHandler(w io.Writer, noColor bool) slog.Handler { //nolint:ireturn
	return tint.NewHandler(w, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}

func setupLogging() {
	logs.AddHandler(handlerTerminal, newLogHandler(os.Stderr, false))
	slog.SetDefault(slog.New(logs))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			_, _ = os.Stderr.Write(buf[:stacklen])
		}
	}()
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupLogging()
	setupSignalHandlers(cancel)

	defer func() {
		memObs.Stop()
		prof.Stop()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Command failed.", "err", err)
		ExitCode = 1
	}
}
