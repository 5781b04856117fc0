package main

import (
	"log/slog"
	"os"
	"runtime/pprof"
)

// profiler writes the CPU profile of the whole run and an allocations
// profile at its end, each only if a path was given.
type profiler struct {
	cpuFile   *os.File
	allocPath string
}

func startProfiler(cpuPath string, allocPath string) *profiler {
	p := &profiler{allocPath: allocPath}

	if cpuPath == "" {
		return p
	}

	f, err := os.Create(cpuPath)
	if err != nil {
		slog.Error("Could not create cpu profile.", "err", err)

		return p
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		slog.Error("Could not start cpu profile.", "err", err)
		_ = f.Close()

		return p
	}
	p.cpuFile = f

	return p
}

// Stop finishes the profiles. It is safe to call on a nil profiler.
func (p *profiler) Stop() {
	if p == nil {
		return
	}

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = p.cpuFile.Close()
		p.cpuFile = nil
	}

	if p.allocPath == "" {
		return
	}

	f, err := os.Create(p.allocPath)
	if err != nil {
		slog.Error("Could not create allocs profile.", "err", err)

		return
	}
	defer f.Close()

	if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
		slog.Error("Could not write allocs profile.", "err", err)
	}
	p.allocPath = ""
}
