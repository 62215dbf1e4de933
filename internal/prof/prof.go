// Package prof wraps runtime/pprof and runtime/trace for the CLI's
// --cpu-profile, --mem-profile and --runtime-trace flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Paths names the output files; empty fields are disabled.
type Paths struct {
	CPU   string
	Mem   string
	Trace string
}

// Enabled reports whether any profiler was requested.
func (p Paths) Enabled() bool {
	return p.CPU != "" || p.Mem != "" || p.Trace != ""
}

// Session is a set of running profilers. Stop is safe to call more than once.
type Session struct {
	paths     Paths
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the profilers requested in paths. On error everything that
// was already started is stopped.
func Start(paths Paths) (*Session, error) {
	s := &Session{paths: paths}
	if paths.CPU != "" {
		f, err := os.Create(paths.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if paths.Trace != "" {
		f, err := os.Create(paths.Trace)
		if err != nil {
			_ = s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			_ = s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends the trace and the CPU profile, then writes the heap profile.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
		s.traceFile = nil
	}
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
		s.cpuFile = nil
	}
	if s.paths.Mem != "" {
		errs = append(errs, writeMem(s.paths.Mem))
	}
	return errors.Join(errs...)
}

func writeMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
