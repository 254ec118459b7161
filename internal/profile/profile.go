// Package profile records the resident memory of a run, plots it and
// cleans up the recorded artifacts.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/process"
)

// Profiler samples memory at a fixed interval and writes artifacts to Dir.
type Profiler struct {
	Dir      string
	Interval time.Duration
	// Stdout and Stderr receive the output of a profiled command.
	Stdout io.Writer
	Stderr io.Writer

	log *slog.Logger
	now func() time.Time
}

// New creates a Profiler writing artifacts to dir.
func New(dir string, interval time.Duration, log *slog.Logger) *Profiler {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Profiler{
		Dir:      dir,
		Interval: interval,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		log:      log,
		now:      time.Now,
	}
}

// Result describes a finished run.
type Result struct {
	Artifact string
	Profile  *Profile
}

// RunCommand starts name with args and samples it until it exits. A failing
// command still yields its artifact together with the error.
func (p *Profiler) RunCommand(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	done := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(done)
	}()

	label := strings.Join(append([]string{name}, args...), " ")
	res, err := p.record(ctx, int32(cmd.Process.Pid), label, done)
	<-done
	if err != nil {
		return res, err
	}
	if waitErr != nil {
		return res, fmt.Errorf("run %s: %w", name, waitErr)
	}
	return res, nil
}

// RunFunc samples the current process while fn runs.
func (p *Profiler) RunFunc(ctx context.Context, label string, fn func(ctx context.Context) error) (*Result, error) {
	done := make(chan struct{})
	var fnErr error
	go func() {
		defer close(done)
		fnErr = fn(ctx)
	}()

	res, err := p.record(ctx, int32(os.Getpid()), label, done)
	<-done
	if err != nil {
		return res, err
	}
	if fnErr != nil {
		return res, fmt.Errorf("run %s: %w", label, fnErr)
	}
	return res, nil
}

// record samples pid into a new artifact until done is closed.
func (p *Profiler) record(ctx context.Context, pid int32, label string, done <-chan struct{}) (*Result, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", p.Dir, err)
	}
	f, err := os.CreateTemp(p.Dir, artifactPattern(p.now()))
	if err != nil {
		return nil, fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()
	path := f.Name()

	rec, err := newRecorder(f, label)
	if err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	p.log.Info("profiling", "pid", pid, "command", label, "artifact", path)

	// A short-lived process may be gone before the first sample.
	if proc, perr := process.NewProcessWithContext(ctx, pid); perr != nil {
		p.log.Debug("process not running", "pid", pid, "error", perr)
	} else {
		err = p.watch(ctx, proc, done, rec)
	}
	if ferr := rec.flush(); err == nil {
		err = ferr
	}
	res := &Result{Artifact: path, Profile: rec.profile}
	if err != nil {
		return res, err
	}
	if peak, ok := rec.profile.Peak(); ok {
		p.log.Info("profiling done",
			"samples", len(rec.profile.Samples),
			"peak", humanize.IBytes(peak.RSS),
			"duration", rec.profile.Duration(),
		)
	}
	return res, nil
}

func (p *Profiler) watch(ctx context.Context, proc *process.Process, done <-chan struct{}, rec *recorder) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	if err := p.sample(ctx, proc, rec); err != nil {
		return err
	}
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.sample(ctx, proc, rec); err != nil {
				return err
			}
		}
	}
}

// sample records one measurement. A process that has gone away is not an
// error; the run is about to finish.
func (p *Profiler) sample(ctx context.Context, proc *process.Process, rec *recorder) error {
	mi, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		p.log.Debug("memory sample failed", "pid", proc.Pid, "error", err)
		return nil
	}
	if err := rec.add(Sample{At: p.now(), RSS: mi.RSS}); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
