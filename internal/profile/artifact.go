package profile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	artifactPrefix = "mprofile_"
	artifactExt    = ".dat"
	mib            = 1 << 20
)

// ErrNoArtifact is returned when a directory holds no profile artifacts.
var ErrNoArtifact = errors.New("no profile artifact")

// Sample is one memory measurement.
type Sample struct {
	At  time.Time
	RSS uint64
}

// Profile is a recorded run.
type Profile struct {
	Command string
	Samples []Sample
}

// Peak returns the largest sample. ok is false for an empty profile.
func (p *Profile) Peak() (s Sample, ok bool) {
	for i, x := range p.Samples {
		if i == 0 || x.RSS > s.RSS {
			s = x
		}
	}
	return s, len(p.Samples) > 0
}

// Duration is the time between the first and last sample.
func (p *Profile) Duration() time.Duration {
	if len(p.Samples) < 2 {
		return 0
	}
	return p.Samples[len(p.Samples)-1].At.Sub(p.Samples[0].At)
}

// artifactPattern is the os.CreateTemp pattern for a run started at t. The
// timestamp keeps names in start order; the random part keeps runs started
// in the same second apart.
func artifactPattern(t time.Time) string {
	return artifactPrefix + t.Format("20060102150405") + "_*" + artifactExt
}

// recorder appends samples to an artifact file and keeps them in memory.
type recorder struct {
	w       *bufio.Writer
	profile *Profile
}

func newRecorder(w io.Writer, command string) (*recorder, error) {
	r := &recorder{w: bufio.NewWriter(w), profile: &Profile{Command: command}}
	if _, err := fmt.Fprintf(r.w, "CMDLINE %s\n", command); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *recorder) add(s Sample) error {
	r.profile.Samples = append(r.profile.Samples, s)
	secs := float64(s.At.UnixNano()) / float64(time.Second)
	_, err := fmt.Fprintf(r.w, "MEM %.6f %.4f\n", float64(s.RSS)/mib, secs)
	return err
}

func (r *recorder) flush() error {
	return r.w.Flush()
}

// ReadArtifact parses an artifact written by Run.
func ReadArtifact(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	p := &Profile{}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		kind, rest, _ := strings.Cut(text, " ")
		switch kind {
		case "CMDLINE":
			p.Command = rest
		case "MEM":
			fields := strings.Fields(rest)
			if len(fields) != 2 {
				return nil, fmt.Errorf("%s:%d: malformed sample %q", path, line, text)
			}
			mem, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			ts, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			sec, frac := math.Modf(ts)
			p.Samples = append(p.Samples, Sample{
				At:  time.Unix(int64(sec), int64(math.Round(frac*1e4))*1e5),
				RSS: uint64(math.Round(mem * mib)),
			})
		default:
			return nil, fmt.Errorf("%s:%d: unknown record %q", path, line, kind)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return p, nil
}

// Artifacts lists the artifacts in dir, oldest first.
func Artifacts(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, artifactPrefix+"*"+artifactExt))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

// LatestArtifact returns the newest artifact in dir.
func LatestArtifact(dir string) (string, error) {
	paths, err := Artifacts(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoArtifact, dir)
	}
	return paths[len(paths)-1], nil
}

// Clean removes every artifact in dir and returns how many were removed.
func Clean(dir string) (int, error) {
	paths, err := Artifacts(dir)
	if err != nil {
		return 0, err
	}
	for i, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return i, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return len(paths), nil
}
