package lesson

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tutorchat/internal/logger"
	"tutorchat/internal/util"
)

// SourceStore returns the stored PDF path for a lesson, or "" when none is recorded.
type SourceStore interface {
	GetStoredPath(ctx context.Context, lessonID string) (string, error)
}

type Outcome int

const (
	NotFound Outcome = iota
	Found
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "not_found"
	}
}

// Resolution is the result of one strategy or of a whole Resolve call.
type Resolution struct {
	Path     string
	Strategy string
	Outcome  Outcome
	Err      error
	Attempts []Attempt
}

type Attempt struct {
	Strategy string
	Outcome  Outcome
	Err      error
}

type strategy struct {
	name string
	run  func(ctx context.Context, lessonID string) Resolution
}

// Resolver maps a lesson id to a PDF under the downloads root. Strategies run
// in order (stored_path, filename_pattern, most_recent); the first hit wins.
type Resolver struct {
	root       string
	store      SourceStore
	log        *logger.Logger
	strategies []strategy
}

func NewResolver(root string, store SourceStore, log *logger.Logger) *Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Resolver{root: root, store: store, log: log}
	r.strategies = []strategy{
		{name: "stored_path", run: r.storedPath},
		{name: "filename_pattern", run: r.filenamePattern},
		{name: "most_recent", run: r.mostRecent},
	}
	return r
}

func (r *Resolver) Root() string { return r.root }

func (r *Resolver) Resolve(ctx context.Context, lessonID string) Resolution {
	var (
		attempts []Attempt
		firstErr error
	)
	for _, st := range r.strategies {
		res := st.run(ctx, lessonID)
		attempts = append(attempts, Attempt{Strategy: st.name, Outcome: res.Outcome, Err: res.Err})
		switch res.Outcome {
		case Found:
			res.Strategy = st.name
			res.Attempts = attempts
			r.log.Debug("lesson source resolved", "lesson_id", lessonID, "strategy", st.name, "path", res.Path)
			return res
		case Failed:
			if firstErr == nil {
				firstErr = res.Err
			}
			r.log.Warn("lesson source strategy failed", "lesson_id", lessonID, "strategy", st.name, "error", res.Err)
		}
	}
	return Resolution{Outcome: NotFound, Err: firstErr, Attempts: attempts}
}

func (r *Resolver) storedPath(ctx context.Context, lessonID string) Resolution {
	if r.store == nil {
		return Resolution{Outcome: NotFound}
	}
	stored, err := r.store.GetStoredPath(ctx, lessonID)
	if err != nil {
		return Resolution{Outcome: Failed, Err: fmt.Errorf("get stored path: %w", err)}
	}
	if strings.TrimSpace(stored) == "" {
		return Resolution{Outcome: NotFound}
	}
	p := r.rootStoredPath(stored)
	if !util.IsRegularFile(p) {
		return Resolution{Outcome: NotFound}
	}
	return Resolution{Outcome: Found, Path: p}
}

// rootStoredPath anchors a relative stored value at the downloads root. A value
// that already starts with the root's own directory name is not prefixed twice.
func (r *Resolver) rootStoredPath(stored string) string {
	p := filepath.Clean(filepath.FromSlash(strings.TrimSpace(stored)))
	if filepath.IsAbs(p) {
		return p
	}
	parts := strings.SplitN(p, string(filepath.Separator), 2)
	if len(parts) == 2 && parts[0] == filepath.Base(r.root) {
		return filepath.Join(filepath.Dir(r.root), p)
	}
	return filepath.Join(r.root, p)
}

func (r *Resolver) filenamePattern(_ context.Context, lessonID string) Resolution {
	for _, pattern := range FilenamePatterns(lessonID) {
		matches, err := filepath.Glob(filepath.Join(r.root, pattern))
		if err != nil {
			return Resolution{Outcome: Failed, Err: fmt.Errorf("glob %s: %w", pattern, err)}
		}
		for _, m := range matches {
			if util.IsRegularFile(m) {
				return Resolution{Outcome: Found, Path: m}
			}
		}
	}
	return Resolution{Outcome: NotFound}
}

// FilenamePatterns lists the glob patterns tried for lessonID, most specific first.
func FilenamePatterns(lessonID string) []string {
	out := make([]string, 0, 3)
	if lessonID != "" && !strings.ContainsAny(lessonID, `*?[]\/`) {
		out = append(out, "*"+lessonID+"*.pdf")
		if n, err := strconv.Atoi(lessonID); err == nil && n-10 > 0 {
			out = append(out, "*"+strconv.Itoa(n-10)+"*.pdf")
		}
	}
	return append(out, "*.pdf")
}

func (r *Resolver) mostRecent(_ context.Context, _ string) Resolution {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Resolution{Outcome: NotFound}
		}
		return Resolution{Outcome: Failed, Err: fmt.Errorf("read downloads root: %w", err)}
	}
	var (
		best     string
		bestTime int64
	)
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if ts := info.ModTime().UnixNano(); best == "" || ts > bestTime {
			best, bestTime = e.Name(), ts
		}
	}
	if best == "" {
		return Resolution{Outcome: NotFound}
	}
	return Resolution{Outcome: Found, Path: filepath.Join(r.root, best)}
}
