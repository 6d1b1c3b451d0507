// Package rename performs idempotent, conflict-aware renames of episode
// files and show/season folders. All mutation goes through an injected
// filesystem so a simulated run is provably inert.
package rename

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	oplog "github.com/showtidy/showtidy/internal/log"
)

// Outcome classifies one rename attempt.
type Outcome int

const (
	// Performed means the filesystem was actually mutated.
	Performed Outcome = iota
	// AlreadyCorrect means source and destination were identical; a no-op
	// reported as success so repeated runs behave like a single run.
	AlreadyCorrect
	// SkippedDryRun means simulate mode suppressed the mutation; still a
	// success for batch counting.
	SkippedDryRun
	// SkippedConflict means the destination existed and the policy left the
	// source in place (or reused the existing directory).
	SkippedConflict
	// Failed means an I/O error occurred; processing of siblings continues.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Performed:
		return "performed"
	case AlreadyCorrect:
		return "already_correct"
	case SkippedDryRun:
		return "skipped_dry_run"
	case SkippedConflict:
		return "skipped_conflict"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports what one rename attempt did.
type Result struct {
	Outcome Outcome
	// Path is the resulting path: the destination on success or
	// merge-by-reuse, the original on dry-run or failure.
	Path string
	Err  error
}

// Renamed reports whether the attempt counts as a successful rename for the
// end-of-batch summary.
func (r Result) Renamed() bool {
	return r.Outcome == Performed || r.Outcome == AlreadyCorrect || r.Outcome == SkippedDryRun
}

// Engine executes renames against an injected filesystem, honoring the
// simulate and force flags it was constructed with. The flags are immutable
// for the duration of one run.
type Engine struct {
	fs      afero.Fs
	dryRun  bool
	force   bool
	session *oplog.Session
	log     zerolog.Logger
}

// NewEngine creates an Engine. session may be nil.
func NewEngine(fs afero.Fs, dryRun, force bool, session *oplog.Session, log zerolog.Logger) *Engine {
	return &Engine{fs: fs, dryRun: dryRun, force: force, session: session, log: log}
}

// RenameFolder renames the directory at original to newName within its
// parent and returns the path the caller should continue traversing.
// When the destination already exists as a directory it is reused as-is
// (merge-by-reuse). Errors are absorbed into the Result, never returned up.
func (e *Engine) RenameFolder(original, newName string) (string, Result) {
	newPath := filepath.Join(filepath.Dir(original), newName)

	if newPath == original {
		return newPath, Result{Outcome: AlreadyCorrect, Path: newPath}
	}

	if e.dryRun {
		e.log.Info().Str("from", original).Str("to", newPath).Msg("dry run: would rename folder")
		e.session.Record(oplog.OpRename, original, newPath, true, true, nil)
		return original, Result{Outcome: SkippedDryRun, Path: original}
	}

	if info, err := e.fs.Stat(newPath); err == nil {
		if info.IsDir() {
			// Destination folder already organized; continue inside it.
			e.log.Info().Str("path", newPath).Msg("destination folder exists, reusing")
			return newPath, Result{Outcome: SkippedConflict, Path: newPath}
		}
		err := fmt.Errorf("destination %s exists and is not a directory", newPath)
		e.session.Record(oplog.OpRename, original, newPath, false, false, err)
		return original, Result{Outcome: Failed, Path: original, Err: err}
	}

	if err := e.fs.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		e.session.Record(oplog.OpRename, original, newPath, false, false, err)
		return original, Result{Outcome: Failed, Path: original, Err: err}
	}
	if err := e.fs.Rename(original, newPath); err != nil {
		e.log.Error().Str("from", original).Str("to", newPath).Err(err).Msg("folder rename failed")
		e.session.Record(oplog.OpRename, original, newPath, false, false, err)
		return original, Result{Outcome: Failed, Path: original, Err: err}
	}

	e.session.Record(oplog.OpRename, original, newPath, true, false, nil)
	return newPath, Result{Outcome: Performed, Path: newPath}
}

// RenameFile moves the file at original to newPath. With force set an
// existing destination is deleted first; without it the source is left in
// place (do not clobber). Repeating a call with identical arguments leaves
// the destination intact. Reports whether the file ended up renamed.
func (e *Engine) RenameFile(original, newPath string) (bool, Result) {
	if newPath == original {
		return true, Result{Outcome: AlreadyCorrect, Path: newPath}
	}

	if e.dryRun {
		e.log.Info().Str("from", original).Str("to", newPath).Msg("dry run: would rename file")
		e.session.Record(oplog.OpRename, original, newPath, true, true, nil)
		return true, Result{Outcome: SkippedDryRun, Path: original}
	}

	if _, err := e.fs.Stat(newPath); err == nil {
		if _, err := e.fs.Stat(original); err != nil {
			// Source gone, destination present: the move already happened on
			// an earlier run. The destination must never be deleted here,
			// force or not.
			return true, Result{Outcome: AlreadyCorrect, Path: newPath}
		}
		if !e.force {
			e.log.Warn().Str("path", newPath).Msg("destination exists, skipping (use force to overwrite)")
			e.session.Record(oplog.OpRename, original, newPath, false, false, nil)
			return false, Result{Outcome: SkippedConflict, Path: newPath}
		}
		if err := e.fs.Remove(newPath); err != nil {
			e.session.Record(oplog.OpRename, original, newPath, false, false, err)
			return false, Result{Outcome: Failed, Path: original, Err: err}
		}
	}

	if err := e.fs.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
		e.session.Record(oplog.OpRename, original, newPath, false, false, err)
		return false, Result{Outcome: Failed, Path: original, Err: err}
	}
	if err := e.fs.Rename(original, newPath); err != nil {
		e.log.Error().Str("from", original).Str("to", newPath).Err(err).Msg("file rename failed")
		e.session.Record(oplog.OpRename, original, newPath, false, false, err)
		return false, Result{Outcome: Failed, Path: original, Err: err}
	}

	e.session.Record(oplog.OpRename, original, newPath, true, false, nil)
	return true, Result{Outcome: Performed, Path: newPath}
}
