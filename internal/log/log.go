// Package log records every filesystem-affecting operation of one run as a
// JSON session file, so past runs can be inspected with the history command.
package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type OperationType string

const (
	OpRename    OperationType = "rename"
	OpCreateDir OperationType = "create_dir"
	OpDownload  OperationType = "download"
	OpWriteNFO  OperationType = "write_nfo"
)

// Operation is one recorded filesystem-affecting action.
type Operation struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Type       OperationType `json:"type"`
	SourcePath string        `json:"source_path,omitempty"`
	DestPath   string        `json:"dest_path,omitempty"`
	Success    bool          `json:"success"`
	DryRun     bool          `json:"dry_run,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// SessionMetadata summarizes one run.
type SessionMetadata struct {
	CommandArgs   []string  `json:"command_args"`
	WorkingDir    string    `json:"working_dir"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	TotalOps      int       `json:"total_operations"`
	SuccessfulOps int       `json:"successful_operations"`
	FailedOps     int       `json:"failed_operations"`
}

// Session accumulates operations for one run and persists them on Close.
// A nil *Session is valid and records nothing, so components can take one
// unconditionally.
type Session struct {
	mu         sync.Mutex
	metadata   SessionMetadata
	operations []Operation
	dir        string
}

// NewSession starts a session writing into dir (created on Close).
func NewSession(command string, args []string, dir string) *Session {
	wd, _ := os.Getwd()
	now := time.Now()
	return &Session{
		metadata: SessionMetadata{
			CommandArgs: append([]string{command}, args...),
			WorkingDir:  wd,
			Timestamp:   now,
			SessionID:   fmt.Sprintf("%s_%03d", now.Format("20060102_150405"), now.Nanosecond()/1e6),
		},
		dir: dir,
	}
}

// Record appends one operation to the session.
func (s *Session) Record(opType OperationType, sourcePath, destPath string, success, dryRun bool, err error) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	op := Operation{
		ID:         fmt.Sprintf("%s_%d", s.metadata.SessionID, len(s.operations)),
		Timestamp:  time.Now(),
		Type:       opType,
		SourcePath: sourcePath,
		DestPath:   destPath,
		Success:    success,
		DryRun:     dryRun,
	}
	if err != nil {
		op.Error = err.Error()
	}
	s.operations = append(s.operations, op)
}

// Close finalizes the statistics and writes the session file.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metadata.TotalOps = len(s.operations)
	s.metadata.SuccessfulOps = 0
	s.metadata.FailedOps = 0
	for _, op := range s.operations {
		if op.Success {
			s.metadata.SuccessfulOps++
		} else {
			s.metadata.FailedOps++
		}
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	file := SessionFile{Metadata: s.metadata, Operations: s.operations}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	name := fmt.Sprintf("%s.json", s.metadata.SessionID)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// SessionFile is the on-disk shape of one session.
type SessionFile struct {
	Metadata   SessionMetadata `json:"metadata"`
	Operations []Operation     `json:"operations"`
}

// DefaultDir returns the session directory under the user's home.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".showtidy", "logs"), nil
}

// ReadSessions loads up to limit most-recent session files from dir.
// Corrupted files are skipped.
func ReadSessions(dir string, limit int) ([]*SessionFile, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list session files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}

	sessions := make([]*SessionFile, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		var sf SessionFile
		if err := json.Unmarshal(data, &sf); err != nil {
			continue
		}
		sessions = append(sessions, &sf)
	}
	return sessions, nil
}

// Cleanup removes session files older than retentionDays from dir.
func Cleanup(dir string, retentionDays int) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("list session files: %w", err)
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(f)
		}
	}
	return nil
}
