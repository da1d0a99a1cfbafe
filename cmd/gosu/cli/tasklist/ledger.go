package tasklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/logging"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Ledger is the progress file (.tasks.local.json): one entry per task file,
// keyed by absolute path.
type Ledger struct {
	path  string
	found bool
	Files map[string]*FileEntry
}

// FileEntry is the recorded progress of one task file.
type FileEntry struct {
	TotalTasks   int                     `json:"total_tasks" yaml:"total_tasks" toml:"total_tasks"`
	Completed    int                     `json:"completed" yaml:"completed" toml:"completed"`
	Done         int                     `json:"done" yaml:"done" toml:"done"`
	InProgress   int                     `json:"in_progress" yaml:"in_progress" toml:"in_progress"`
	Pending      int                     `json:"pending" yaml:"pending" toml:"pending"`
	Review       int                     `json:"review" yaml:"review" toml:"review"`
	Deferred     int                     `json:"deferred" yaml:"deferred" toml:"deferred"`
	Percentage   float64                 `json:"percentage" yaml:"percentage" toml:"percentage"`
	LastModified string                  `json:"last_modified" yaml:"last_modified" toml:"last_modified"`
	Tasks        map[string]*TaskHistory `json:"tasks" yaml:"tasks" toml:"tasks"`
	Tracking     []Condition             `json:"tracking,omitempty" yaml:"tracking,omitempty" toml:"tracking,omitempty"`
}

// TaskHistory records every status a task was set to.
type TaskHistory struct {
	Description   string        `json:"description" yaml:"description" toml:"description"`
	StatusHistory []StatusEntry `json:"status_history" yaml:"status_history" toml:"status_history"`
}

// StatusEntry is one recorded status change.
type StatusEntry struct {
	Status    Status `json:"status" yaml:"status" toml:"status"`
	Timestamp string `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
}

// LoadLedger reads the ledger at path. A missing file is an empty ledger,
// and so is a file that is not valid JSON, with a warning logged.
func LoadLedger(ctx context.Context, path string) (*Ledger, error) {
	lg := &Ledger{path: path, Files: make(map[string]*FileEntry)}

	data, err := os.ReadFile(path) //nolint:gosec // ledger path is fixed or chosen by the caller
	if errors.Is(err, os.ErrNotExist) {
		return lg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	lg.found = true
	if err := json.Unmarshal(data, &lg.Files); err != nil {
		logging.Warn(ctx, "ignoring unreadable progress ledger",
			slog.String("path", path), slog.String("error", err.Error()))
		lg.Files = make(map[string]*FileEntry)
	}
	for k, v := range lg.Files {
		if v == nil {
			delete(lg.Files, k)
			continue
		}
		if v.Tasks == nil {
			v.Tasks = make(map[string]*TaskHistory)
		}
	}
	return lg, nil
}

// Save writes the ledger with two-space indentation.
func (lg *Ledger) Save() error {
	data, err := jsonutil.MarshalIndentWithNewline(lg.Files, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(lg.path, data, 0o644); err != nil { //nolint:gosec // progress file is not secret
		return fmt.Errorf("writing %s: %w", lg.path, err)
	}
	return nil
}

func ledgerKey(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return file
	}
	return abs
}

// Entry returns the recorded progress of file, or nil.
func (lg *Ledger) Entry(file string) *FileEntry {
	return lg.Files[ledgerKey(file)]
}

func (lg *Ledger) entry(file string, now time.Time) *FileEntry {
	key := ledgerKey(file)
	e, ok := lg.Files[key]
	if !ok {
		e = &FileEntry{LastModified: formatTimestamp(now), Tasks: make(map[string]*TaskHistory)}
		lg.Files[key] = e
	}
	return e
}

// Refresh recomputes the counters of the list's entry and stamps it as
// modified at now.
func (lg *Ledger) Refresh(l *List, now time.Time) {
	e := lg.entry(l.Path, now)
	c := l.Counts()
	e.TotalTasks = c.Total
	e.Completed = c.Completed()
	e.Done = c.Done
	e.InProgress = c.InProgress
	e.Pending = c.Pending
	e.Review = c.Review
	e.Deferred = c.Deferred
	e.Percentage = c.Percentage()
	e.LastModified = formatTimestamp(now)
}

// RecordStatus appends a status change to the task's history.
func (lg *Ledger) RecordStatus(file string, t *Task, now time.Time) {
	e := lg.entry(file, now)
	h, ok := e.Tasks[t.ID]
	if !ok {
		h = &TaskHistory{StatusHistory: []StatusEntry{}}
		e.Tasks[t.ID] = h
	}
	h.Description = t.Description
	stamp := formatTimestamp(now)
	h.StatusHistory = append(h.StatusHistory, StatusEntry{Status: t.Status, Timestamp: stamp})
	e.LastModified = stamp
}

// History returns the recorded status changes of a task.
func (lg *Ledger) History(file, id string) []StatusEntry {
	if e := lg.Entry(file); e != nil {
		if h, ok := e.Tasks[id]; ok {
			return h.StatusHistory
		}
	}
	return []StatusEntry{}
}

// IsKnown reports whether arg names a file in the ledger, either verbatim
// or once made absolute.
func (lg *Ledger) IsKnown(arg string) bool {
	if arg == "" {
		return false
	}
	if _, ok := lg.Files[arg]; ok {
		return true
	}
	_, ok := lg.Files[ledgerKey(arg)]
	return ok
}

// MostRecent returns the file with the latest parseable last_modified.
func (lg *Ledger) MostRecent() (string, bool) {
	var best string
	var bestTime time.Time
	for file, e := range lg.Files {
		ts, err := parseTimestamp(e.LastModified)
		if err != nil {
			continue
		}
		if best == "" || ts.After(bestTime) || (ts.Equal(bestTime) && file < best) {
			best, bestTime = file, ts
		}
	}
	return best, best != ""
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// parseTimestamp accepts RFC 3339 and zone-less ISO 8601 timestamps; the
// latter are taken as local time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func roundTo2(f float64) float64 {
	return math.Round(f*100) / 100
}
