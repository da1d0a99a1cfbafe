package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/jsonutil"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ExportFormats lists the formats Encode accepts.
var ExportFormats = []string{FormatJSON, FormatYAML, FormatTOML}

// Export is a snapshot of a task file and its recorded progress.
type Export struct {
	FilePath        string                `json:"file_path" yaml:"file_path" toml:"file_path"`
	ExportTimestamp string                `json:"export_timestamp" yaml:"export_timestamp" toml:"export_timestamp"`
	Statistics      *FileEntry            `json:"statistics" yaml:"statistics" toml:"statistics,omitempty"`
	Tasks           map[string]ExportTask `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// ExportTask is one task in an Export.
type ExportTask struct {
	ID            string        `json:"id" yaml:"id" toml:"id"`
	Description   string        `json:"description" yaml:"description" toml:"description"`
	Status        Status        `json:"status" yaml:"status" toml:"status"`
	Requirements  []string      `json:"requirements" yaml:"requirements" toml:"requirements"`
	Dependencies  []string      `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	LineNumber    int           `json:"line_number" yaml:"line_number" toml:"line_number"`
	IndentLevel   int           `json:"indent_level" yaml:"indent_level" toml:"indent_level"`
	FullContent   string        `json:"full_content" yaml:"full_content" toml:"full_content"`
	IsSubTask     bool          `json:"is_sub_task" yaml:"is_sub_task" toml:"is_sub_task"`
	ParentTask    *string       `json:"parent_task" yaml:"parent_task" toml:"parent_task,omitempty"`
	SubTasks      []string      `json:"sub_tasks" yaml:"sub_tasks" toml:"sub_tasks"`
	StatusHistory []StatusEntry `json:"status_history" yaml:"status_history" toml:"status_history"`
}

// NewExport builds an Export of l using the progress recorded in lg.
func NewExport(l *List, lg *Ledger, now time.Time) *Export {
	ex := &Export{
		FilePath:        l.Path,
		ExportTimestamp: formatTimestamp(now),
		Statistics:      lg.Entry(l.Path),
		Tasks:           make(map[string]ExportTask, l.Len()),
	}
	for _, t := range l.Tasks() {
		et := ExportTask{
			ID:            t.ID,
			Description:   t.Description,
			Status:        t.Status,
			Requirements:  t.Requirements,
			Dependencies:  t.Dependencies,
			LineNumber:    t.Line,
			IndentLevel:   t.Indent,
			FullContent:   t.Content,
			IsSubTask:     IsSubTask(t.ID),
			SubTasks:      []string{},
			StatusHistory: lg.History(l.Path, t.ID),
		}
		if et.IsSubTask {
			parent := ParentID(t.ID)
			et.ParentTask = &parent
		}
		for _, s := range l.SubTasks(t.ID) {
			et.SubTasks = append(et.SubTasks, s.ID)
		}
		ex.Tasks[t.ID] = et
	}
	return ex
}

// Encode writes ex to w in format.
func (ex *Export) Encode(w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		data, err := jsonutil.MarshalIndentWithNewline(ex, "", "  ")
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return nil
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(ex); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q (want json, yaml or toml)", format)
	}
}
