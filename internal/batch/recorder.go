package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileRecorder persists reproducibility records as JSON lines, one file
// per item, under Dir. Each line is a workflow step naming the export
// flavor and carrying the script that generated it, so a run can be
// replayed later.
type FileRecorder struct {
	Dir string
}

type workflowStep struct {
	Step     string    `json:"step"`
	Script   string    `json:"script"`
	Recorded time.Time `json:"recorded"`
}

// Record appends one step to the item's history file.
func (r FileRecorder) Record(item Item, step, script string) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	line, err := json.Marshal(workflowStep{Step: step, Script: script, Recorded: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal step: %w", err)
	}

	base := strings.NewReplacer("/", "_", "\\", "_").Replace(item.DisplayName())
	path := filepath.Join(r.Dir, base+".steps.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
