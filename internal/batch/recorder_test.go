package batch

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidekit/slide-export/internal/slide"
)

func TestFileRecorder_AppendsSteps(t *testing.T) {
	dir := t.TempDir()
	rec := FileRecorder{Dir: dir}
	item := Item{Name: "slide/one", Ref: slide.Ref{Path: "/data/one.tif"}}

	require.NoError(t, rec.Record(item, "rendered", "slide-export export --flavor rendered one.tif"))
	require.NoError(t, rec.Record(item, "tiled", "slide-export export --flavor tiled one.tif"))

	// Path separators in the item name are flattened into the file name.
	f, err := os.Open(filepath.Join(dir, "slide_one.steps.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var steps []workflowStep
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var s workflowStep
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &s))
		steps = append(steps, s)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, steps, 2)
	assert.Equal(t, "rendered", steps[0].Step)
	assert.Equal(t, "tiled", steps[1].Step)
	assert.Contains(t, steps[0].Script, "--flavor rendered")
	assert.False(t, steps[0].Recorded.IsZero())
}
