package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidekit/slide-export/internal/export"
	"github.com/slidekit/slide-export/internal/slide"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeProfile(t, "export.yaml", `
flavor: tiled
outputDir: /tmp/out
format: jpeg
downsample: 4
tileSize: 256
globalRanges: true
clipPercent: 2.5
`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FlavorTiled, p.Flavor)
	assert.Equal(t, "/tmp/out", p.OutputDir)
	assert.Equal(t, "jpeg", p.Format)
	assert.Equal(t, 4.0, p.Downsample)
	assert.Equal(t, 256, p.TileSize)
	assert.True(t, p.GlobalRanges)
	assert.Equal(t, 2.5, p.ClipPercent)
	// Defaults survive underneath the file.
	assert.Equal(t, 32.0, p.ScanDownsample)
}

func TestLoad_JSONCWithComments(t *testing.T) {
	path := writeProfile(t, "export.jsonc", `{
  // rendered overlay for the monthly report
  "flavor": "rendered",
  "outputDir": "/tmp/out",
  "gamma": 0.8, // trailing comma below is fine too
}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FlavorRendered, p.Flavor)
	assert.Equal(t, 0.8, p.Gamma)
}

func TestLoad_EquivalentAcrossFormats(t *testing.T) {
	yamlPath := writeProfile(t, "a.yaml", "flavor: mask\noutputDir: /tmp/out\nmaskChannel: 1\n")
	jsonPath := writeProfile(t, "a.json", `{"flavor": "mask", "outputDir": "/tmp/out", "maskChannel": 1}`)

	py, err := Load(yamlPath)
	require.NoError(t, err)
	pj, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, py, pj)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeProfile(t, "export.toml", "flavor = \"rendered\"")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported profile format")
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.OutputDir = "/tmp/out"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{"unknown flavor", func(p *Profile) { p.Flavor = "hologram" }, "unknown flavor"},
		{"missing output dir", func(p *Profile) { p.OutputDir = "" }, "outputDir is required"},
		{"bad format", func(p *Profile) { p.Format = "webp" }, "unknown format"},
		{"downsample below one", func(p *Profile) { p.Downsample = 0.5 }, "downsample must be >= 1"},
		{"clip too large", func(p *Profile) { p.ClipPercent = 50 }, "clipPercent"},
		{"negative clip", func(p *Profile) { p.ClipPercent = -1 }, "clipPercent"},
		{"annotations without dir", func(p *Profile) { p.Annotations = true }, "annotationDir"},
		{"recording without dir", func(p *Profile) { p.RecordSteps = true }, "historyDir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorContains(t, p.Validate(), tt.wantErr)
		})
	}
}

func TestStrategy(t *testing.T) {
	ranges := []slide.ChannelRange{{Name: "Gray", MinDisplay: 10, MaxDisplay: 90}}

	p := Default()
	p.OutputDir = "/tmp/out"

	p.Flavor = FlavorRendered
	s, err := p.Strategy(ranges)
	require.NoError(t, err)
	rendered, ok := s.(export.Rendered)
	require.True(t, ok, "got %T", s)
	assert.Equal(t, ranges, rendered.Opts.Ranges)
	assert.Equal(t, "rendered", s.Name())

	p.Flavor = FlavorMask
	s, err = p.Strategy(nil)
	require.NoError(t, err)
	assert.Equal(t, "mask", s.Name())

	p.Flavor = FlavorRaw
	s, err = p.Strategy(nil)
	require.NoError(t, err)
	assert.Equal(t, "raw", s.Name())

	p.Flavor = FlavorTiled
	s, err = p.Strategy(nil)
	require.NoError(t, err)
	assert.Equal(t, "tiled", s.Name())
}
