package batch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lv-glb-resizer/internal/host"
)

func observedLog() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func TestProcessModelResizesSharedImageOnce(t *testing.T) {
	shared := &fakeImage{name: "shared", w: 1024, h: 1024}
	h := &fakeHost{models: map[string][]host.Material{
		"m.glb": {material("LV_a", shared), material("LV_b", shared)},
	}}
	log, logs := observedLog()
	out := filepath.Join(t.TempDir(), "nested", "dir", "m.glb")

	results, err := ProcessModel(h, "in/m.glb", out, 512, log)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 1, shared.scales)
	assert.Equal(t, 1, h.resets)
	assert.FileExists(t, out)
	assert.Equal(t, 1, logs.FilterMessage("  Resized: shared 1024x1024 -> 512x512").Len())
	assert.Equal(t, 1, logs.FilterMessage("  Textures resized: 1").Len())
}

func TestProcessModelIgnoresUnselectedMaterials(t *testing.T) {
	mine := &fakeImage{name: "mine", w: 2048, h: 2048}
	theirs := &fakeImage{name: "theirs", w: 2048, h: 2048}
	h := &fakeHost{models: map[string][]host.Material{
		"m.glb": {material("LV_mine", mine), material("lv_theirs", theirs)},
	}}
	log, _ := observedLog()

	_, err := ProcessModel(h, "m.glb", filepath.Join(t.TempDir(), "m.glb"), 512, log)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.scales)
	assert.Zero(t, theirs.scales)
	assert.Equal(t, 2048, theirs.w)
}

func TestProcessModelImageFailureDoesNotFailFile(t *testing.T) {
	broken := &fakeImage{name: "broken", w: 4096, h: 4096, scaleErr: errors.New("unreadable buffer")}
	fine := &fakeImage{name: "fine", w: 4096, h: 2048}
	kept := &fakeImage{name: "kept", w: 64, h: 64}
	h := &fakeHost{models: map[string][]host.Material{
		"m.glb": {material("LV_body", broken, fine, kept)},
	}}
	log, logs := observedLog()
	out := filepath.Join(t.TempDir(), "m.glb")

	results, err := ProcessModel(h, "m.glb", out, 512, log)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, ImageFailed, results[0].Outcome)
	assert.Equal(t, Resized, results[1].Outcome)
	assert.Equal(t, Kept, results[2].Outcome)
	assert.Equal(t, 512, fine.w)
	assert.Equal(t, 256, fine.h)
	assert.FileExists(t, out)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "broken")
	assert.Contains(t, warnings[0].Message, "unreadable buffer")
	assert.Equal(t, 1, logs.FilterMessage("  Kept:    kept (64x64)").Len())
}

func TestProcessModelImportAndExportFailures(t *testing.T) {
	log, _ := observedLog()
	dir := t.TempDir()

	h := &fakeHost{importErr: map[string]error{"bad.glb": errors.New("not a glTF file")}}
	_, err := ProcessModel(h, "bad.glb", filepath.Join(dir, "bad.glb"), 512, log)
	assert.ErrorContains(t, err, "not a glTF file")
	assert.NoFileExists(t, filepath.Join(dir, "bad.glb"))

	h = &fakeHost{exportErr: errors.New("disk full")}
	_, err = ProcessModel(h, "ok.glb", filepath.Join(dir, "ok.glb"), 512, log)
	assert.ErrorContains(t, err, "disk full")
}

func TestProcessModelOutputParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	log, _ := observedLog()

	_, err := ProcessModel(&fakeHost{}, "m.glb", filepath.Join(blocker, "m.glb"), 512, log)
	assert.Error(t, err)
}
