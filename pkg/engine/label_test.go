// Copyright © 2026 Csum Authors

package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/csum-io/csum/internal/rand"
	"github.com/csum-io/csum/pkg/model/status"
	"github.com/csum-io/csum/pkg/record"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	e, fs := testEngine(t)
	pth := filepath.Join("data", "report.txt")
	require.NoError(t, afero.WriteFile(fs, pth, []byte("hello"), 0600))

	res, err := e.Label(context.Background(), pth)
	require.NoError(t, err)
	require.False(t, res.Skipped)

	assert.False(t, exists(t, fs, pth))
	assert.True(t, exists(t, fs, filepath.Join("data", helloDigest+".txt")))
	assert.True(t, exists(t, fs, filepath.Join("data", helloDigest+".record")))

	content, err := afero.ReadFile(fs, res.Record.LabeledPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	sidecar, err := afero.ReadFile(fs, res.Record.RecordPath)
	require.NoError(t, err)
	rec, err := record.Unmarshal(sidecar)
	require.NoError(t, err)
	assert.Equal(t, res.Record, rec)
	assert.Equal(t, pth, rec.OriginalPath)
}

func TestLabelSkipsManagedForms(t *testing.T) {
	e, fs := testEngine(t)
	for _, pth := range []string{"cafe.record", "cafe.pack"} {
		require.NoError(t, afero.WriteFile(fs, pth, rand.Bytes(32), 0600))

		res, err := e.Label(context.Background(), pth)
		require.NoError(t, err)
		assert.True(t, res.Skipped)
		assert.True(t, exists(t, fs, pth))
	}
}

func TestLabelMissingExtension(t *testing.T) {
	e, fs := testEngine(t)
	require.NoError(t, afero.WriteFile(fs, "README", []byte("no suffix"), 0600))

	_, err := e.Label(context.Background(), "README")
	require.ErrorIs(t, err, status.ErrMissingExtension)

	// the original file is untouched and no sidecar was written
	content, err := afero.ReadFile(fs, "README")
	require.NoError(t, err)
	assert.Equal(t, "no suffix", string(content))
	keys, err := afero.ReadDir(fs, ".")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestLabelMissingFile(t *testing.T) {
	e, _ := testEngine(t)

	_, err := e.Label(context.Background(), "nowhere.txt")
	assert.ErrorIs(t, err, status.ErrHashIO)
}

func TestLabelRestoreRoundTrip(t *testing.T) {
	e, fs := testEngine(t)
	pth := filepath.Join("deep", "nested", "payload.bin")
	content := rand.Bytes(1024*1024 + 13)
	require.NoError(t, afero.WriteFile(fs, pth, content, 0600))

	lres, err := e.Label(context.Background(), pth)
	require.NoError(t, err)

	rres, err := e.Restore(context.Background(), lres.Record.RecordPath)
	require.NoError(t, err)
	assert.Equal(t, lres.Record, rres.Record)

	back, err := afero.ReadFile(fs, pth)
	require.NoError(t, err)
	assert.Equal(t, content, back)

	// no sidecar or labeled-name file left behind
	assert.False(t, exists(t, fs, lres.Record.LabeledPath))
	assert.False(t, exists(t, fs, lres.Record.RecordPath))
}
