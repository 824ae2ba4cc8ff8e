// Copyright © 2026 Csum Authors

package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/csum-io/csum/internal/rand"
	"github.com/csum-io/csum/pkg/model/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySidecarMatch(t *testing.T) {
	e, fs := testEngine(t)
	pth := filepath.Join("data", "report.txt")
	require.NoError(t, afero.WriteFile(fs, pth, []byte("hello"), 0600))

	lres, err := e.Label(context.Background(), pth)
	require.NoError(t, err)

	vres, err := e.Verify(context.Background(), lres.Record.RecordPath)
	require.NoError(t, err)
	assert.True(t, vres.Match)
	assert.Equal(t, helloDigest, vres.ActualDigest)
	assert.Equal(t, lres.Record, vres.Record)
	assert.Empty(t, vres.QuarantineDir)

	// verification leaves the pair in place
	assert.True(t, exists(t, fs, lres.Record.LabeledPath))
	assert.True(t, exists(t, fs, lres.Record.RecordPath))
}

func TestVerifySidecarMismatch(t *testing.T) {
	e, fs := testEngine(t)
	pth := filepath.Join("data", "report.txt")
	require.NoError(t, afero.WriteFile(fs, pth, []byte("hello"), 0600))

	lres, err := e.Label(context.Background(), pth)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, lres.Record.LabeledPath, []byte("hellO"), 0600))

	vres, err := e.Verify(context.Background(), lres.Record.RecordPath)
	require.NoError(t, err)
	assert.False(t, vres.Match)
	assert.NotEqual(t, vres.Record.Digest, vres.ActualDigest)
	assert.Empty(t, vres.QuarantineDir)

	// without quarantine, nothing moves
	assert.True(t, exists(t, fs, lres.Record.LabeledPath))
	assert.True(t, exists(t, fs, lres.Record.RecordPath))
}

func TestVerifySidecarQuarantine(t *testing.T) {
	e, fs := testEngine(t, Quarantine(true))
	pth := filepath.Join("data", "report.txt")
	require.NoError(t, afero.WriteFile(fs, pth, []byte("hello"), 0600))

	lres, err := e.Label(context.Background(), pth)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, lres.Record.LabeledPath, []byte("hellO"), 0600))

	vres, err := e.Verify(context.Background(), lres.Record.RecordPath)
	require.NoError(t, err)
	require.False(t, vres.Match)
	require.Equal(t, filepath.Join("data", helloDigest), vres.QuarantineDir)

	// both files relocated under the digest-named directory
	assert.False(t, exists(t, fs, lres.Record.LabeledPath))
	assert.False(t, exists(t, fs, lres.Record.RecordPath))
	assert.True(t, exists(t, fs, filepath.Join(vres.QuarantineDir, helloDigest+".txt")))
	assert.True(t, exists(t, fs, filepath.Join(vres.QuarantineDir, helloDigest+".record")))
}

func TestVerifySidecarQuarantineOnMatch(t *testing.T) {
	e, fs := testEngine(t, Quarantine(true))
	pth := filepath.Join("data", "report.txt")
	require.NoError(t, afero.WriteFile(fs, pth, []byte("hello"), 0600))

	lres, err := e.Label(context.Background(), pth)
	require.NoError(t, err)

	vres, err := e.Verify(context.Background(), lres.Record.RecordPath)
	require.NoError(t, err)
	assert.True(t, vres.Match)
	assert.Empty(t, vres.QuarantineDir)
	assert.True(t, exists(t, fs, lres.Record.LabeledPath))
}

func TestVerifyContainerMatch(t *testing.T) {
	e, fs := testEngine(t)
	pth := filepath.Join("data", "payload.bin")
	require.NoError(t, afero.WriteFile(fs, pth, rand.Bytes(256*1024), 0600))

	bres, err := e.Bundle(context.Background(), pth)
	require.NoError(t, err)

	vres, err := e.Verify(context.Background(), bres.ContainerPath)
	require.NoError(t, err)
	assert.True(t, vres.Match)
	assert.Equal(t, bres.Record, vres.Record)

	// verification streams the container, it is neither unpacked nor consumed
	assert.True(t, exists(t, fs, bres.ContainerPath))
	assert.False(t, exists(t, fs, pth))
}

func TestVerifyContainerQuarantine(t *testing.T) {
	e, fs := testEngine(t, Quarantine(true))
	pth := filepath.Join("data", "report.txt")
	require.NoError(t, afero.WriteFile(fs, pth, []byte("hello"), 0600))

	lres, err := e.Label(context.Background(), pth)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, lres.Record.LabeledPath, []byte("hellO"), 0600))
	bres, err := e.Bundle(context.Background(), lres.Record.RecordPath)
	require.NoError(t, err)

	vres, err := e.Verify(context.Background(), bres.ContainerPath)
	require.NoError(t, err)
	require.False(t, vres.Match)
	require.Equal(t, filepath.Join("data", helloDigest), vres.QuarantineDir)

	assert.False(t, exists(t, fs, bres.ContainerPath))
	assert.True(t, exists(t, fs, filepath.Join(vres.QuarantineDir, filepath.Base(bres.ContainerPath))))
}

func TestVerifyContainerWithoutPayloadEntry(t *testing.T) {
	e, fs := testEngine(t)

	writeRawContainer(t, fs, "lonely.pack", map[string][]byte{
		helloDigest + ".record": []byte("digest: " + helloDigest + "\noriginal_path: data/report.txt\nlabeled_path: data/" + helloDigest + ".txt\nrecord_path: data/" + helloDigest + ".record\n"),
	})

	_, err := e.Verify(context.Background(), "lonely.pack")
	assert.ErrorIs(t, err, status.ErrContainerCorrupt)
}

func TestVerifyUnrecognizedExtension(t *testing.T) {
	e, fs := testEngine(t)
	require.NoError(t, afero.WriteFile(fs, "report.txt", []byte("hello"), 0600))

	_, err := e.Verify(context.Background(), "report.txt")
	assert.ErrorIs(t, err, status.ErrUnrecognizedExtension)
}
