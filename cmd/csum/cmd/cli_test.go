package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/csum-io/csum/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloDigest = "5d41402abc4b2a76b9719d911017c592"

type exitMocks struct {
	fatalCalls int
	exitCodes  []int
}

func (m *exitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
}

func (m *exitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
}

func (m *exitMocks) Exit(code int) {
	m.exitCodes = append(m.exitCodes, code)
}

// runCmd executes the CLI with the given args, returning captured
// standard output and the recorded fatal/exit activity.
func runCmd(t *testing.T, args ...string) (string, *exitMocks) {
	mocks := new(exitMocks)
	saveFatalf, saveFatalln, saveExit, saveStdOut := logFatalf, logFatalln, osExit, logStdOut
	t.Cleanup(func() {
		logFatalf, logFatalln, osExit, logStdOut = saveFatalf, saveFatalln, saveExit, saveStdOut
	})
	var out bytes.Buffer
	logFatalf = func(format string, v ...interface{}) { mocks.Fatalf(format, v...) }
	logFatalln = func(v ...interface{}) { mocks.Fatalln(v...) }
	osExit = mocks.Exit
	logStdOut = func(format string, v ...interface{}) (int, error) {
		return fmt.Fprintf(&out, format, v...)
	}

	csumFlags.verify.onlyMismatches = false
	csumFlags.verify.quarantine = false
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String(), mocks
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	pth := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(pth, []byte(content), 0600))
	return pth
}

func TestCliHash(t *testing.T) {
	pth := writeTestFile(t, t.TempDir(), "report.txt", "hello")

	out, mocks := runCmd(t, "hash", pth)
	assert.Zero(t, mocks.fatalCalls)
	assert.Contains(t, out, helloDigest)
	assert.Contains(t, out, pth)
}

func TestCliLabelVerifyRestore(t *testing.T) {
	dir := t.TempDir()
	pth := writeTestFile(t, dir, "report.txt", "hello")
	recordPath := filepath.Join(dir, helloDigest+model.RecordSuffix)

	out, mocks := runCmd(t, "label", pth)
	require.Zero(t, mocks.fatalCalls)
	assert.Contains(t, out, helloDigest)
	require.FileExists(t, recordPath)
	require.FileExists(t, filepath.Join(dir, helloDigest+".txt"))
	require.NoFileExists(t, pth)

	out, mocks = runCmd(t, "verify", recordPath)
	require.Zero(t, mocks.fatalCalls)
	assert.Empty(t, mocks.exitCodes)
	assert.Contains(t, out, "the digest matches")

	out, mocks = runCmd(t, "restore", recordPath)
	require.Zero(t, mocks.fatalCalls)
	assert.Contains(t, out, pth)
	require.FileExists(t, pth)
	require.NoFileExists(t, recordPath)

	content, err := os.ReadFile(pth)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestCliBundleRestore(t *testing.T) {
	dir := t.TempDir()
	pth := writeTestFile(t, dir, "report.txt", "hello")
	containerPath := filepath.Join(dir, helloDigest+model.ContainerSuffix)

	_, mocks := runCmd(t, "bundle", pth)
	require.Zero(t, mocks.fatalCalls)
	require.FileExists(t, containerPath)
	require.NoFileExists(t, pth)

	_, mocks = runCmd(t, "restore", containerPath)
	require.Zero(t, mocks.fatalCalls)
	require.FileExists(t, pth)
	require.NoFileExists(t, containerPath)
}

func TestCliVerifyMismatch(t *testing.T) {
	dir := t.TempDir()
	pth := writeTestFile(t, dir, "report.txt", "hello")

	_, mocks := runCmd(t, "label", pth)
	require.Zero(t, mocks.fatalCalls)
	labeledPath := filepath.Join(dir, helloDigest+".txt")
	require.NoError(t, os.WriteFile(labeledPath, []byte("hellO"), 0600))

	recordPath := filepath.Join(dir, helloDigest+model.RecordSuffix)
	out, mocks := runCmd(t, "verify", "--only-mismatches", recordPath)
	assert.Zero(t, mocks.fatalCalls)
	assert.Equal(t, []int{1}, mocks.exitCodes)
	assert.Empty(t, out)

	// without quarantine the mismatching pair stays put
	require.FileExists(t, labeledPath)
	require.FileExists(t, recordPath)
}

func TestCliVerifyQuarantine(t *testing.T) {
	dir := t.TempDir()
	pth := writeTestFile(t, dir, "report.txt", "hello")

	_, mocks := runCmd(t, "label", pth)
	require.Zero(t, mocks.fatalCalls)
	labeledPath := filepath.Join(dir, helloDigest+".txt")
	require.NoError(t, os.WriteFile(labeledPath, []byte("hellO"), 0600))

	recordPath := filepath.Join(dir, helloDigest+model.RecordSuffix)
	_, mocks = runCmd(t, "verify", "--quarantine", recordPath)
	assert.Zero(t, mocks.fatalCalls)
	assert.Equal(t, []int{1}, mocks.exitCodes)

	qdir := filepath.Join(dir, helloDigest)
	require.FileExists(t, filepath.Join(qdir, helloDigest+".txt"))
	require.FileExists(t, filepath.Join(qdir, helloDigest+model.RecordSuffix))
	require.NoFileExists(t, labeledPath)
	require.NoFileExists(t, recordPath)
}
