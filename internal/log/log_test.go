package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsole(&buf, false)
	logger.Debug("hidden")
	logger.Info("navigation done", "index", 900)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "navigation done")
	assert.Contains(t, out, "index=900")

	buf.Reset()
	NewConsole(&buf, true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup(t *testing.T) {
	// Setup replaces the process-wide default logger, so this test does not
	// run in parallel.
	file := filepath.Join(t.TempDir(), "logs", "vscroll.log")

	Setup(file, true)
	require.True(t, Initialized())
}

func TestRecoverPanic(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()

	assert.True(t, cleaned)
	matches, err := filepath.Glob(filepath.Join(wd, "vscroll-panic-test-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "Panic in test: boom")
}
