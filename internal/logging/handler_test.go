package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Info("Processing: unique-ids", "check", "unique-ids")
	log.Warn("odd", "count", 2)
	log.Error("Duplicate ID: 100 (field_100_a, func_100_b)")
	log.Debug("detail")

	assert.Equal(t,
		"INFO: Processing: unique-ids\n"+
			"WARNING: odd count=2\n"+
			"ERROR: Duplicate ID: 100 (field_100_a, func_100_b)\n"+
			"DEBUG: detail\n",
		buf.String())
}

func TestHandlerLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn))

	log.Info("hidden")
	log.Warn("shown")
	assert.Equal(t, "WARNING: shown\n", buf.String())
}

func TestHandlerAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, nil)).With("run", 1).WithGroup("load")

	log.Info("done", "classes", 3)
	assert.Equal(t, "INFO: done run=1 load.classes=3\n", buf.String())
}

func TestNewConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verify.log")
	var console bytes.Buffer

	log, closeFn, err := New(Options{File: path, Console: &console})
	require.NoError(t, err)

	log.Info("Processing: unique-ids")
	log.Error("Duplicate ID: 7 (func_7_a)")
	require.NoError(t, closeFn())

	assert.Equal(t, "ERROR: Duplicate ID: 7 (func_7_a)\n", console.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "INFO: Processing: unique-ids\nERROR: Duplicate ID: 7 (func_7_a)\n", string(data))
}

func TestNewVerboseConsole(t *testing.T) {
	var console bytes.Buffer
	log, closeFn, err := New(Options{Verbose: true, Console: &console})
	require.NoError(t, err)
	defer closeFn()

	log.Info("Processing: unique-ids")
	assert.Equal(t, "INFO: Processing: unique-ids\n", console.String())
}

func TestNewBadLogPath(t *testing.T) {
	_, _, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}
