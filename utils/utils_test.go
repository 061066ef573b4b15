package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleEnum(t *testing.T) {
	type filter int
	const last filter = 2

	assert.Equal(t, filter(1), CycleEnum(filter(0), 1, last))
	assert.Equal(t, filter(0), CycleEnum(last, 1, last))
	assert.Equal(t, last, CycleEnum(filter(0), -1, last))
	assert.Equal(t, filter(1), CycleEnum(filter(1), 3, last))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500.0μs", FormatDuration(500*time.Microsecond))
	assert.Equal(t, "12.5ms", FormatDuration(12500*time.Microsecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("client.jar", ".jar"))
	assert.True(t, HasExtension("JOINED.TSRG", ".tsrg", ".srg"))
	assert.False(t, HasExtension("joined.tsrg.bak", ".tsrg"))
	assert.False(t, HasExtension("jar", ".jar"))
}

func TestCompleteFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jar", "b.txt", ".hidden.jar"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "libs"), 0o755))

	complete := CompleteFilesByExtension(".jar")
	got, _ := complete(nil, nil, dir+"/a")
	assert.Equal(t, []string{filepath.Join(dir, "a.jar")}, got)

	got, _ = complete(nil, nil, dir+"/l")
	assert.Equal(t, []string{filepath.Join(dir, "libs") + "/"}, got)

	got, _ = complete(nil, nil, dir+"/b")
	assert.Empty(t, got)
}

func TestGetSeverityStyle(t *testing.T) {
	assert.Equal(t, CriticalStyle.Render("x"), GetSeverityStyle("error").Render("x"))
	assert.Equal(t, "🔴", GetSeverityIcon("ERROR"))
	assert.Equal(t, "✅", GetSeverityIcon("none"))
	assert.Equal(t, "❌", GetStatusIcon(false))
}
