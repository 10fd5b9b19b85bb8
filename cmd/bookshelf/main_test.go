package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLog_Discard(t *testing.T) {
	logger, closeLog, err := openLog("")
	require.NoError(t, err)
	defer closeLog()

	logger.Printf("dropped")
}

func TestOpenLog_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookshelf.log")

	logger, closeLog, err := openLog(path)
	require.NoError(t, err)
	logger.Printf("library op=list error=boom")
	closeLog()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "library op=list error=boom")
}

func TestOpenLog_BadPath(t *testing.T) {
	_, _, err := openLog(filepath.Join(t.TempDir(), "missing", "bookshelf.log"))
	assert.Error(t, err)
}
