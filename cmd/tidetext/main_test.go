package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "tidetext ")
}

func TestUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 2, run([]string{"-no-such-flag"}, strings.NewReader(""), &out))
}

func TestRunScriptFromFile(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.txt")
	script := filepath.Join(dir, "edit.tt")
	require.NoError(t, os.WriteFile(script, []byte(":insert 0 \"hi there\"\n:wq\n"), 0o644))

	var out bytes.Buffer
	code := run([]string{
		"-config", filepath.Join(dir, "missing.toml"),
		"-logfile", filepath.Join(dir, "test.log"),
		"-script", script,
		doc,
	}, strings.NewReader(""), &out)
	require.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Saved "+doc)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "hi there", string(data))
}
