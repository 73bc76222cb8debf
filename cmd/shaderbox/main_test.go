package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitThenCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "art.wgsl")
	var out, errOut bytes.Buffer

	require.Equal(t, 0, run([]string{"init", path}, &out, &errOut), errOut.String())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, shader.DefaultFragmentSource, string(b))

	assert.Equal(t, 1, run([]string{"init", path}, &out, &errOut))
	assert.Contains(t, errOut.String(), "already exists")
	assert.Equal(t, 0, run([]string{"init", "-force", path}, &out, &errOut))

	out.Reset()
	assert.Equal(t, 0, run([]string{"check", path}, &out, &errOut))
	assert.Contains(t, out.String(), "ok")
}

func TestCheckReportsDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("@fragment fn fs( {"), 0o644))

	var out, errOut bytes.Buffer
	assert.Equal(t, 1, run([]string{"check", path}, &out, &errOut))
	assert.Contains(t, errOut.String(), path)
}

func TestUsageErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"bogus"}, &out, &errOut))
	assert.Equal(t, 2, run([]string{"check"}, &out, &errOut))
	assert.Equal(t, 2, run([]string{"-width", "-5", "-backend", "headless"}, &out, &errOut))
}
