package configx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Addr string `json:"addr" yaml:"addr"`
	N    int    `json:"n" yaml:"n"`
}

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadFile_ByExtension(t *testing.T) {
	var j sample
	require.NoError(t, ReadFile(write(t, "c.json", `{"addr":":1","n":2}`), &j))
	assert.Equal(t, sample{Addr: ":1", N: 2}, j)

	var y sample
	require.NoError(t, ReadFile(write(t, "c.YML", "addr: ':3'\nn: 4\n"), &y))
	assert.Equal(t, sample{Addr: ":3", N: 4}, y)
}

func TestReadFile_Errors(t *testing.T) {
	var s sample
	err := ReadFile(filepath.Join(t.TempDir(), "missing.json"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	err = ReadFile(write(t, "bad.json", "{nope"), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
