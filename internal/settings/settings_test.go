package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedGettersCoerce(t *testing.T) {
	s := Settings{
		"port":     int64(502),
		"timeout":  float64(3000),
		"baudRate": "19200",
		"host":     "10.0.0.1",
		"enabled":  "true",
		"bad":      []int{1},
	}

	assert.Equal(t, 502, s.Int("port", 0))
	assert.Equal(t, 3000, s.Int("timeout", 0))
	assert.Equal(t, 19200, s.Int("baudRate", 0))
	assert.Equal(t, 7, s.Int("bad", 7))
	assert.Equal(t, 9, s.Int("missing", 9))
	assert.Equal(t, "10.0.0.1", s.String("host", ""))
	assert.Equal(t, "502", s.String("port", ""))
	assert.Equal(t, "def", s.String("missing", "def"))
	assert.True(t, s.Bool("enabled", false))
	assert.True(t, s.Bool("missing", true))
	assert.True(t, s.Has("bad"))
	assert.False(t, s.Has("missing"))
}

func TestCloneIsIndependent(t *testing.T) {
	s := Settings{"host": "a"}
	c := s.Clone()
	c["host"] = "b"
	assert.Equal(t, "a", s["host"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"port.toml", "port.yaml", "port.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			in := Settings{
				"host":                        "192.168.1.10",
				"port":                        1502,
				"Client.Ui.Dialogs.Port.host": "cached-host",
				"parity":                      "Even",
			}
			require.NoError(t, Save(path, in))

			out, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "192.168.1.10", out.String("host", ""))
			assert.Equal(t, 1502, out.Int("port", 0))
			assert.Equal(t, "cached-host", out.String("Client.Ui.Dialogs.Port.host", ""))
			assert.Equal(t, "Even", out.String("parity", ""))

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file left behind")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteFileKeepsMode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "new.toml")
	require.NoError(t, WriteFile(fresh, []byte("a = 1\n")))
	st, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), st.Mode().Perm())

	existing := filepath.Join(dir, "port.toml")
	require.NoError(t, os.WriteFile(existing, []byte("host = \"a\"\n"), 0o600))
	require.NoError(t, os.Chmod(existing, 0o640))
	require.NoError(t, Save(existing, Settings{"host": "b"}))
	st, err = os.Stat(existing)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), st.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files left behind")
}
