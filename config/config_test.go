package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
dictionary:
  main: /srv/dict.txt
  user:
    - /srv/user.txt
hmm:
  boundary: /srv/boundary.json
segment:
  hmm: false
server:
  address: ":9090"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	envelope, err := LoadConfigFromFile(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "/srv/dict.txt", envelope.Dictionary.Main)
	assert.Equal(t, []string{"/srv/user.txt"}, envelope.Dictionary.User)
	assert.Equal(t, "/srv/boundary.json", envelope.HMM.Boundary)
	assert.Equal(t, "data/pos_hmm.json", envelope.HMM.POS, "default kept")
	assert.False(t, envelope.Segment.HMM)
	assert.Equal(t, ":9090", envelope.Server.Address)
	assert.Equal(t, "data/user_words.sqlite", envelope.Server.Database)
}

func TestLoadConfigFromFile_Empty(t *testing.T) {
	envelope, err := LoadConfigFromFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), envelope)
}

func TestLoadConfigFromFile_UnknownKey(t *testing.T) {
	_, err := LoadConfigFromFile(writeConfig(t, "dictionary:\n  mian: typo.txt\n"))
	assert.Error(t, err)
}

func TestRead_EnvOverride(t *testing.T) {
	path := writeConfig(t, sample)
	t.Setenv("HANSEG_DICTIONARY_MAIN", "/env/dict.txt")
	t.Setenv("HANSEG_SEGMENT_HMM", "true")

	envelope, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/dict.txt", envelope.Dictionary.Main)
	assert.True(t, envelope.Segment.HMM)
	assert.Equal(t, ":9090", envelope.Server.Address)
}

func TestRead_MissingExplicitFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
