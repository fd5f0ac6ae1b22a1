package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(NewViper())
	require.NoError(t, err)

	assert.Equal(t, Settings{
		Manifest:   "manifest.yaml",
		ContentDir: "src",
		OutDir:     "src/.vuepress",
		Port:       "9010",
	}, s)
}

func TestLoadSettings_Environment(t *testing.T) {
	t.Setenv("LANGBOOK_MANIFEST", "site.yaml")
	t.Setenv("LANGBOOK_ORIGIN", "https://flow-zy.github.io/")
	t.Setenv("LANGBOOK_STRICT", "true")

	s, err := LoadSettings(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "site.yaml", s.Manifest)
	assert.Equal(t, "https://flow-zy.github.io", s.Origin)
	assert.True(t, s.Strict)
}

func TestLoadSettings_EmptyManifest(t *testing.T) {
	v := NewViper()
	v.Set("manifest", "")

	_, err := LoadSettings(v)
	require.Error(t, err)
}
