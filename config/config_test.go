package config

import (
	"path/filepath"
	"testing"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesConstants(t *testing.T) {
	c := Default()
	require.Equal(t, constants.SecurityLevel, c.SecurityLevel)
	require.Equal(t, constants.MaxPlayers, c.MaxPlayers)
	require.Equal(t, constants.KeySize, c.KeySize)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmcg.toml")

	c := Default()
	c.SecurityLevel = 32
	c.MaxPlayers = 8
	require.NoError(t, Save(c, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 32, loaded.SecurityLevel)
	require.Equal(t, 8, loaded.MaxPlayers)
}

func TestApplyPushesIntoConstants(t *testing.T) {
	origSecurity := constants.SecurityLevel
	defer func() { constants.SecurityLevel = origSecurity }()

	c := Default()
	c.SecurityLevel = 4
	c.Apply()
	require.Equal(t, 4, constants.SecurityLevel)
}
