package tmcgfs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	require.NoError(t, WriteSecretLine(present, "hello"))

	ok, err := Exists(present)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWriteSecretLineAndReadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret")

	require.NoError(t, WriteSecretLine(path, "sec|alice|\n"))
	line, err := ReadLine(path)
	require.NoError(t, err)
	require.Equal(t, "sec|alice|", line)

	ok, err := CheckPermission(path)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWriteSecretLineAddsMissingNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret-no-nl")

	require.NoError(t, WriteSecretLine(path, "sec|bob|"))
	line, err := ReadLine(path)
	require.NoError(t, err)
	require.Equal(t, "sec|bob|", line)
}

func TestCreateSecureFolder(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sub", "folder")

	got, err := CreateSecureFolder(target)
	require.NoError(t, err)
	require.Equal(t, target, got)

	exists, err := Exists(target)
	require.NoError(t, err)
	require.True(t, exists)
}
