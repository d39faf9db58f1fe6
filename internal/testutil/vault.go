// Package testutil holds fixtures shared by package tests
package testutil

import (
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// VaultRoot is where NewVault places the notes
const VaultRoot = "/vault"

// NewVault creates an in-memory filesystem with an empty vault directory
// and writes each set of notes into it, later sets overriding earlier ones.
// Names are vault-relative slash paths.
func NewVault(t *testing.T, files ...map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(VaultRoot, 0o755))
	for _, set := range files {
		for name, content := range set {
			WriteNote(t, fs, name, content)
		}
	}
	return fs
}

// WriteNote writes one note below VaultRoot
func WriteNote(t *testing.T, fs afero.Fs, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path.Join(VaultRoot, name), []byte(content), 0o644))
}

// ReadNote returns the content of one note below VaultRoot
func ReadNote(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path.Join(VaultRoot, name))
	require.NoError(t, err)
	return string(data)
}
