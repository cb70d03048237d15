package authstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() StoredCredentials {
	return StoredCredentials{
		Version: currentVersion,
		Credentials: Credentials{
			Token:     "xoxc-abc",
			Cookie:    "xoxd-def",
			Workspace: "acme",
		},
		Metadata: Metadata{
			LastRefreshed: time.Now().UTC().Format(time.RFC3339),
			RefreshCount:  1,
			Source:        SourceAutoRefresh,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	store := New(path)

	sc := validRecord()
	require.NoError(t, store.Save(sc))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sc, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.Load()
	require.Error(t, err)
	var storageErr *StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "credentials.json"))
	sc := validRecord()
	sc.Credentials.Token = "bad-prefix"
	err := store.Save(sc)
	require.Error(t, err)
	assert.False(t, store.Exists())
}

func TestSaveOverwritesPreservingMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")

	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	store := New(path)
	require.NoError(t, store.Save(validRecord()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveLeavesNoTempFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	store := New(path)

	sc := validRecord()
	sc.Metadata.RefreshCount = -1
	require.Error(t, store.Save(sc))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateInitial(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "credentials.json"))
	sc, err := store.CreateInitial("xoxc-abc", "xoxd-def", "acme")
	require.NoError(t, err)
	assert.Equal(t, SourceInitial, sc.Metadata.Source)
	assert.Equal(t, 0, sc.Metadata.RefreshCount)
	assert.True(t, store.Exists())
}

func TestValidateRejectsBadVersion(t *testing.T) {
	sc := validRecord()
	sc.Version = 2
	assert.Error(t, sc.Validate())
}

func TestValidateRejectsEmptyWorkspace(t *testing.T) {
	sc := validRecord()
	sc.Credentials.Workspace = ""
	assert.Error(t, sc.Validate())
}
