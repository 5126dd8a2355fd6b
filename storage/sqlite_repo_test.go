package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-lab-console/storage"
	"github.com/jrsteele09/go-lab-console/storage/repofake"
	"github.com/stretchr/testify/require"
)

func repos(t *testing.T) map[string]storage.Repo {
	t.Helper()
	sqliteRepo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "nested", "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteRepo.Close() })

	return map[string]storage.Repo{
		"sqlite": sqliteRepo,
		"fake":   repofake.NewFakeStorageRepo(),
	}
}

func TestRepo(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(storage.KeyToken)
			require.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, repo.Set(storage.KeyToken, "abc"))
			require.NoError(t, repo.Set(storage.KeyToken, "def"))
			v, err := repo.Get(storage.KeyToken)
			require.NoError(t, err)
			require.Equal(t, "def", v)

			require.NoError(t, repo.Set(storage.KeySucursal, "Sede Central"))
			require.NoError(t, repo.Remove(storage.AllKeys()...))
			_, err = repo.Get(storage.KeySucursal)
			require.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, repo.Remove())
		})
	}
}

func TestSQLiteRepoSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.db")
	first, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(storage.KeyUsuario, "jdoe"))
	require.NoError(t, first.Close())

	second, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()
	v, err := second.Get(storage.KeyUsuario)
	require.NoError(t, err)
	require.Equal(t, "jdoe", v)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := storage.OpenSQLite("")
	require.Error(t, err)
}
