package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tour-booking/internal/data/repository"
	"tour-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTours(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tours.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeedTours(t *testing.T) {
	repo := repository.NewMemoryRepository(nil)
	path := writeTours(t, `[
		{"id": "krka", "title": "Krka Waterfalls", "duration": "8h", "price": 120},
		{"id": "plitvice", "title": "Plitvice Lakes", "price": 150}
	]`)

	require.NoError(t, SeedTours(context.Background(), repo.Tour, path, zap.NewNop()))

	tour, err := repo.Tour.FindByID(context.Background(), "krka")
	require.NoError(t, err)
	require.NotNil(t, tour)
	assert.Equal(t, "Krka Waterfalls", tour.Title)
	assert.Equal(t, 120.0, tour.Price)

	// re-running updates in place
	path = writeTours(t, `[{"id": "krka", "title": "Krka Waterfalls", "price": 135}]`)
	require.NoError(t, SeedTours(context.Background(), repo.Tour, path, zap.NewNop()))
	tour, err = repo.Tour.FindByID(context.Background(), "krka")
	require.NoError(t, err)
	assert.Equal(t, 135.0, tour.Price)
}

func TestSeedTours_Invalid(t *testing.T) {
	repo := repository.NewMemoryRepository(nil)

	err := SeedTours(context.Background(), repo.Tour, writeTours(t, `[{"id": "free", "price": 0}]`), zap.NewNop())
	assert.Error(t, err)

	err = SeedTours(context.Background(), repo.Tour, writeTours(t, `{`), zap.NewNop())
	assert.Error(t, err)

	err = SeedTours(context.Background(), repo.Tour, filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	assert.Error(t, err)
}

func TestOpenRepository_SQLite(t *testing.T) {
	repo, closeStore, err := OpenRepository(utilsSQLiteConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer closeStore()

	tour, err := repo.Tour.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, tour)
}

func utilsSQLiteConfig(t *testing.T) utils.DatabaseConfig {
	t.Helper()
	return utils.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "bookings.db")}
}
