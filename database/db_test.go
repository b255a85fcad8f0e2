package database_test

import (
	"path/filepath"
	"testing"

	"gallery/database"
	"gallery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	db, err := database.InitDB(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Пустая база: записи нет, ошибки тоже.
	snap, err := database.LoadSnapshot(db)
	require.NoError(t, err)
	assert.Nil(t, snap)

	saved := models.Snapshot{
		User:       &models.User{ID: "u1", Username: "neo"},
		Artworks:   []models.Artwork{{ID: "a1", Title: "Red Pill", Artist: "neo", ImageURL: "i", UserID: "u1"}},
		Comments:   []models.Comment{{ID: "c1", ArtworkID: "a1", Author: "m", Content: "wow"}},
		Ratings:    []models.Rating{{ArtworkID: "a1", Rating: 5, SessionID: "s1"}},
		Categories: []models.Category{{ID: "k1", Name: "cyber", CreatedBy: "u1"}},
		SessionID:  "s1",
	}
	require.NoError(t, database.SaveSnapshot(db, saved))

	loaded, err := database.LoadSnapshot(db)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)

	// Повторная запись перезаписывает единственную запись.
	saved.SessionID = "s2"
	saved.User = nil
	require.NoError(t, database.SaveSnapshot(db, saved))

	loaded, err = database.LoadSnapshot(db)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "s2", loaded.SessionID)
	assert.Nil(t, loaded.User)

	require.NoError(t, database.ClearSnapshot(db))
	loaded, err = database.LoadSnapshot(db)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
