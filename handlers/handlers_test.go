package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gallery/database"
	"gallery/handlers"
	"gallery/models"
	"gallery/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st, err := store.New(db)
	require.NoError(t, err)
	return st
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", target, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterHandler(t *testing.T) {
	st := newTestStore(t)
	handler := handlers.RegisterHandler(st)

	rec := postJSON(t, handler, "/register", map[string]string{"username": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, handler, "/register", map[string]string{"username": "neo", "password": "matrix"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["success"])
	user := resp["user"].(map[string]interface{})
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "neo", user["username"])
	require.NotNil(t, st.CurrentUser())
}

func TestRegisterHandlerMethodNotAllowed(t *testing.T) {
	st := newTestStore(t)

	req := httptest.NewRequest("GET", "/register", nil)
	rec := httptest.NewRecorder()
	handlers.RegisterHandler(st)(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestCreateArtworkHandler(t *testing.T) {
	st := newTestStore(t)
	handler := handlers.CreateArtworkHandler(st, nil)

	rec := postJSON(t, handler, "/create-artwork", map[string]interface{}{"title": "Red Pill"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Без входа в систему работа сохраняется анонимной.
	rec = postJSON(t, handler, "/create-artwork", map[string]interface{}{
		"title": "Red Pill", "artist": "neo", "imageUrl": "data:image/png;base64,xyz",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	artwork := resp["artwork"].(map[string]interface{})
	assert.Equal(t, store.AnonymousUserID, artwork["userId"])
	assert.Equal(t, true, artwork["isAnonymous"])

	user, err := st.Register("neo", "matrix")
	require.NoError(t, err)
	rec = postJSON(t, handler, "/create-artwork", map[string]interface{}{
		"title": "Blue Pill", "artist": "neo", "imageUrl": "data:image/png;base64,abc",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody(t, rec)
	artwork = resp["artwork"].(map[string]interface{})
	assert.Equal(t, user.ID, artwork["userId"])
}

func TestArtworkHandlerNotFound(t *testing.T) {
	st := newTestStore(t)

	req := httptest.NewRequest("GET", "/artwork?id=missing", nil)
	rec := httptest.NewRecorder()
	handlers.ArtworkHandler(st)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateAndRatingHandlers(t *testing.T) {
	st := newTestStore(t)

	artwork, err := st.AddArtwork(models.Artwork{Title: "Red Pill", Artist: "neo", ImageURL: "i"})
	require.NoError(t, err)

	rate := handlers.RateHandler(st, nil)

	rec := postJSON(t, rate, "/rate", map[string]interface{}{"artworkId": artwork.ID, "rating": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, rate, "/rate", map[string]interface{}{"artworkId": artwork.ID, "rating": 5})
	require.Equal(t, http.StatusOK, rec.Code)

	// Повторная оценка перезаписывает предыдущую.
	rec = postJSON(t, rate, "/rate", map[string]interface{}{"artworkId": artwork.ID, "rating": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, 3.0, resp["average"])
	assert.Equal(t, 1.0, resp["count"])

	req := httptest.NewRequest("GET", "/rating?artwork_id="+artwork.ID, nil)
	getRec := httptest.NewRecorder()
	handlers.RatingHandler(st)(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)
	resp = decodeBody(t, getRec)
	assert.Equal(t, 3.0, resp["average"])
	assert.Equal(t, true, resp["hasRated"])
}

func TestDeleteArtworkHandlerCascades(t *testing.T) {
	st := newTestStore(t)

	artwork, err := st.AddArtwork(models.Artwork{Title: "Red Pill", Artist: "neo", ImageURL: "i"})
	require.NoError(t, err)
	_, err = st.AddComment(models.Comment{ArtworkID: artwork.ID, Author: "m", Content: "wow"})
	require.NoError(t, err)
	require.NoError(t, st.AddRating(artwork.ID, 5))

	rec := postJSON(t, handlers.DeleteArtworkHandler(st, nil), "/delete-artwork", map[string]string{"id": artwork.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := st.Artwork(artwork.ID)
	assert.False(t, ok)
	assert.Empty(t, st.CommentsFor(artwork.ID))
	_, count := st.RatingStats(artwork.ID)
	assert.Zero(t, count)
}

func TestCreateCategoryHandlerRequiresLogin(t *testing.T) {
	st := newTestStore(t)
	handler := handlers.CreateCategoryHandler(st, nil)

	rec := postJSON(t, handler, "/create-category", map[string]string{"name": "cyber"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user, err := st.Login("neo", "matrix")
	require.NoError(t, err)
	rec = postJSON(t, handler, "/create-category", map[string]string{"name": "cyber"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	category := resp["category"].(map[string]interface{})
	assert.Equal(t, user.ID, category["createdBy"])
}

func TestCommentHandlerValidation(t *testing.T) {
	st := newTestStore(t)
	handler := handlers.CommentHandler(st, nil)

	artwork, err := st.AddArtwork(models.Artwork{Title: "Red Pill", Artist: "neo", ImageURL: "i"})
	require.NoError(t, err)

	rec := postJSON(t, handler, "/comment", map[string]string{"artworkId": artwork.ID, "author": "m", "content": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, handler, "/comment", map[string]string{"artworkId": artwork.ID, "author": "m", "content": "wow"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, st.CommentsFor(artwork.ID), 1)
}

func TestArtworksHandlerBrowse(t *testing.T) {
	st := newTestStore(t)

	for _, title := range []string{"Neo City", "Desert", "Harbor"} {
		_, err := st.AddArtwork(models.Artwork{Title: title, Artist: "x", ImageURL: "i"})
		require.NoError(t, err)
	}

	handler := handlers.ArtworksHandler(st)

	req := httptest.NewRequest("GET", "/artworks?search=neo", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, 1.0, resp["total"])

	req = httptest.NewRequest("GET", "/artworks?search=&page=1&per_page=2", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody(t, rec)
	assert.Equal(t, 3.0, resp["total"])
	assert.Len(t, resp["artworks"], 2)

	req = httptest.NewRequest("GET", "/artworks?sort=newest", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
