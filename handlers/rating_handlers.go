package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gallery/store"
	"gallery/ws"
)

// RateHandler сохраняет оценку работы текущей сессией.
// Повторная оценка перезаписывает предыдущую. Возвращает обновлённую
// статистику оценок работы.
func RateHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req struct {
			ArtworkID string `json:"artworkId"`
			Rating    int    `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}
		if req.ArtworkID == "" {
			respondError(w, http.StatusBadRequest, "Artwork ID is required.")
			return
		}

		err := st.AddRating(req.ArtworkID, req.Rating)
		if errors.Is(err, store.ErrRatingOutOfRange) {
			respondError(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
			return
		}
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		avg, count := st.RatingStats(req.ArtworkID)
		hub.Notify(ws.EventRatingChanged, req.ArtworkID)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"average":  avg,
			"count":    count,
			"hasRated": true,
		})
	}
}

// RatingHandler возвращает статистику оценок работы.
func RatingHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			log.Println("Method not allowed:", r.Method)
			w.Header().Set("Allow", "GET")
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}

		artworkID := r.URL.Query().Get("artwork_id")
		if artworkID == "" {
			respondError(w, http.StatusBadRequest, "Artwork ID is required.")
			return
		}

		avg, count := st.RatingStats(artworkID)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"average":  avg,
			"count":    count,
			"hasRated": st.HasUserRated(artworkID),
		})
	}
}
