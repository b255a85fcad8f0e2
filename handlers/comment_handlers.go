package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gallery/models"
	"gallery/store"
	"gallery/ws"
)

// CommentsHandler возвращает комментарии к работе в порядке добавления.
func CommentsHandler(st *store.Store) http.HandlerFunc {
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

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"comments": st.CommentsFor(artworkID),
		})
	}
}

// CommentHandler создаёт новый комментарий к работе.
// Принимает POST-запрос с artworkId, именем автора и текстом,
// возвращает JSON с данными комментария или ошибкой.
func CommentHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req struct {
			ArtworkID string `json:"artworkId"`
			Author    string `json:"author"`
			Content   string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		req.Author = strings.TrimSpace(req.Author)
		req.Content = strings.TrimSpace(req.Content)
		if req.ArtworkID == "" || req.Author == "" || req.Content == "" {
			respondError(w, http.StatusBadRequest, "Artwork ID, author and content are required.")
			return
		}

		comment, err := st.AddComment(models.Comment{
			ArtworkID: req.ArtworkID,
			Author:    req.Author,
			Content:   req.Content,
		})
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventCommentCreated, comment.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"comment": comment,
		})
	}
}

// DeleteCommentHandler удаляет комментарий по идентификатору.
// Отсутствующий идентификатор — тихий no-op, как и в хранилище.
func DeleteCommentHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}
		if req.ID == "" {
			respondError(w, http.StatusBadRequest, "Comment ID is required.")
			return
		}

		if err := st.DeleteComment(req.ID); err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventCommentDeleted, req.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
