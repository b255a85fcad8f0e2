package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gallery/store"
	"gallery/ws"
)

// CategoriesHandler возвращает список категорий.
func CategoriesHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			log.Println("Method not allowed:", r.Method)
			w.Header().Set("Allow", "GET")
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"categories": st.Categories(),
		})
	}
}

// CreateCategoryHandler создаёт новую категорию.
// Требует входа в систему: категория принадлежит создавшему её пользователю.
// Уникальность имени не проверяется.
func CreateCategoryHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		user := st.CurrentUser()
		if user == nil {
			log.Println("Unauthenticated user attempted to create a category.")
			respondError(w, http.StatusUnauthorized, "Login please.")
			return
		}

		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "Category name is required.")
			return
		}

		category, err := st.AddCategory(req.Name, user.ID)
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventCategoryCreated, category.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"category": category,
		})
	}
}

// EditCategoryHandler переименовывает категорию.
// Переименование снимает категорию с работ, которые на неё ссылались.
func EditCategoryHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.ID == "" || req.Name == "" {
			respondError(w, http.StatusBadRequest, "Category ID and name are required.")
			return
		}

		if err := st.UpdateCategory(req.ID, req.Name); err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventCategoryUpdated, req.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// DeleteCategoryHandler удаляет категорию.
// Ссылки работ на удалённую категорию снимаются, сами работы не удаляются.
func DeleteCategoryHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
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
			respondError(w, http.StatusBadRequest, "Category ID is required.")
			return
		}

		if err := st.DeleteCategory(req.ID); err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventCategoryDeleted, req.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
