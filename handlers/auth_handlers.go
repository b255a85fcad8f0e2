package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"gallery/store"
	"gallery/ws"
)

// respondJSON сериализует данные и отправляет их клиенту.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Println("Error encoding response:", err)
	}
}

// respondError отправляет клиенту JSON с сообщением об ошибке.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// requirePost проверяет метод запроса.
// Возвращает false и отвечает ошибкой, если метод не POST.
func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != "POST" {
		log.Println("Method not allowed:", r.Method)
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return false
	}
	return true
}

// credentials — тело запросов входа и регистрации.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler регистрирует пользователя.
// Принимает POST-запрос с именем и паролем. Учётные данные не проверяются:
// любое непустое имя создаёт свежую запись пользователя.
func RegisterHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		user, err := st.Register(strings.TrimSpace(creds.Username), creds.Password)
		if errors.Is(err, store.ErrEmptyCredentials) {
			respondError(w, http.StatusBadRequest, "Username and password are required.")
			return
		}
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user,
		})
	}
}

// LoginHandler выполняет вход пользователя.
// Неотличим от регистрации: любые непустые учётные данные принимаются.
func LoginHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		user, err := st.Login(strings.TrimSpace(creds.Username), creds.Password)
		if errors.Is(err, store.ErrEmptyCredentials) {
			respondError(w, http.StatusBadRequest, "Username and password are required.")
			return
		}
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    user,
		})
	}
}

// LogoutHandler выполняет выход пользователя.
// Не затрагивает работы, комментарии и оценки, привязанные к нему.
func LogoutHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		if err := st.Logout(); err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// SessionHandler возвращает текущего пользователя и идентификатор сессии.
func SessionHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			log.Println("Method not allowed:", r.Method)
			w.Header().Set("Allow", "GET")
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"user":      st.CurrentUser(),
			"sessionId": st.SessionID(),
		})
	}
}

// ResetHandler полностью очищает галерею.
// Удаляет сохранённую запись и сбрасывает состояние, включая сессию оценок.
func ResetHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		if err := st.Reset(); err != nil {
			log.Println("Error resetting gallery:", err)
			respondError(w, http.StatusInternalServerError, "Failed to reset gallery.")
			return
		}

		hub.Notify(ws.EventStoreReset, "")
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
