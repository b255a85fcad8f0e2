package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"gallery/models"
	"gallery/store"
	"gallery/ws"
)

// IndexHandler отдаёт страницу галереи.
// Обрабатывает только корневой путь: остальные маршруты перехватывает
// CustomHandler и возвращает 404.
func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			return
		}

		if r.Method != "GET" {
			log.Println("Method not allowed:", r.Method)
			w.Header().Set("Allow", "GET")
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}

		http.ServeFile(w, r, "static/index.html")
	}
}

// artworkData собирает данные работы для отображения:
// средний балл, число оценок, признак оценки текущей сессией и комментарии.
func artworkData(st *store.Store, a models.Artwork, withComments bool) models.ArtworkData {
	avg, count := st.RatingStats(a.ID)
	data := models.ArtworkData{
		Artwork:     a,
		AvgRating:   avg,
		RatingCount: count,
		HasRated:    st.HasUserRated(a.ID),
	}
	if withComments {
		data.Comments = st.CommentsFor(a.ID)
	}
	return data
}

func artworkList(st *store.Store, artworks []models.Artwork) []models.ArtworkData {
	list := make([]models.ArtworkData, 0, len(artworks))
	for _, a := range artworks {
		list = append(list, artworkData(st, a, false))
	}
	return list
}

// ArtworksHandler возвращает список работ.
// Параметры user_id и anonymous выбирают работы пользователя или анонимные.
// Иначе возвращается страница сетки с учётом search, category, sort
// (date или rating), page и per_page; параметры запоминаются как текущее
// состояние просмотра.
func ArtworksHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			log.Println("Method not allowed:", r.Method)
			w.Header().Set("Allow", "GET")
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}

		q := r.URL.Query()

		if userID := q.Get("user_id"); userID != "" {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"success":  true,
				"artworks": artworkList(st, st.UserArtworks(userID)),
			})
			return
		}

		if q.Get("anonymous") == "true" {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"success":  true,
				"artworks": artworkList(st, st.AnonymousArtworks()),
			})
			return
		}

		sortBy := q.Get("sort")
		if sortBy != "" && sortBy != "date" && sortBy != "rating" {
			log.Printf("Invalid sort value: %s.", sortBy)
			respondError(w, http.StatusBadRequest, "Invalid sort value.")
			return
		}

		if q.Has("search") {
			st.SetSearchTerm(strings.TrimSpace(q.Get("search")))
		}
		if q.Has("category") {
			st.SelectCategory(q.Get("category"))
		}
		if pageStr := q.Get("page"); pageStr != "" {
			page, err := strconv.Atoi(pageStr)
			if err != nil || page < 1 {
				respondError(w, http.StatusBadRequest, "Invalid page value.")
				return
			}
			st.SetCurrentPage(page)
		}
		if perPageStr := q.Get("per_page"); perPageStr != "" {
			perPage, err := strconv.Atoi(perPageStr)
			if err != nil || perPage < 1 {
				respondError(w, http.StatusBadRequest, "Invalid per_page value.")
				return
			}
			st.SetItemsPerPage(perPage)
		}

		artworks, total := st.Browse(store.BrowseOptions{
			Search:     st.SearchTerm(),
			CategoryID: st.SelectedCategory(),
			SortBy:     sortBy,
			Page:       st.CurrentPage(),
			PerPage:    st.ItemsPerPage(),
		})

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"artworks": artworkList(st, artworks),
			"total":    total,
			"page":     st.CurrentPage(),
			"perPage":  st.ItemsPerPage(),
		})
	}
}

// ArtworkHandler возвращает работу с комментариями и статистикой оценок.
// Открытая работа становится выбранной, как при открытии детального вида.
func ArtworkHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			log.Println("Method not allowed:", r.Method)
			w.Header().Set("Allow", "GET")
			respondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			respondError(w, http.StatusBadRequest, "Artwork ID is required.")
			return
		}

		artwork, ok := st.Artwork(id)
		if !ok {
			respondError(w, http.StatusNotFound, "Artwork not found.")
			return
		}
		st.SelectArtwork(id)

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"artwork": artworkData(st, artwork, true),
		})
	}
}

// createArtworkRequest — тело запроса загрузки работы.
type createArtworkRequest struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	CategoryID  string `json:"categoryId"`
	Anonymous   bool   `json:"anonymous"`
}

// CreateArtworkHandler загружает новую работу.
// Название, автор и изображение обязательны. Работа без входа в систему
// или с флагом anonymous сохраняется как анонимная.
func CreateArtworkHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req createArtworkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}

		req.Title = strings.TrimSpace(req.Title)
		req.Artist = strings.TrimSpace(req.Artist)
		req.Description = strings.TrimSpace(req.Description)
		if req.Title == "" || req.Artist == "" || req.ImageURL == "" {
			respondError(w, http.StatusBadRequest, "Title, artist and image are required.")
			return
		}

		artwork := models.Artwork{
			Title:       req.Title,
			Artist:      req.Artist,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			CategoryID:  req.CategoryID,
			IsAnonymous: req.Anonymous,
		}
		if user := st.CurrentUser(); user != nil && !req.Anonymous {
			artwork.UserID = user.ID
		}

		artwork, err := st.AddArtwork(artwork)
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventArtworkCreated, artwork.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"artwork": artwork,
		})
	}
}

// editArtworkRequest — тело запроса редактирования работы.
// nil-поля не изменяются; пустая строка в categoryId снимает категорию.
type editArtworkRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Artist      *string `json:"artist"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	CategoryID  *string `json:"categoryId"`
}

// EditArtworkHandler применяет частичное обновление работы.
func EditArtworkHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req editArtworkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}
		if req.ID == "" {
			respondError(w, http.StatusBadRequest, "Artwork ID is required.")
			return
		}

		err := st.UpdateArtwork(req.ID, models.ArtworkUpdate{
			Title:       req.Title,
			Artist:      req.Artist,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			CategoryID:  req.CategoryID,
		})
		if err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventArtworkUpdated, req.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// DeleteArtworkHandler удаляет работу вместе с её комментариями и оценками.
func DeleteArtworkHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
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
			respondError(w, http.StatusBadRequest, "Artwork ID is required.")
			return
		}

		if err := st.DeleteArtwork(req.ID); err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventArtworkDeleted, req.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}

// MoveArtworkHandler назначает работе категорию.
// Пустой идентификатор категории снимает её.
func MoveArtworkHandler(st *store.Store, hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req struct {
			ID         string `json:"id"`
			CategoryID string `json:"categoryId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Println("Error decoding request body:", err)
			respondError(w, http.StatusBadRequest, "Bad request.")
			return
		}
		if req.ID == "" {
			respondError(w, http.StatusBadRequest, "Artwork ID is required.")
			return
		}

		if err := st.MoveArtworkToCategory(req.ID, req.CategoryID); err != nil {
			log.Println("Error saving gallery state:", err)
			respondError(w, http.StatusInternalServerError, "Failed to save gallery state.")
			return
		}

		hub.Notify(ws.EventArtworkMoved, req.ID)
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
