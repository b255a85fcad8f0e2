// Package store содержит хранилище состояния галереи.
// Все изменения данных проходят через его операции: хранилище поддерживает
// инварианты (каскадное удаление, согласованность категорий и оценок)
// и после каждой мутации синхронно сохраняет снимок состояния в базу.
package store

import (
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gallery/database"
	"gallery/models"

	"github.com/google/uuid"
)

// Ошибки валидации, возвращаемые операциями хранилища.
var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)

// AnonymousUserID присваивается работам, загруженным без входа в систему.
const AnonymousUserID = "anonymous"

const defaultItemsPerPage = 12

// Store хранит все данные галереи в памяти и синхронизирует их с базой.
// Каждая операция выполняется атомарно под мьютексом: читатели никогда
// не видят частично применённую мутацию.
type Store struct {
	mu sync.Mutex
	db *sql.DB

	user       *models.User
	artworks   []models.Artwork
	comments   []models.Comment
	ratings    []models.Rating
	categories []models.Category
	sessionID  string

	// Состояние отображения: не сохраняется и сбрасывается при перезапуске.
	selectedArtwork  *models.Artwork
	selectedCategory string
	searchTerm       string
	currentPage      int
	itemsPerPage     int
}

// New создаёт хранилище и загружает сохранённое состояние, если оно есть.
// Для нового хранилища генерируется свежий идентификатор сессии.
func New(db *sql.DB) (*Store, error) {
	st := &Store{
		db:           db,
		sessionID:    uuid.New().String(),
		currentPage:  1,
		itemsPerPage: defaultItemsPerPage,
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		st.user = snap.User
		st.artworks = snap.Artworks
		st.comments = snap.Comments
		st.ratings = snap.Ratings
		st.categories = snap.Categories
		if snap.SessionID != "" {
			st.sessionID = snap.SessionID
		}
	}
	return st, nil
}

// persist сохраняет снимок состояния в базу. Вызывается под мьютексом.
// При ошибке записи мутация остаётся в памяти, а ошибка возвращается
// вызывающему: следующая успешная запись сохранит состояние целиком.
func (s *Store) persist() error {
	return database.SaveSnapshot(s.db, models.Snapshot{
		User:       s.user,
		Artworks:   s.artworks,
		Comments:   s.comments,
		Ratings:    s.ratings,
		Categories: s.categories,
		SessionID:  s.sessionID,
	})
}

// Login выполняет вход пользователя.
// Учётные данные не проверяются: любое непустое имя создаёт свежую запись
// пользователя. Возвращает ошибку только при пустом имени или пароле.
func (s *Store) Login(username, password string) (models.User, error) {
	return s.signIn(username, password)
}

// Register регистрирует пользователя.
// Неотличим от входа: уникальность имени не проверяется, пароль не сохраняется.
func (s *Store) Register(username, password string) (models.User, error) {
	return s.signIn(username, password)
}

func (s *Store) signIn(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, ErrEmptyCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := models.User{ID: uuid.New().String(), Username: username}
	s.user = &user
	return user, s.persist()
}

// Logout очищает текущего пользователя.
// Не затрагивает работы, комментарии и оценки, уже привязанные к нему.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return s.persist()
}

// CurrentUser возвращает копию текущего пользователя или nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SessionID возвращает идентификатор текущей сессии оценок.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// AddCategory добавляет категорию и возвращает её.
// Имена не проверяются на уникальность: две категории с одинаковым именем
// и владельцем могут сосуществовать.
func (s *Store) AddCategory(name, createdBy string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := models.Category{ID: uuid.New().String(), Name: name, CreatedBy: createdBy}
	s.categories = append(s.categories, cat)
	return cat, s.persist()
}

// UpdateCategory переименовывает категорию и снимает её со всех работ,
// которые на неё ссылались. Отсутствующий идентификатор — тихий no-op.
func (s *Store) UpdateCategory(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
		}
	}
	s.clearCategoryRefs(id)
	return s.persist()
}

// DeleteCategory удаляет категорию и снимает её со всех работ,
// которые на неё ссылались: висячих ссылок не остаётся.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	s.clearCategoryRefs(id)
	if s.selectedCategory == id {
		s.selectedCategory = ""
	}
	return s.persist()
}

// clearCategoryRefs снимает категорию со всех работ. Вызывается под мьютексом.
func (s *Store) clearCategoryRefs(id string) {
	for i := range s.artworks {
		if s.artworks[i].CategoryID == id {
			s.artworks[i].CategoryID = ""
		}
	}
}

// Categories возвращает копию списка категорий.
func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Category(nil), s.categories...)
}

// AddArtwork добавляет работу в начало коллекции (новые — первыми)
// и делает её выбранной. Пустые идентификатор и дата создания заполняются.
// Признак анонимности и UserID поддерживаются согласованными.
func (s *Store) AddArtwork(a models.Artwork) (models.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.UserID == "" || a.IsAnonymous {
		a.UserID = AnonymousUserID
	}
	if a.UserID == AnonymousUserID {
		a.IsAnonymous = true
	}

	s.artworks = append([]models.Artwork{a}, s.artworks...)
	sel := a
	s.selectedArtwork = &sel
	return a, s.persist()
}

// UpdateArtwork применяет частичное обновление к работе.
// Обновляет и выбранную работу, если она совпадает, чтобы открытые
// представления видели правки. Отсутствующий идентификатор — тихий no-op.
func (s *Store) UpdateArtwork(id string, upd models.ArtworkUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.artworks {
		if s.artworks[i].ID == id {
			applyUpdate(&s.artworks[i], upd)
			if s.selectedArtwork != nil && s.selectedArtwork.ID == id {
				sel := s.artworks[i]
				s.selectedArtwork = &sel
			}
			found = true
		}
	}
	if !found {
		return nil
	}
	return s.persist()
}

func applyUpdate(a *models.Artwork, upd models.ArtworkUpdate) {
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Artist != nil {
		a.Artist = *upd.Artist
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.ImageURL != nil {
		a.ImageURL = *upd.ImageURL
	}
	if upd.CategoryID != nil {
		a.CategoryID = *upd.CategoryID
	}
}

// MoveArtworkToCategory назначает работе категорию.
// Пустой идентификатор категории снимает её.
func (s *Store) MoveArtworkToCategory(artworkID, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.artworks {
		if s.artworks[i].ID == artworkID {
			s.artworks[i].CategoryID = categoryID
			found = true
		}
	}
	if !found {
		return nil
	}
	return s.persist()
}

// DeleteArtwork удаляет работу вместе со всеми её комментариями и оценками.
// Если удаляемая работа была выбрана, выбор сбрасывается.
func (s *Store) DeleteArtwork(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	artworks := s.artworks[:0]
	for _, a := range s.artworks {
		if a.ID != id {
			artworks = append(artworks, a)
		}
	}
	s.artworks = artworks

	comments := s.comments[:0]
	for _, c := range s.comments {
		if c.ArtworkID != id {
			comments = append(comments, c)
		}
	}
	s.comments = comments

	ratings := s.ratings[:0]
	for _, r := range s.ratings {
		if r.ArtworkID != id {
			ratings = append(ratings, r)
		}
	}
	s.ratings = ratings

	if s.selectedArtwork != nil && s.selectedArtwork.ID == id {
		s.selectedArtwork = nil
	}
	return s.persist()
}

// Artwork возвращает работу по идентификатору.
func (s *Store) Artwork(id string) (models.Artwork, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artworks {
		if a.ID == id {
			return a, true
		}
	}
	return models.Artwork{}, false
}

// Artworks возвращает копию коллекции работ (новые — первыми).
func (s *Store) Artworks() []models.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Artwork(nil), s.artworks...)
}

// AddComment добавляет комментарий и возвращает его.
// Непустоту полей обеспечивает вызывающий, хранилище их не проверяет.
func (s *Store) AddComment(c models.Comment) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.comments = append(s.comments, c)
	return c, s.persist()
}

// DeleteComment удаляет комментарий по идентификатору.
func (s *Store) DeleteComment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.comments = kept
	return s.persist()
}

// CommentsFor возвращает комментарии к работе в порядке добавления.
func (s *Store) CommentsFor(artworkID string) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var comments []models.Comment
	for _, c := range s.comments {
		if c.ArtworkID == artworkID {
			comments = append(comments, c)
		}
	}
	return comments
}

// AddRating сохраняет оценку работы текущей сессией.
// Повторная оценка той же работы перезаписывает предыдущую: на пару
// (работа, сессия) существует не более одной записи.
// Значение вне диапазона 1–5 отклоняется.
func (s *Store) AddRating(artworkID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrRatingOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ratings {
		if s.ratings[i].ArtworkID == artworkID && s.ratings[i].SessionID == s.sessionID {
			s.ratings[i].Rating = rating
			return s.persist()
		}
	}
	s.ratings = append(s.ratings, models.Rating{
		ArtworkID: artworkID,
		Rating:    rating,
		SessionID: s.sessionID,
	})
	return s.persist()
}

// HasUserRated сообщает, оценивала ли текущая сессия работу.
func (s *Store) HasUserRated(artworkID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.ratings {
		if r.ArtworkID == artworkID && r.SessionID == s.sessionID {
			return true
		}
	}
	return false
}

// AverageRating возвращает средний балл работы.
// Без оценок возвращает ровно 0, а не NaN.
func (s *Store) AverageRating(artworkID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.averageRating(artworkID)
}

// RatingStats возвращает средний балл и количество оценок работы.
func (s *Store) RatingStats(artworkID string) (float64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.ratings {
		if r.ArtworkID == artworkID {
			count++
		}
	}
	return s.averageRating(artworkID), count
}

// averageRating считает средний балл. Вызывается под мьютексом.
func (s *Store) averageRating(artworkID string) float64 {
	sum, count := 0, 0
	for _, r := range s.ratings {
		if r.ArtworkID == artworkID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// UserArtworks возвращает неанонимные работы пользователя.
func (s *Store) UserArtworks(userID string) []models.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	var artworks []models.Artwork
	for _, a := range s.artworks {
		if a.UserID == userID && !a.IsAnonymous {
			artworks = append(artworks, a)
		}
	}
	return artworks
}

// AnonymousArtworks возвращает работы, загруженные без автора.
func (s *Store) AnonymousArtworks() []models.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	var artworks []models.Artwork
	for _, a := range s.artworks {
		if a.IsAnonymous {
			artworks = append(artworks, a)
		}
	}
	return artworks
}

// CategoryArtworks возвращает работы указанной категории.
func (s *Store) CategoryArtworks(categoryID string) []models.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	var artworks []models.Artwork
	for _, a := range s.artworks {
		if a.CategoryID == categoryID {
			artworks = append(artworks, a)
		}
	}
	return artworks
}

// BrowseOptions задаёт параметры выборки работ для сетки галереи.
// SortBy принимает "date" (новые первыми, по умолчанию) или "rating"
// (по убыванию среднего балла).
type BrowseOptions struct {
	Search     string
	CategoryID string
	SortBy     string
	Page       int
	PerPage    int
}

// Browse возвращает страницу работ с учётом поиска по названию, автору
// и описанию, фильтра по категории и сортировки, а также общее число
// подходящих работ.
func (s *Store) Browse(opts BrowseOptions) ([]models.Artwork, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(opts.Search)
	var filtered []models.Artwork
	for _, a := range s.artworks {
		if opts.CategoryID != "" && a.CategoryID != opts.CategoryID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Title), needle) &&
			!strings.Contains(strings.ToLower(a.Artist), needle) &&
			!strings.Contains(strings.ToLower(a.Description), needle) {
			continue
		}
		filtered = append(filtered, a)
	}

	if opts.SortBy == "rating" {
		sort.SliceStable(filtered, func(i, j int) bool {
			return s.averageRating(filtered[i].ID) > s.averageRating(filtered[j].ID)
		})
	} else {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	total := len(filtered)
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = s.itemsPerPage
	}
	start := (page - 1) * perPage
	if start >= total {
		return nil, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return append([]models.Artwork(nil), filtered[start:end]...), total
}

// SelectArtwork делает работу выбранной; пустой идентификатор сбрасывает выбор.
// Возвращает false, если работа не найдена.
func (s *Store) SelectArtwork(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selectedArtwork = nil
		return true
	}
	for _, a := range s.artworks {
		if a.ID == id {
			sel := a
			s.selectedArtwork = &sel
			return true
		}
	}
	return false
}

// SelectedArtwork возвращает копию выбранной работы или nil.
func (s *Store) SelectedArtwork() *models.Artwork {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedArtwork == nil {
		return nil
	}
	sel := *s.selectedArtwork
	return &sel
}

// SelectCategory устанавливает фильтр по категории; пустая строка снимает его.
func (s *Store) SelectCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCategory = id
}

// SelectedCategory возвращает текущий фильтр по категории.
func (s *Store) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// SetSearchTerm устанавливает строку поиска и возвращает просмотр
// на первую страницу.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
	s.currentPage = 1
}

// SearchTerm возвращает текущую строку поиска.
func (s *Store) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchTerm
}

// SetCurrentPage устанавливает текущую страницу просмотра.
func (s *Store) SetCurrentPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = page
}

// CurrentPage возвращает текущую страницу просмотра.
func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

// SetItemsPerPage устанавливает размер страницы просмотра.
func (s *Store) SetItemsPerPage(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemsPerPage = count
}

// ItemsPerPage возвращает размер страницы просмотра.
func (s *Store) ItemsPerPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsPerPage
}

// Reset удаляет сохранённую запись и возвращает хранилище в исходное
// пустое состояние с новым идентификатором сессии.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := database.ClearSnapshot(s.db); err != nil {
		return err
	}

	s.user = nil
	s.artworks = nil
	s.comments = nil
	s.ratings = nil
	s.categories = nil
	s.sessionID = uuid.New().String()
	s.selectedArtwork = nil
	s.selectedCategory = ""
	s.searchTerm = ""
	s.currentPage = 1
	s.itemsPerPage = defaultItemsPerPage
	return nil
}
