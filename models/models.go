package models

import "time"

// User представляет данные текущего пользователя галереи.
// Пароль не хранится и не проверяется: вход и регистрация создают запись заново.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Category представляет категорию работ.
// Содержит идентификатор, имя и создателя. Имена не обязаны быть уникальными.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
}

// Artwork представляет данные работы.
// ImageURL хранит уже закодированное изображение и не интерпретируется хранилищем.
// UserID равен "anonymous" для работ без автора; IsAnonymous дублирует этот признак,
// и оба поля поддерживаются согласованными.
type Artwork struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId"`
	CategoryID  string    `json:"categoryId,omitempty"`
	IsAnonymous bool      `json:"isAnonymous"`
}

// Comment представляет данные комментария к работе.
// Автор задаётся произвольным именем, без привязки к пользователю.
type Comment struct {
	ID        string    `json:"id"`
	ArtworkID string    `json:"artworkId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating представляет оценку работы.
// Ключом служит пара (ArtworkID, SessionID): не более одной оценки на сессию.
type Rating struct {
	ArtworkID string `json:"artworkId"`
	Rating    int    `json:"rating"`
	SessionID string `json:"sessionId"`
}

// ArtworkUpdate задаёт частичное обновление работы.
// Поля со значением nil не изменяются. Пустая строка в CategoryID снимает категорию.
type ArtworkUpdate struct {
	Title       *string
	Artist      *string
	Description *string
	ImageURL    *string
	CategoryID  *string
}

// ArtworkData используется для отображения работы с дополнительной информацией.
// Содержит данные работы, средний балл, число оценок, признак оценки
// текущей сессией и комментарии.
type ArtworkData struct {
	Artwork
	AvgRating   float64   `json:"avgRating"`
	RatingCount int       `json:"ratingCount"`
	HasRated    bool      `json:"hasRated"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Snapshot — единственная сохраняемая запись галереи.
// Состояние отображения (выбранная работа, фильтр, поиск, страница)
// намеренно не сохраняется и сбрасывается при перезапуске.
type Snapshot struct {
	User       *User      `json:"user"`
	Artworks   []Artwork  `json:"artworks"`
	Comments   []Comment  `json:"comments"`
	Ratings    []Rating   `json:"ratings"`
	Categories []Category `json:"categories"`
	SessionID  string     `json:"sessionId"`
}
