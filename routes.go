// Package main содержит настройку маршрутов для приложения галереи.
// Регистрирует обработчики HTTP-запросов и возвращает кастомный обработчик.

package main

import (
	"net/http"

	"gallery/handlers"
	"gallery/store"
	"gallery/ws"
)

// setupRoutes настраивает маршруты приложения и возвращает HTTP-обработчик.
// Регистрирует обработчики для статических файлов и основных маршрутов,
// оборачивает их в CustomHandler.
func setupRoutes(st *store.Store, hub *ws.Hub) http.Handler {
	mux := http.NewServeMux()

	// Обслуживает статические файлы приложения.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Регистрирует обработчики для основных маршрутов.
	mux.HandleFunc("/", handlers.IndexHandler())
	mux.HandleFunc("/register", handlers.RegisterHandler(st))
	mux.HandleFunc("/login", handlers.LoginHandler(st))
	mux.HandleFunc("/logout", handlers.LogoutHandler(st))
	mux.HandleFunc("/session", handlers.SessionHandler(st))
	mux.HandleFunc("/reset", handlers.ResetHandler(st, hub))
	mux.HandleFunc("/artworks", handlers.ArtworksHandler(st))
	mux.HandleFunc("/artwork", handlers.ArtworkHandler(st))
	mux.HandleFunc("/create-artwork", handlers.CreateArtworkHandler(st, hub))
	mux.HandleFunc("/edit-artwork", handlers.EditArtworkHandler(st, hub))
	mux.HandleFunc("/delete-artwork", handlers.DeleteArtworkHandler(st, hub))
	mux.HandleFunc("/move-artwork", handlers.MoveArtworkHandler(st, hub))
	mux.HandleFunc("/categories", handlers.CategoriesHandler(st))
	mux.HandleFunc("/create-category", handlers.CreateCategoryHandler(st, hub))
	mux.HandleFunc("/edit-category", handlers.EditCategoryHandler(st, hub))
	mux.HandleFunc("/delete-category", handlers.DeleteCategoryHandler(st, hub))
	mux.HandleFunc("/comments", handlers.CommentsHandler(st))
	mux.HandleFunc("/comment", handlers.CommentHandler(st, hub))
	mux.HandleFunc("/delete-comment", handlers.DeleteCommentHandler(st, hub))
	mux.HandleFunc("/rate", handlers.RateHandler(st, hub))
	mux.HandleFunc("/rating", handlers.RatingHandler(st))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	// Оборачивает маршрутизатор в CustomHandler для обработки паник и ошибок 404.
	return &CustomHandler{mux: mux}
}
