package main

import (
	"log"
	"net/http"

	"gallery/database"
	"gallery/store"
	"gallery/ws"
)

// main инициализирует приложение и запускает сервер.
// Открывает базу данных, загружает состояние галереи, запускает хаб
// уведомлений, настраивает маршруты и слушает порт 8080.
func main() {
	db, err := database.InitDB("")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	st, err := store.New(db)
	if err != nil {
		log.Fatal(err)
	}

	hub := ws.NewHub()
	go hub.Run()

	// Настраивает маршруты и возвращает обработчик HTTP-запросов.
	handler := setupRoutes(st, hub)

	log.Println("Server started on :8080")
	log.Fatal(http.ListenAndServe(":8080", handler))
}
