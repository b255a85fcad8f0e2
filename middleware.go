// Package main содержит реализацию кастомного HTTP-обработчика для галереи.
// Обрабатывает маршруты, логирует запросы, перехватывает паники и возвращает
// JSON-ответ 404 при отсутствии маршрута.

package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
)

// CustomHandler обрабатывает HTTP-запросы с перехватом паник и обработкой ошибок 404.
// Логирует запросы и ответы, возвращает JSON-ответ 404, если маршрут не найден.
type CustomHandler struct {
	mux *http.ServeMux // Маршрутизатор для обработки запросов.
}

// ServeHTTP обрабатывает входящий HTTP-запрос.
// Перехватывает паники, логирует запросы и ответы, возвращает 404, если маршрут не найден.
func (h *CustomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic recovered: %v.", rec)
			http.Error(w, "Internal server error.", http.StatusInternalServerError)
		}
	}()

	log.Println("Incoming request:", r.Method, r.URL.Path)

	rr := &responseRecorder{ResponseWriter: w, statusCode: 0, written: false}
	h.mux.ServeHTTP(rr, r)

	if !rr.written {
		log.Println("Route not found:", r.URL.Path)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		err := json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Page not found.",
		})
		if err != nil {
			log.Println("Error encoding 404 response:", err)
		}
	}
}

// responseRecorder отслеживает статус ответа и факт записи.
// Используется для определения, был ли отправлен ответ маршрутизатором.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int  // Код статуса ответа.
	written    bool // Флаг, указывающий, был ли записан ответ.
}

// WriteHeader записывает код статуса ответа.
// Устанавливает код и флаг written, если ответ ещё не был записан.
func (rec *responseRecorder) WriteHeader(code int) {
	if !rec.written {
		rec.statusCode = code
		rec.written = true
		rec.ResponseWriter.WriteHeader(code)
	}
}

// Hijack отдаёт низкоуровневое соединение для обновления до WebSocket.
func (rec *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rec.written = true
	return hj.Hijack()
}

// Write записывает данные в ответ.
// Устанавливает код 200 и флаг written, если ответ ещё не был записан.
func (rec *responseRecorder) Write(b []byte) (int, error) {
	if !rec.written {
		rec.statusCode = http.StatusOK
		rec.ResponseWriter.WriteHeader(http.StatusOK)
		rec.written = true
	}
	n, err := rec.ResponseWriter.Write(b)
	if err == nil && n > 0 {
		rec.written = true
	}
	return n, err
}
