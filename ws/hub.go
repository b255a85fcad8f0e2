// Package ws рассылает подключённым клиентам события об изменениях галереи.
// Это только уведомления для перерисовки: клиенты перечитывают данные
// через API, согласование состояний не выполняется.
package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Event описывает изменение состояния галереи.
type Event struct {
	Type      string    `json:"type"`
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Типы событий.
const (
	EventArtworkCreated  = "artwork.created"
	EventArtworkUpdated  = "artwork.updated"
	EventArtworkMoved    = "artwork.moved"
	EventArtworkDeleted  = "artwork.deleted"
	EventCommentCreated  = "comment.created"
	EventCommentDeleted  = "comment.deleted"
	EventCategoryCreated = "category.created"
	EventCategoryUpdated = "category.updated"
	EventCategoryDeleted = "category.deleted"
	EventRatingChanged   = "rating.changed"
	EventStoreReset      = "store.reset"
)

// Hub хранит активных клиентов и рассылает им события.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan *Event
	Register   chan *Client
	Unregister chan *Client
	Mu         sync.Mutex
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan *Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run запускает цикл обработки сообщений хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Mu.Lock()
			h.Clients[client] = true
			h.Mu.Unlock()

		case client := <-h.Unregister:
			h.Mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.Mu.Unlock()

		case event := <-h.Broadcast:
			data := mustMarshal(event)
			h.Mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- data:
				default:
					// Клиент не успевает читать: отключаем.
					delete(h.Clients, client)
					close(client.Send)
				}
			}
			h.Mu.Unlock()
		}
	}
}

// Notify ставит событие в очередь рассылки, не блокируя вызывающего.
// Безопасен при nil-хабе, чтобы обработчики можно было собирать без него.
func (h *Hub) Notify(eventType, id string) {
	if h == nil {
		return
	}
	event := &Event{Type: eventType, ID: id, Timestamp: time.Now()}
	select {
	case h.Broadcast <- event:
	default:
	}
}

func mustMarshal(event *Event) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		return []byte(`{"type":"error"}`)
	}
	return data
}
