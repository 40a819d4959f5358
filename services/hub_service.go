package services

import (
	"encoding/json"
	"log"

	"feedapi/models"
)

// HubService owns the process-wide feed broadcast channel. It is
// created once at startup and stopped with Shutdown; publishing is
// fire-and-forget with no acknowledgment or retry.
type HubService struct {
	hub *models.Hub
}

func NewHubService() *HubService {
	hub := models.NewHub()
	service := &HubService{hub: hub}

	go service.run()

	return service
}

func (h *HubService) GetHub() *models.Hub {
	return h.hub
}

func (h *HubService) run() {
	for {
		select {
		case client := <-h.hub.Register:
			h.hub.Clients[client] = true

		case client := <-h.hub.Unregister:
			if _, ok := h.hub.Clients[client]; ok {
				delete(h.hub.Clients, client)
				close(client.Send)
			}

		case message := <-h.hub.Broadcast:
			h.broadcastToAll(message)

		case <-h.hub.Done:
			for client := range h.hub.Clients {
				delete(h.hub.Clients, client)
				close(client.Send)
			}
			return
		}
	}
}

func (h *HubService) broadcastToAll(message []byte) {
	for client := range h.hub.Clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.hub.Clients, client)
		}
	}
}

// BroadcastPostEvent publishes a post mutation to every connected
// client. A marshal failure or a full hub is logged and dropped; a
// lost event never fails the mutation that produced it.
func (h *HubService) BroadcastPostEvent(action string, post interface{}) {
	event := models.FeedEvent{
		Action: action,
		Post:   post,
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling feed event: %v", err)
		return
	}

	select {
	case h.hub.Broadcast <- messageBytes:
	default:
		log.Printf("Feed broadcast channel full, dropping %s event", action)
	}
}

// Shutdown stops the run loop and disconnects all clients.
func (h *HubService) Shutdown() {
	close(h.hub.Done)
}
