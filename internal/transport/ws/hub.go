// Package ws pushes live reaction-count updates to subscribed browsers.
package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"edumeet/internal/domain"
	"edumeet/internal/logger"
)

const EventReactionsUpdated = "reactions_updated"

type Message struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

type Subscription struct {
	client  *Client
	channel string
}

type Hub struct {
	ctx    context.Context
	cancel context.CancelFunc

	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription

	events chan *Message

	log logger.Logger
}

func NewHub(parent context.Context, log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)

	return &Hub{
		ctx:    ctx,
		cancel: cancel,

		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),

		events: make(chan *Message, 100),

		log: log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.log.Info("ws: hub shutting down")
			for client := range h.clients {
				close(client.send)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: client registered", "id", client.ID, "total_clients", len(h.clients))

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			h.log.Debug("ws: client subscribed", "client_id", sub.client.ID, "channel", sub.channel)

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok {
				if _, subscribed := subs[sub.client]; subscribed {
					delete(subs, sub.client)
					if len(subs) == 0 {
						delete(h.channels, sub.channel)
					}
					h.log.Debug("ws: client unsubscribed", "client_id", sub.client.ID, "channel", sub.channel)
				}
			}

		case event := <-h.events:
			h.handleEvent(event)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) Broadcast(event *Message) {
	select {
	case h.events <- event:
	case <-h.ctx.Done():
	}
}

// ReactionsUpdated satisfies the event service's broadcaster: updated counts
// go out on the event's reaction channel.
func (h *Hub) ReactionsUpdated(eventID uuid.UUID, counts domain.ReactionCounts) {
	h.Broadcast(&Message{
		Channel: ReactionChannel(eventID),
		Event:   EventReactionsUpdated,
		Payload: counts,
	})
}

func ReactionChannel(eventID uuid.UUID) string {
	return fmt.Sprintf("events:%s:reactions", eventID)
}

func (h *Hub) handleEvent(event *Message) {
	message, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws: failed to marshal event", "error", err)
		return
	}

	targetClients := h.clients

	if event.Channel != "" {
		subs, ok := h.channels[event.Channel]
		if !ok {
			h.log.Debug("ws: channel has no subscribers", "channel", event.Channel)
			return
		}
		targetClients = subs
	}

	for client := range targetClients {
		select {
		case client.send <- message:
		default:
			h.log.Warn("ws: client channel full, force unregister", "id", client.ID)
			h.removeClient(client)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	if !h.clients[client] {
		return
	}

	delete(h.clients, client)
	close(client.send)
	h.log.Info("ws: client unregistered", "id", client.ID, "total_clients", len(h.clients))

	for channelID, subs := range h.channels {
		if _, subscribed := subs[client]; subscribed {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.channels, channelID)
			}
		}
	}
}
